package services

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

// SystemClipboard writes through atotto/clipboard and, when that fails
// (headless Linux without xclip is the usual case), falls back to
// invoking the platform tools directly.
type SystemClipboard struct {
	logger *zap.Logger
}

func NewSystemClipboard(logger *zap.Logger) *SystemClipboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SystemClipboard{logger: logger}
}

func (system *SystemClipboard) Copy(text string) error {
	if err := clipboard.WriteAll(text); err == nil {
		return nil
	} else {
		system.logger.Debug("clipboard library failed, trying platform tools", zap.Error(err))
	}

	var commands [][]string
	switch runtime.GOOS {
	case "darwin":
		commands = [][]string{{"pbcopy"}}
	case "linux":
		commands = [][]string{
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		}
	default:
		return fmt.Errorf("no clipboard tool for %s", runtime.GOOS)
	}
	for _, command := range commands {
		if _, err := exec.LookPath(command[0]); err != nil {
			continue
		}
		cmd := exec.Command(command[0], command[1:]...)
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no working clipboard tool found")
}
