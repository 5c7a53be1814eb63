package app

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"promptmap/internal/config"
	"promptmap/internal/domain"
	"promptmap/internal/prompt"
	"promptmap/internal/services"
	"promptmap/internal/state"
	"promptmap/internal/ui"
)

// Run starts the interactive session and persists the settings the
// user changed when the program exits cleanly.
func Run(cfg config.Config, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	scanner := services.NewFSScanner(logger)
	reader := services.NewFSReader(cfg.MaxFileSizeKB, logger)
	assembler := prompt.NewAssembler(reader, logger)
	clip := services.NewSystemClipboard(logger)
	session := state.NewSession(cfg.Format, cfg.TokenCap, logger)

	model := ui.NewModel(session, scanner, assembler, clip, cfg, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := program.Run()
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	if provider, ok := finalModel.(ui.ConfigProvider); ok {
		if err := config.SaveConfig(provider.ConfigSnapshot()); err != nil {
			logger.Warn("config save failed", zap.Error(err))
		}
	}
	return nil
}

// RunPrint is the non-interactive path: scan, select everything,
// assemble, write the payload to out. Used when stdout is not a
// terminal or --print is set.
func RunPrint(ctx context.Context, cfg config.Config, logger *zap.Logger, out io.Writer) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	scanner := services.NewFSScanner(logger)
	result, err := scanner.Scan(ctx, services.ScanRequest{
		RootPath:        cfg.Path,
		ShowHidden:      cfg.ShowHidden,
		MaxFileSizeKB:   cfg.MaxFileSizeKB,
		ExcludePatterns: cfg.ExcludePatterns,
	})
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	nodes := domain.BuildNodes(result.Files)
	selection := state.NewSelection(nodes, logger)
	selection.SelectAll()

	reader := services.NewFSReader(cfg.MaxFileSizeKB, logger)
	assembler := prompt.NewAssembler(reader, logger)
	assembled, err := assembler.Assemble(ctx, prompt.Request{
		RootLabel: result.RootPath,
		Selected:  selection.SelectedNodes(),
		All:       nodes,
		Options:   cfg.Format,
		TokenCap:  cfg.TokenCap,
	})
	if err != nil {
		return fmt.Errorf("assemble: %w", err)
	}
	if _, err := io.WriteString(out, assembled.Payload); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	if !assembled.Success {
		return fmt.Errorf("assembly finished with errors: %s", assembled.ErrMessage)
	}
	if assembled.TokenCapExceeded {
		logger.Warn("payload truncated", zap.String("notice", assembled.TruncationNotice))
	}
	return nil
}
