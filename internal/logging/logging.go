// Package logging builds the zap logger. Output goes to a file under
// the user cache directory rather than stderr so log lines never tear
// the interactive screen.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logDirName = "promptmap"

// New returns a production logger, or a development-level one when
// debug is set. When the log file cannot be set up the logger degrades
// to a no-op instead of failing startup.
func New(debug bool, version string) (*zap.Logger, error) {
	path, err := logFilePath()
	if err != nil {
		return zap.NewNop(), nil
	}

	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.InitialFields = map[string]interface{}{
		"version": version,
		"pid":     os.Getpid(),
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop(), nil
	}
	return logger, nil
}

func logFilePath() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, logDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "promptmap.log"), nil
}
