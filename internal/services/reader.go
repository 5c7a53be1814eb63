package services

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// FSReader loads file content at assembly time. It re-checks size and
// binary content because the file may have changed since the scan; a
// file that fails the re-check comes back Skipped rather than as an
// error.
type FSReader struct {
	maxFileSizeKB int64
	logger        *zap.Logger
}

func NewFSReader(maxFileSizeKB int64, logger *zap.Logger) *FSReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FSReader{maxFileSizeKB: maxFileSizeKB, logger: logger}
}

func (reader *FSReader) ReadFile(ctx context.Context, path string) (ReadResult, error) {
	if err := ctx.Err(); err != nil {
		return ReadResult{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		reader.logger.Warn("read stat failed", zap.String("path", path), zap.Error(err))
		return ReadResult{Skipped: true, ErrMessage: err.Error()}, nil
	}
	if !info.Mode().IsRegular() {
		return ReadResult{Skipped: true, ErrMessage: fmt.Sprintf("not a regular file: %s", path)}, nil
	}
	if reader.maxFileSizeKB > 0 && info.Size() > reader.maxFileSizeKB*1024 {
		return ReadResult{Skipped: true, ErrMessage: fmt.Sprintf("file exceeds %dKB", reader.maxFileSizeKB)}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		reader.logger.Warn("read failed", zap.String("path", path), zap.Error(err))
		return ReadResult{Skipped: true, ErrMessage: err.Error()}, nil
	}
	if isBinaryContent(data[:min(len(data), 512)]) {
		return ReadResult{Skipped: true, ErrMessage: fmt.Sprintf("binary content: %s", path)}, nil
	}
	return ReadResult{Content: string(data)}, nil
}
