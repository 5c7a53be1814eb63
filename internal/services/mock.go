package services

import (
	"context"
	"fmt"

	"promptmap/internal/domain"
)

// MockScanner returns a canned result for tests and wiring checks.
type MockScanner struct {
	Result domain.ScanResult
	Err    error
}

func (scanner *MockScanner) Scan(ctx context.Context, req ScanRequest) (domain.ScanResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.ScanResult{}, err
	}
	if scanner.Err != nil {
		return domain.ScanResult{}, scanner.Err
	}
	result := scanner.Result
	if result.RootPath == "" {
		result.RootPath = req.RootPath
	}
	return result, nil
}

// MockReader serves content from a map. Paths listed in Skip come back
// skipped; paths in Fail return an error from the call itself.
type MockReader struct {
	Contents map[string]string
	Skip     map[string]string
	Fail     map[string]error
}

func (reader *MockReader) ReadFile(ctx context.Context, path string) (ReadResult, error) {
	if err := ctx.Err(); err != nil {
		return ReadResult{}, err
	}
	if err, ok := reader.Fail[path]; ok {
		return ReadResult{}, err
	}
	if message, ok := reader.Skip[path]; ok {
		return ReadResult{Skipped: true, ErrMessage: message}, nil
	}
	content, ok := reader.Contents[path]
	if !ok {
		return ReadResult{Skipped: true, ErrMessage: fmt.Sprintf("no such file: %s", path)}, nil
	}
	return ReadResult{Content: content}, nil
}

// MockClipboard records every copy.
type MockClipboard struct {
	Copied []string
	Err    error
}

func (clip *MockClipboard) Copy(text string) error {
	if clip.Err != nil {
		return clip.Err
	}
	clip.Copied = append(clip.Copied, text)
	return nil
}
