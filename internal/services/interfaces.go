package services

import (
	"context"

	"promptmap/internal/domain"
)

// Scanner walks a directory tree and produces the flat descriptor list
// the tree builder consumes.
type Scanner interface {
	Scan(ctx context.Context, req ScanRequest) (domain.ScanResult, error)
}

// ContentReader loads one file's text for prompt assembly. Policy
// skips (binary content, oversized files) come back in the result, not
// as errors; the error return is for unexpected failures only.
type ContentReader interface {
	ReadFile(ctx context.Context, path string) (ReadResult, error)
}

// Clipboard copies assembled text to the system clipboard.
type Clipboard interface {
	Copy(text string) error
}
