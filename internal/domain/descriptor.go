package domain

import "time"

// SkipReason explains why the scanner excluded a file's content from
// prompt assembly. Skipped entries still appear in the tree so the user
// can see what was left out.
type SkipReason string

const (
	SkipExtension SkipReason = "extension"
	SkipContent   SkipReason = "content"
	SkipSize      SkipReason = "size"
	SkipIgnored   SkipReason = "ignored"
	SkipError     SkipReason = "error"
)

// FileDescriptor is one flat entry produced by a scan. RelativePath is
// slash-separated and unique within a scan; its segments define the tree
// hierarchy.
type FileDescriptor struct {
	Path          string
	RelativePath  string
	IsDirectory   bool
	IsSkipped     bool
	SkipReason    SkipReason
	Size          uint64
	TokenEstimate uint64
}

type ScanStats struct {
	Files       int
	Directories int
	Skipped     int
	TotalSize   uint64
	TotalTokens uint64
	Duration    time.Duration
}

// ScanResult is the only shape the tree builder accepts from a scanner.
type ScanResult struct {
	RootPath string
	Files    []FileDescriptor
	Stats    ScanStats
}
