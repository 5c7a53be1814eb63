package services

// ScanRequest parameterizes one walk. ExcludePatterns are doublestar
// globs matched against slash-separated relative paths; matches are
// kept in the tree as skipped entries, never silently dropped.
type ScanRequest struct {
	RootPath        string
	ShowHidden      bool
	MaxFileSizeKB   int64
	ExcludePatterns []string
}
