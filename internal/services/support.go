package services

// ScanProgress is streamed over a scanner's Progress channel while a
// walk runs. Completed marks the final message.
type ScanProgress struct {
	Current    string
	Scanned    int64
	Completed  bool
	ErrMessage string
}

// ProgressProvider is implemented by scanners that stream progress.
type ProgressProvider interface {
	Progress() <-chan ScanProgress
}
