package services

// ReadResult carries one file's content or the reason it was withheld.
// Skipped results are expected outcomes (binary, too large, vanished
// between scan and read) and leave Content empty.
type ReadResult struct {
	Content    string
	Skipped    bool
	ErrMessage string
}
