package core

// Progress receives pipeline progress. Implementations must be safe for
// concurrent use.
type Progress interface {
	// Add extends the expected total by n.
	Add(n int)
	Inc()
	SetMessage(msg string)
	Finish(msg string)
}

// ProgressFunc opens a progress display for a stage of total items.
type ProgressFunc func(description string, total int) Progress

// NopProgress discards progress.
type NopProgress struct{}

func (NopProgress) Add(int)           {}
func (NopProgress) Inc()              {}
func (NopProgress) SetMessage(string) {}
func (NopProgress) Finish(string)     {}
