package ui

// Stats accumulates totals over a download run.
type Stats struct {
	Chapters int
	Failed   int
	Pages    int
	Skipped  int
	Broken   int
	Bytes    int64
}
