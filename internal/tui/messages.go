package tui

import "github.com/mmcdole/plexskill/internal/domain"

// Message types for the TUI. Every search message carries the id of the
// search that produced it so results of an abandoned search are dropped.

// BatchMsg delivers one batch as soon as its category is searched
type BatchMsg struct {
	SearchID int
	Batch    domain.Batch
}

// ExtendTimeoutMsg signals that the next category is being searched
type ExtendTimeoutMsg struct {
	SearchID int
}

// SearchDoneMsg signals the end of a search
type SearchDoneMsg struct {
	SearchID int
	Err      error
}
