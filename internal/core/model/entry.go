package model

import (
	"fmt"
	"time"
)

// LogEntry is one parsed log line. Values are never mutated after parsing.
type LogEntry struct {
	Category  Category  `json:"category"`
	Timestamp time.Time `json:"timestamp"`
	Content   string    `json:"content"`
}

// String renders the entry back in file format.
func (e LogEntry) String() string {
	return fmt.Sprintf("%s %s %s", e.Category, e.Timestamp.Format(TimestampLayout), e.Content)
}

// TimestampLayout is the layout used when writing entries.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
