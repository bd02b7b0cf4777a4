package parser

import (
	"strings"
	"time"

	"github.com/penwyp/go-log-pager/internal/core/model"
)

// Status tells the chunk scanner what happened to a line.
type Status int

const (
	// Accepted lines become page entries.
	Accepted Status = iota
	// Filtered lines are well-tagged but outside the page filter.
	Filtered
	// Rejected lines are not log entries: boundary noise or foreign text.
	Rejected
)

func (s Status) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case Filtered:
		return "filtered"
	default:
		return "rejected"
	}
}

// Layouts tried for the timestamp token, zoned ones first.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.000Z0700",
	}
	localLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
	}
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// Parser turns single lines of the form "<C> <timestamp> <content>" into
// entries. It holds no per-line state and is safe for concurrent use.
type Parser struct {
	location *time.Location
}

// NewParser creates a Parser that reads zone-less timestamps in loc.
// A nil loc means UTC.
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	return &Parser{location: loc}
}

// ParseLine parses one line without its line feed.
func (p *Parser) ParseLine(line string, filter model.CategorySet) (model.LogEntry, Status) {
	line = strings.TrimSuffix(line, "\r")
	if len(line) < 2 {
		return model.LogEntry{}, Rejected
	}

	category, ok := model.ParseCategory(line[0])
	if !ok {
		return model.LogEntry{}, Rejected
	}
	if !filter.Contains(category) {
		return model.LogEntry{}, Filtered
	}

	token, content, found := strings.Cut(line[2:], " ")
	if !found || token == "" {
		return model.LogEntry{}, Rejected
	}

	timestamp, content, ok := p.parseTimestamp(token, content)
	if !ok {
		return model.LogEntry{}, Rejected
	}

	return model.LogEntry{
		Category:  category,
		Timestamp: timestamp,
		Content:   content,
	}, Accepted
}

// parseTimestamp parses token and returns the remaining content. A date-only
// token followed by a clock token ("2006-01-02 15:04:05.000 ...") is read as
// one timestamp and the clock is removed from the content.
func (p *Parser) parseTimestamp(token, content string) (time.Time, string, bool) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return t, content, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, token, p.location); err == nil {
			return t, content, true
		}
	}

	date, err := time.ParseInLocation(dateLayout, token, p.location)
	if err != nil {
		return time.Time{}, "", false
	}

	clock, rest, _ := strings.Cut(content, " ")
	if looksLikeClock(clock) {
		if t, err := time.ParseInLocation(dateTimeLayout, token+" "+clock, p.location); err == nil {
			return t, rest, true
		}
	}
	return date, content, true
}

// looksLikeClock reports whether s starts with "hh:mm".
func looksLikeClock(s string) bool {
	if len(s) < 5 || s[2] != ':' {
		return false
	}
	return isDigit(s[0]) && isDigit(s[1]) && isDigit(s[3]) && isDigit(s[4])
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
