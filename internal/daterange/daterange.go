package daterange

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// DefaultSpan is the range used when no start date is given.
const DefaultSpan = 7 * 24 * time.Hour

var layouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
}

// Parser understands ISO dates and English expressions such as
// "yesterday" or "last monday".
type Parser struct {
	w   *when.Parser
	loc *time.Location
}

func NewParser(loc *time.Location) *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	if loc == nil {
		loc = time.Local
	}
	return &Parser{w: w, loc: loc}
}

// Date returns the calendar day named by value, at midnight in the parser's
// zone.
func (p *Parser) Date(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, p.loc); err == nil {
			return startOfDay(t, p.loc), nil
		}
	}
	switch strings.ToLower(value) {
	case "today", "now":
		return startOfDay(now, p.loc), nil
	}

	result, err := p.w.Parse(value, now.In(p.loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", value)
	}
	return startOfDay(result.Time, p.loc), nil
}

// Range resolves an inclusive [from, to] day range. An empty from means
// DefaultSpan before to; an empty to means today. The returned to is the
// last instant of its day.
func (p *Parser) Range(from, to string, now time.Time) (time.Time, time.Time, error) {
	end := startOfDay(now, p.loc)
	if to != "" {
		parsed, err := p.Date(to, now)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = parsed
	}

	start := end.Add(-DefaultSpan).AddDate(0, 0, 1)
	if from != "" {
		parsed, err := p.Date(from, now)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = parsed
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("range start %s is after end %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return start, end.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
