package normalize

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Canonical layouts for persisted values.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
	Midnight       = "00:00:00"
)

var datetimeLayouts = []string{
	DateTimeLayout,
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339Nano,
	time.RFC3339,
	DateLayout,
}

var clockLayouts = []string{
	TimeLayout,
	"15:04",
	"3:04:05 PM",
	"3:04:05PM",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
}

// Normalizer renders loose date and time strings in canonical form. It
// never fails: empty or unparseable input falls back to the current
// time (dates) or midnight (times). Now may be replaced to pin the clock.
type Normalizer struct {
	Now func() time.Time
}

// NewNormalizer returns a Normalizer on the wall clock.
func NewNormalizer() *Normalizer {
	return &Normalizer{Now: time.Now}
}

func (n *Normalizer) now() time.Time {
	if n == nil || n.Now == nil {
		return time.Now().UTC()
	}
	return n.Now().UTC()
}

// NowString returns the current UTC time as a canonical datetime.
func (n *Normalizer) NowString() string {
	return n.now().Format(DateTimeLayout)
}

// Date returns s as a UTC YYYY-MM-DD, or today's date.
func (n *Normalizer) Date(s string) string {
	if t, ok := n.parse(s); ok {
		return t.UTC().Format(DateLayout)
	}
	return n.now().Format(DateLayout)
}

// Time returns s as a UTC HH:MM:SS, or midnight.
func (n *Normalizer) Time(s string) string {
	if t, ok := n.parse(s); ok {
		return t.UTC().Format(TimeLayout)
	}
	return Midnight
}

// DateTime returns s as a UTC "YYYY-MM-DD HH:MM:SS", or now.
func (n *Normalizer) DateTime(s string) string {
	if t, ok := n.parse(s); ok {
		return t.UTC().Format(DateTimeLayout)
	}
	return n.NowString()
}

// Combine joins a date and a time into one UTC datetime. An empty date
// means today and an empty time means midnight; if the joined value still
// does not parse the result is now.
func (n *Normalizer) Combine(date, clock string) string {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		date = n.now().Format(DateLayout)
	}
	if clock == "" {
		clock = Midnight
	} else if c, ok := parseClock(clock); ok {
		clock = c.Format(TimeLayout)
	}
	if t, ok := n.parse(date + " " + clock); ok {
		return t.UTC().Format(DateTimeLayout)
	}
	return n.NowString()
}

// parse tries the fixed layouts first, then clock-only forms (which land
// on today's date), then the free-form parser. Everything is read as UTC.
func (n *Normalizer) parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	if c, ok := parseClock(s); ok {
		y, m, d := n.now().Date()
		return time.Date(y, m, d, c.Hour(), c.Minute(), c.Second(), 0, time.UTC), true
	}
	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// parseClock reads a time of day without a date, 24h or 12h.
func parseClock(s string) (time.Time, bool) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range clockLayouts {
		if c, err := time.ParseInLocation(layout, upper, time.UTC); err == nil {
			return c, true
		}
	}
	return time.Time{}, false
}
