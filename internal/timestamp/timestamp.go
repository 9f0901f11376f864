package timestamp

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const wallClockLayout = "2006-01-02T15:04:05"

// Layouts carrying an explicit offset. Fractional seconds are accepted by
// time.Parse after the seconds field even though the layouts omit them.
var offsetLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15Z07:00",
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15",
	"2006-01-02",
}

// Timestamp is a parsed schedule time.
type Timestamp struct {
	Time time.Time
	// Floating is set when neither the input nor the configured timezone
	// supplied an offset.
	Floating bool
	// Zone is the IANA name the wall-clock time was placed in, if any.
	Zone string
}

// String renders the canonical form: YYYY-MM-DDTHH:MM:SS, microseconds when
// non-zero, and a ±HH:MM offset unless the timestamp is floating.
func (ts *Timestamp) String() string {
	var b strings.Builder
	b.WriteString(ts.Time.Format(wallClockLayout))
	if micro := ts.Time.Nanosecond() / 1000; micro != 0 {
		fmt.Fprintf(&b, ".%06d", micro)
	}
	if !ts.Floating {
		b.WriteString(ts.Time.Format("-07:00"))
	}
	return b.String()
}

// Parser converts loosely formatted date-times into Timestamps, attaching
// a default timezone to values that carry no offset.
type Parser struct {
	logger   *slog.Logger
	location *time.Location
	zone     string
}

// NewParser creates a Parser for the given timezone name. An empty name or
// one the host cannot resolve leaves offset-less values floating.
func NewParser(logger *slog.Logger, tz string) *Parser {
	p := &Parser{logger: logger}
	if tz == "" {
		return p
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		logger.Debug("Timezone unavailable, timestamps stay naive.", "timezone", tz, "error", err)
		return p
	}
	p.location = loc
	p.zone = tz
	return p
}

// Parse returns nil for an empty value. Both "YYYY-MM-DDTHH:MM[:SS]" and the
// space-separated "YYYY-MM-DD HH:MM" forms are accepted, with or without an
// offset. Anything else is an error.
func (p *Parser) Parse(value string) (*Timestamp, error) {
	if value == "" {
		return nil, nil
	}
	normalized := value
	if !strings.Contains(normalized, "T") {
		normalized = strings.ReplaceAll(normalized, " ", "T")
	}

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return &Timestamp{Time: t}, nil
		}
	}

	for _, layout := range naiveLayouts {
		t, err := time.Parse(layout, normalized)
		if err != nil {
			continue
		}
		if p.location == nil {
			return &Timestamp{Time: t, Floating: true}, nil
		}
		return &Timestamp{Time: p.localize(t), Zone: p.zone}, nil
	}

	return nil, fmt.Errorf("invalid datetime format: %q", value)
}

// localize keeps the wall clock of naive (parsed as UTC) and attaches the
// zone offset in effect for it. Wall times that occur twice take the earlier
// occurrence; wall times skipped by a transition take the offset in effect
// before it.
func (p *Parser) localize(naive time.Time) time.Time {
	before := p.offsetAt(naive.Add(-24 * time.Hour))
	after := p.offsetAt(naive.Add(24 * time.Hour))

	offset := before
	if !p.holds(naive, before) && p.holds(naive, after) {
		offset = after
	}

	y, mo, d := naive.Date()
	h, mi, sec := naive.Clock()
	return time.Date(y, mo, d, h, mi, sec, naive.Nanosecond(), time.FixedZone(p.zone, offset))
}

func (p *Parser) offsetAt(instant time.Time) int {
	_, offset := instant.In(p.location).Zone()
	return offset
}

// holds reports whether wall clock naive read with offset maps back to it.
func (p *Parser) holds(naive time.Time, offset int) bool {
	return p.offsetAt(naive.Add(-time.Duration(offset)*time.Second)) == offset
}
