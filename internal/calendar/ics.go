// Package calendar exports an assembled schedule as an iCalendar file.
package calendar

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"schedgen/internal/models"
	"schedgen/internal/timestamp"
)

const (
	productID      = "-//schedgen//EN"
	floatingLayout = "20060102T150405"
)

// Exporter converts Sessionize documents to iCalendar.
type Exporter struct {
	logger *slog.Logger
	name   string
	now    func() time.Time
}

// NewExporter creates an Exporter. name becomes X-WR-CALNAME when non-empty.
func NewExporter(logger *slog.Logger, name string) *Exporter {
	return &Exporter{logger: logger, name: name, now: time.Now}
}

// WithClock overrides the DTSTAMP source.
func (e *Exporter) WithClock(now func() time.Time) *Exporter {
	e.now = now
	return e
}

// Calendar builds one VEVENT per session that has a start time.
func (e *Exporter) Calendar(doc *models.Document) *ical.Calendar {
	rooms := make(map[string]string, len(doc.Rooms))
	for _, r := range doc.Rooms {
		rooms[r.ID] = r.Name
	}
	items := make(map[string]string)
	for _, c := range doc.Categories {
		for _, item := range c.Items {
			items[item.ID] = item.Name
		}
	}
	speakers := make(map[string]string, len(doc.Speakers))
	for _, s := range doc.Speakers {
		speakers[s.ID] = s.FullName
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	if e.name != "" {
		cal.Props.SetText("X-WR-CALNAME", e.name)
	}

	stamp := e.now().UTC()
	for _, session := range doc.Sessions {
		if session.Start == nil {
			e.logger.Debug("Session has no start time, skipping.", "id", session.ID)
			continue
		}
		cal.Children = append(cal.Children, e.toICal(session, stamp, rooms, items, speakers))
	}
	return cal
}

// WriteFile writes the calendar for doc to path, creating parent directories.
func (e *Exporter) WriteFile(path string, doc *models.Document) error {
	cal := e.Calendar(doc)
	if len(cal.Children) == 0 {
		e.logger.Warn("No timed sessions, calendar not written.", "file", path)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create calendar directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create calendar file: %w", err)
	}
	defer f.Close()

	if err := ical.NewEncoder(f).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	e.logger.Info("Wrote calendar.", "file", path)
	return f.Close()
}

// EventUID derives a stable UID from the session id.
func EventUID(sessionID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("schedgen:session:"+sessionID)).String()
}

func (e *Exporter) toICal(s *models.Session, stamp time.Time, rooms, items, speakers map[string]string) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, EventUID(s.ID))
	ve.Props.SetText(ical.PropSummary, s.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	ve.Props.Set(dateTimeProp(ical.PropDateTimeStart, s.Start))
	if s.End != nil {
		ve.Props.Set(dateTimeProp(ical.PropDateTimeEnd, s.End))
	}

	if desc := describe(s, speakers); desc != "" {
		ve.Props.SetText(ical.PropDescription, desc)
	}
	if room := rooms[s.RoomID]; room != "" {
		ve.Props.SetText(ical.PropLocation, room)
	}

	var categories []string
	for _, id := range s.CategoryItems {
		if name := items[id]; name != "" {
			categories = append(categories, name)
		}
	}
	if len(categories) > 0 {
		p := ical.NewProp(ical.PropCategories)
		p.SetTextList(categories)
		ve.Props.Set(p)
	}
	return ve
}

// dateTimeProp writes offset-less times as floating local times and
// everything else in UTC, so the calendar needs no VTIMEZONE components.
func dateTimeProp(name string, ts *timestamp.Timestamp) *ical.Prop {
	p := ical.NewProp(name)
	if ts.Floating {
		p.Value = ts.Time.Format(floatingLayout)
		return p
	}
	p.SetDateTime(ts.Time.UTC())
	return p
}

func describe(s *models.Session, speakers map[string]string) string {
	var names []string
	seen := make(map[string]bool)
	for _, id := range s.Speakers {
		if seen[id] {
			continue
		}
		seen[id] = true
		if name := speakers[id]; name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return s.Description
	}
	line := "Speakers: " + strings.Join(names, ", ")
	if s.Description == "" {
		return line
	}
	return s.Description + "\n\n" + line
}
