package calendar

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schedgen/internal/assembler"
	"schedgen/internal/models"
	"schedgen/internal/program"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock() time.Time {
	return time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
}

func buildDocument(t *testing.T, src string) *models.Document {
	t.Helper()
	p, err := program.Parse([]byte(src))
	require.NoError(t, err)
	doc, err := assembler.Build(discardLogger(), p, assembler.DefaultOptions())
	require.NoError(t, err)
	return doc
}

const schedule = `
timezone: Europe/Prague
sessions:
  - title: Opening Keynote
    description: Welcome talk.
    speakers: [Jan Novak, Jan Novak, Eva Dvořák]
    track: main
    type: keynote
    room: Aula
    start: 2026-09-10 09:00
    end: 2026-09-10 09:45
  - title: Coffee
    start: 2026-09-10T10:00:00+00:00
  - title: Unscheduled
`

func TestExporter_Calendar(t *testing.T) {
	doc := buildDocument(t, schedule)
	cal := NewExporter(discardLogger(), "DevConf").WithClock(fixedClock).Calendar(doc)

	t.Run("Should skip sessions without a start time", func(t *testing.T) {
		require.Len(t, cal.Children, 2)
	})
	t.Run("Should map session fields onto the event", func(t *testing.T) {
		ev := cal.Children[0]
		uid, err := ev.Props.Text(ical.PropUID)
		require.NoError(t, err)
		assert.Equal(t, EventUID("ses-opening-keynote"), uid)

		summary, err := ev.Props.Text(ical.PropSummary)
		require.NoError(t, err)
		assert.Equal(t, "Opening Keynote", summary)

		location, err := ev.Props.Text(ical.PropLocation)
		require.NoError(t, err)
		assert.Equal(t, "Aula", location)

		desc, err := ev.Props.Text(ical.PropDescription)
		require.NoError(t, err)
		assert.Equal(t, "Welcome talk.\n\nSpeakers: Jan Novak, Eva Dvořák", desc)

		start := ev.Props.Get(ical.PropDateTimeStart)
		require.NotNil(t, start)
		assert.Equal(t, "20260910T070000Z", start.Value)
		assert.Empty(t, start.Params.Get(ical.ParamTimezoneID))

		categories := ev.Props.Get(ical.PropCategories)
		require.NotNil(t, categories)
		list, err := categories.TextList()
		require.NoError(t, err)
		assert.Equal(t, []string{"main", "keynote"}, list)
	})
	t.Run("Should not reference timezones without definitions", func(t *testing.T) {
		for _, ev := range cal.Children {
			for _, prop := range []string{ical.PropDateTimeStart, ical.PropDateTimeEnd} {
				if p := ev.Props.Get(prop); p != nil {
					assert.Empty(t, p.Params.Get(ical.ParamTimezoneID), prop)
				}
			}
		}
		for _, child := range cal.Children {
			assert.NotEqual(t, ical.CompTimezone, child.Name)
		}
	})
	t.Run("Should convert fixed offsets to UTC", func(t *testing.T) {
		start := cal.Children[1].Props.Get(ical.PropDateTimeStart)
		require.NotNil(t, start)
		assert.Equal(t, "20260910T100000Z", start.Value)
		assert.Nil(t, cal.Children[1].Props.Get(ical.PropDateTimeEnd))
	})
}

func TestExporter_Floating(t *testing.T) {
	doc := buildDocument(t, `
sessions:
  - title: Naive
    start: 2026-09-10 09:00
`)
	cal := NewExporter(discardLogger(), "").WithClock(fixedClock).Calendar(doc)
	require.Len(t, cal.Children, 1)
	start := cal.Children[0].Props.Get(ical.PropDateTimeStart)
	require.NotNil(t, start)
	assert.Equal(t, "20260910T090000", start.Value)
	assert.Empty(t, start.Params.Get(ical.ParamTimezoneID))
}

func TestExporter_WriteFile(t *testing.T) {
	t.Run("Should write a stable calendar file", func(t *testing.T) {
		doc := buildDocument(t, schedule)
		dir := t.TempDir()
		first := filepath.Join(dir, "out", "a.ics")
		second := filepath.Join(dir, "out", "b.ics")
		exp := NewExporter(discardLogger(), "DevConf").WithClock(fixedClock)
		require.NoError(t, exp.WriteFile(first, doc))
		require.NoError(t, exp.WriteFile(second, doc))

		a, err := os.ReadFile(first)
		require.NoError(t, err)
		b, err := os.ReadFile(second)
		require.NoError(t, err)
		assert.Equal(t, a, b)
		assert.True(t, strings.HasPrefix(string(a), "BEGIN:VCALENDAR"))

		parsed, err := ical.NewDecoder(bytes.NewReader(a)).Decode()
		require.NoError(t, err)
		assert.Len(t, parsed.Events(), 2)
	})
	t.Run("Should skip writing when nothing is timed", func(t *testing.T) {
		doc := buildDocument(t, "sessions:\n  - title: Untimed\n")
		path := filepath.Join(t.TempDir(), "none.ics")
		require.NoError(t, NewExporter(discardLogger(), "").WriteFile(path, doc))
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})
}
