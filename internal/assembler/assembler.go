// Package assembler turns a decoded program into the Sessionize document.
package assembler

import (
	"fmt"
	"log/slog"

	"schedgen/internal/models"
	"schedgen/internal/program"
	"schedgen/internal/registry"
	"schedgen/internal/slugify"
	"schedgen/internal/timestamp"
)

const sessionPrefix = "ses-"

// Options controls presentation details of the emitted document.
type Options struct {
	TrackTitle string
	TypeTitle  string
}

// DefaultOptions returns the stock category titles.
func DefaultOptions() Options {
	return Options{TrackTitle: "Track", TypeTitle: "Session Type"}
}

// Assembler resolves session references against the registries, growing
// them as new tracks, types, rooms and speakers appear.
type Assembler struct {
	logger   *slog.Logger
	opts     Options
	times    *timestamp.Parser
	speakers *registry.Speakers
	taxonomy *registry.Taxonomy
	rooms    *registry.Rooms
	sessions []*models.Session
	seen     map[string]int
}

// New registers the program's declared speakers and tracks.
func New(logger *slog.Logger, p *program.Program, opts Options) (*Assembler, error) {
	taxonomy, err := registry.NewTaxonomy(p.Tracks)
	if err != nil {
		return nil, err
	}

	a := &Assembler{
		logger:   logger,
		opts:     opts,
		times:    timestamp.NewParser(logger, p.Timezone),
		speakers: registry.NewSpeakers(),
		taxonomy: taxonomy,
		rooms:    registry.NewRooms(),
		sessions: []*models.Session{},
		seen:     make(map[string]int),
	}

	for i, entry := range p.Speakers {
		if _, err := a.speakers.Ensure(entry); err != nil {
			return nil, fmt.Errorf("speaker entry #%d %s: %w", i+1, describeSpeaker(entry), err)
		}
	}
	logger.Debug("Registered declared entities.", "speakers", a.speakers.Len(), "tracks", len(p.Tracks))
	return a, nil
}

// Add assembles the n-th (1-based) session record.
func (a *Assembler) Add(n int, entry program.SessionEntry) (*models.Session, error) {
	title := entry.Title
	if title == "" {
		title = fmt.Sprintf("Session %d", n)
	}
	id := entry.ID
	if id == "" {
		id = slugify.Make(title, sessionPrefix)
	}
	if prev, ok := a.seen[id]; ok {
		a.logger.Warn("Duplicate session id.", "id", id, "session", n, "firstSeen", prev)
	} else {
		a.seen[id] = n
	}

	track := a.taxonomy.Track(entry.Track)
	typeID := a.taxonomy.Type(entry.Type)
	room := a.rooms.Room(entry.Room)

	refs := entry.SpeakerRefs()
	speakerIDs := make([]string, 0, len(refs))
	for _, ref := range refs {
		speaker, err := a.speakers.Resolve(ref)
		if err != nil {
			return nil, fmt.Errorf("session #%d (%q): speaker reference %q: %w", n, title, ref, err)
		}
		a.speakers.Attach(speaker, id)
		speakerIDs = append(speakerIDs, speaker.ID)
	}

	start, err := a.times.Parse(entry.Start)
	if err != nil {
		return nil, fmt.Errorf("session #%d (%q): start: %w", n, title, err)
	}
	end, err := a.times.Parse(entry.End)
	if err != nil {
		return nil, fmt.Errorf("session #%d (%q): end: %w", n, title, err)
	}

	session := &models.Session{
		ID:               id,
		Title:            title,
		Description:      entry.Description,
		StartsAt:         render(start),
		EndsAt:           render(end),
		RoomID:           room.ID,
		IsServiceSession: bool(entry.IsServiceSession),
		IsPlenumSession:  false,
		Speakers:         speakerIDs,
		CategoryItems:    []string{track.ID, typeID},
		Start:            start,
		End:              end,
	}
	a.sessions = append(a.sessions, session)
	a.logger.Debug("Assembled session.", "id", id, "track", track.ID, "type", typeID, "room", room.ID)
	return session, nil
}

// Document composes the final export from the current registry state.
func (a *Assembler) Document() *models.Document {
	return &models.Document{
		Sessions:   a.sessions,
		Speakers:   a.speakers.List(),
		Questions:  []any{},
		Categories: a.taxonomy.Categories(a.opts.TrackTitle, a.opts.TypeTitle),
		Rooms:      a.rooms.List(),
	}
}

// Build runs the whole normalization pass over p.
func Build(logger *slog.Logger, p *program.Program, opts Options) (*models.Document, error) {
	a, err := New(logger, p, opts)
	if err != nil {
		return nil, err
	}
	for i, entry := range p.Sessions {
		if _, err := a.Add(i+1, entry); err != nil {
			return nil, err
		}
	}
	return a.Document(), nil
}

func render(ts *timestamp.Timestamp) *string {
	if ts == nil {
		return nil
	}
	s := ts.String()
	return &s
}

func describeSpeaker(entry program.SpeakerEntry) string {
	if entry.ID != "" {
		return fmt.Sprintf("(id %q)", entry.ID)
	}
	return "(no id)"
}
