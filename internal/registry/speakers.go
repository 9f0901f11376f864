// Package registry holds the get-or-insert registries that give speakers,
// tracks, session types and rooms their stable identifiers.
package registry

import (
	"errors"
	"strings"

	"schedgen/internal/models"
	"schedgen/internal/program"
	"schedgen/internal/slugify"
)

// ErrMissingSpeakerName is returned when a speaker entry has no usable name.
var ErrMissingSpeakerName = errors.New("missing a name")

const speakerPrefix = "spk-"

// Speakers deduplicates speakers by id and indexes them by lowercase name.
type Speakers struct {
	byID   map[string]*models.Speaker
	byName map[string]string
	order  []*models.Speaker
}

// NewSpeakers returns an empty registry.
func NewSpeakers() *Speakers {
	return &Speakers{
		byID:   make(map[string]*models.Speaker),
		byName: make(map[string]string),
	}
}

// Ensure returns the speaker for entry, creating it on first sight. The id
// is the entry's explicit id or a slug of its name. When the id is already
// registered the existing record is returned untouched.
func (r *Speakers) Ensure(entry program.SpeakerEntry) (*models.Speaker, error) {
	name := entry.DisplayName()
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return nil, ErrMissingSpeakerName
	}

	id := entry.ID
	if id == "" {
		id = slugify.Make(name, speakerPrefix)
	}
	if existing, ok := r.byID[id]; ok {
		return existing, nil
	}

	links := entry.Links
	if links == nil {
		links = []any{}
	}
	speaker := &models.Speaker{
		ID:              id,
		FirstName:       parts[0],
		LastName:        strings.Join(parts[1:], " "),
		FullName:        name,
		TagLine:         entry.Tagline,
		Bio:             entry.Bio,
		IsTopSpeaker:    bool(entry.IsTopSpeaker),
		Links:           links,
		Sessions:        []string{},
		QuestionAnswers: []any{},
	}
	r.byID[id] = speaker
	r.byName[strings.ToLower(name)] = id
	r.order = append(r.order, speaker)
	return speaker, nil
}

// Lookup finds a speaker by id, then by case-insensitive name.
func (r *Speakers) Lookup(ref string) (*models.Speaker, bool) {
	if s, ok := r.byID[ref]; ok {
		return s, true
	}
	if id, ok := r.byName[strings.ToLower(ref)]; ok {
		s, ok := r.byID[id]
		return s, ok
	}
	return nil, false
}

// Resolve looks ref up and, on a miss, registers a new speaker whose only
// known attribute is ref as its name.
func (r *Speakers) Resolve(ref string) (*models.Speaker, error) {
	if s, ok := r.Lookup(ref); ok {
		return s, nil
	}
	return r.Ensure(program.SpeakerEntry{Name: ref})
}

// Attach records that sessionID references s. Repeated references are kept.
func (r *Speakers) Attach(s *models.Speaker, sessionID string) {
	s.Sessions = append(s.Sessions, sessionID)
}

// List returns speakers in registration order.
func (r *Speakers) List() []*models.Speaker {
	out := make([]*models.Speaker, len(r.order))
	copy(out, r.order)
	return out
}

// Len reports the number of registered speakers.
func (r *Speakers) Len() int {
	return len(r.order)
}
