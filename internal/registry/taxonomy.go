package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"schedgen/internal/models"
	"schedgen/internal/program"
	"schedgen/internal/slugify"
)

// ErrMissingTrackName is returned for a declared track mapping without a name.
var ErrMissingTrackName = errors.New("missing 'name'")

const (
	// DefaultTrack is used for sessions without a track.
	DefaultTrack = "general"
	// DefaultType is used for sessions without a type.
	DefaultType = "session"

	TrackCategoryID = "cat-track"
	TypeCategoryID  = "cat-type"

	trackPrefix = "track-"
	typePrefix  = "type-"
)

type sessionType struct {
	id   string
	name string
}

// Taxonomy builds the track and session-type categories. Tracks may be
// declared up front; types are always inferred from sessions.
type Taxonomy struct {
	tracks     []*models.CategoryItem
	trackIndex map[string]*models.CategoryItem
	types      map[sessionType]struct{}
}

// NewTaxonomy registers the declared tracks. A declared track keeps its
// explicit sort key or, failing that, its position in the list.
func NewTaxonomy(declared program.TrackList) (*Taxonomy, error) {
	t := &Taxonomy{
		trackIndex: make(map[string]*models.CategoryItem),
		types:      make(map[sessionType]struct{}),
	}
	for _, entry := range declared {
		if !entry.Bare && entry.Name == "" {
			return nil, fmt.Errorf("track entry #%d: %w", entry.Position+1, ErrMissingTrackName)
		}
		id := entry.ID
		if id == "" {
			id = slugify.Make(entry.Name, trackPrefix)
		}
		sortKey := entry.Position
		if entry.Sort != nil {
			sortKey = *entry.Sort
		}
		t.tracks = append(t.tracks, &models.CategoryItem{ID: id, Name: entry.Name, Sort: sortKey})
	}
	// Later declarations win the name index, matching the order they were read.
	for _, item := range t.tracks {
		t.trackIndex[strings.ToLower(item.Name)] = item
	}
	return t, nil
}

// Track resolves name case-insensitively, appending a new track at the end
// of the sort order on a miss. An empty name means DefaultTrack.
func (t *Taxonomy) Track(name string) *models.CategoryItem {
	if name == "" {
		name = DefaultTrack
	}
	key := strings.ToLower(name)
	if item, ok := t.trackIndex[key]; ok {
		return item
	}
	item := &models.CategoryItem{
		ID:   slugify.Make(name, trackPrefix),
		Name: name,
		Sort: len(t.tracks),
	}
	t.tracks = append(t.tracks, item)
	t.trackIndex[key] = item
	return item
}

// Type returns the id for a session type and records it. An empty name
// means DefaultType.
func (t *Taxonomy) Type(name string) string {
	if name == "" {
		name = DefaultType
	}
	st := sessionType{id: slugify.Make(name, typePrefix), name: name}
	t.types[st] = struct{}{}
	return st.id
}

// TrackItems returns tracks ordered by their sort key.
func (t *Taxonomy) TrackItems() []*models.CategoryItem {
	items := make([]*models.CategoryItem, 0, len(t.tracks))
	for _, item := range t.tracks {
		items = append(items, &models.CategoryItem{ID: item.ID, Name: item.Name, Sort: item.Sort})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Sort < items[j].Sort })
	return items
}

// TypeItems returns session types ordered by name with sort keys 0..n-1.
func (t *Taxonomy) TypeItems() []*models.CategoryItem {
	types := make([]sessionType, 0, len(t.types))
	for st := range t.types {
		types = append(types, st)
	}
	sort.Slice(types, func(i, j int) bool {
		if types[i].name != types[j].name {
			return types[i].name < types[j].name
		}
		return types[i].id < types[j].id
	})
	items := make([]*models.CategoryItem, len(types))
	for i, st := range types {
		items[i] = &models.CategoryItem{ID: st.id, Name: st.name, Sort: i}
	}
	return items
}

// Categories returns the track and type categories, omitting either one
// when it has no items.
func (t *Taxonomy) Categories(trackTitle, typeTitle string) []*models.Category {
	categories := []*models.Category{}
	if len(t.tracks) > 0 {
		categories = append(categories, &models.Category{
			ID:    TrackCategoryID,
			Title: trackTitle,
			Items: t.TrackItems(),
		})
	}
	if len(t.types) > 0 {
		categories = append(categories, &models.Category{
			ID:    TypeCategoryID,
			Title: typeTitle,
			Items: t.TypeItems(),
		})
	}
	return categories
}
