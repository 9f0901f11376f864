// Package program reads the hand-authored YAML schedule description.
package program

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ErrInputNotFound is returned by Load when the input path does not exist.
var ErrInputNotFound = errors.New("input file not found")

// Program is the top-level YAML document.
type Program struct {
	Timezone string         `yaml:"timezone"`
	Speakers []SpeakerEntry `yaml:"speakers"`
	Tracks   TrackList      `yaml:"tracks"`
	Sessions []SessionEntry `yaml:"sessions"`
}

// SpeakerEntry is an explicitly declared speaker. Either Name or FullName
// must be set.
type SpeakerEntry struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	FullName     string `yaml:"fullName"`
	Tagline      string `yaml:"tagline"`
	Bio          string `yaml:"bio"`
	IsTopSpeaker Flag   `yaml:"isTopSpeaker"`
	Links        []any  `yaml:"links"`
}

// DisplayName returns name, falling back to fullName.
func (e SpeakerEntry) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.FullName
}

// SessionEntry is one session record in input order.
type SessionEntry struct {
	ID               string     `yaml:"id"`
	Title            string     `yaml:"title"`
	Description      string     `yaml:"description"`
	Speakers         StringList `yaml:"speakers"`
	Speaker          StringList `yaml:"speaker"`
	Type             string     `yaml:"type"`
	Track            string     `yaml:"track"`
	Room             string     `yaml:"room"`
	Start            string     `yaml:"start"`
	End              string     `yaml:"end"`
	IsServiceSession Flag       `yaml:"isServiceSession"`
}

// SpeakerRefs returns the plural reference list, or the singular one when
// the plural key is absent or empty.
func (s SessionEntry) SpeakerRefs() []string {
	if len(s.Speakers) > 0 {
		return s.Speakers
	}
	return s.Speaker
}

// Flag is a loosely typed boolean. Booleans keep their value, numbers are
// true when non-zero, YAML 1.1 words such as yes/off are honored, any other
// non-empty string is true, and collections are true when non-empty.
type Flag bool

var (
	truthyWord = regexp.MustCompile(`^(?:yes|Yes|YES|true|True|TRUE|on|On|ON)$`)
	falsyWord  = regexp.MustCompile(`^(?:no|No|NO|false|False|FALSE|off|Off|OFF)$`)
)

// UnmarshalYAML applies the truthiness rules above.
func (f *Flag) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode, yaml.MappingNode:
		*f = len(value.Content) > 0
		return nil
	case yaml.AliasNode:
		return f.UnmarshalYAML(value.Alias)
	case yaml.ScalarNode:
	default:
		return fmt.Errorf("line %d: expected a boolean", value.Line)
	}

	switch value.ShortTag() {
	case "!!null":
		*f = false
	case "!!bool":
		var b bool
		if err := value.Decode(&b); err != nil {
			return err
		}
		*f = Flag(b)
	case "!!int", "!!float":
		var n float64
		if err := value.Decode(&n); err != nil {
			return err
		}
		*f = n != 0
	default:
		switch {
		case truthyWord.MatchString(value.Value):
			*f = true
		case falsyWord.MatchString(value.Value):
			*f = false
		default:
			*f = value.Value != ""
		}
	}
	return nil
}

// StringList accepts either a single scalar or a sequence of scalars.
type StringList []string

// UnmarshalYAML supports both scalar string and sequence forms. An empty
// scalar decodes to an empty list.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || value.Value == "" {
			*l = nil
			return nil
		}
		*l = StringList{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make(StringList, 0, len(value.Content))
		for i, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: reference #%d is not a scalar", item.Line, i+1)
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", value.Line)
	}
}

// TrackEntry is one declared track.
type TrackEntry struct {
	Name string `yaml:"name"`
	ID   string `yaml:"id"`
	Sort *int   `yaml:"sort"`
	// Bare is set for the plain string form, which has no required fields.
	Bare bool `yaml:"-"`
	// Position is the zero-based index in the declaration list.
	Position int `yaml:"-"`
}

// TrackList holds declared tracks. A value that is not a sequence is
// ignored, as are items that are neither strings nor mappings.
type TrackList []TrackEntry

// UnmarshalYAML supports bare track names and {name, id, sort} mappings.
func (l *TrackList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		*l = nil
		return nil
	}
	out := make(TrackList, 0, len(value.Content))
	for i, item := range value.Content {
		switch {
		case item.Kind == yaml.ScalarNode && item.Tag == "!!str":
			out = append(out, TrackEntry{Name: item.Value, Bare: true, Position: i})
		case item.Kind == yaml.MappingNode:
			var entry TrackEntry
			if err := item.Decode(&entry); err != nil {
				return fmt.Errorf("track entry #%d: %w", i+1, err)
			}
			entry.Position = i
			out = append(out, entry)
		}
	}
	*l = out
	return nil
}

// Load reads and decodes the program at path. A missing file yields an
// error wrapping ErrInputNotFound; an empty file yields an empty Program.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return Parse(data)
}

// Parse decodes a program from YAML bytes.
func Parse(data []byte) (*Program, error) {
	var p Program
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode program: %w", err)
	}
	for i := range p.Speakers {
		for j, link := range p.Speakers[i].Links {
			p.Speakers[i].Links[j] = stringKeys(link)
		}
	}
	return &p, nil
}

// stringKeys rewrites maps with non-string keys so opaque values can be
// serialized as JSON objects.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = stringKeys(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = stringKeys(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = stringKeys(item)
		}
		return t
	default:
		return v
	}
}
