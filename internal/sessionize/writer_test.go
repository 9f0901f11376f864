package sessionize

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schedgen/internal/models"
)

func sampleDocument() *models.Document {
	start := "2026-09-10T09:00:00+02:00"
	return &models.Document{
		Sessions: []*models.Session{{
			ID:            "ses-q-a",
			Title:         "Q&A <live>",
			StartsAt:      &start,
			RoomID:        "room-aula",
			Speakers:      []string{"spk-eva-dvok"},
			CategoryItems: []string{"track-general", "type-session"},
		}},
		Speakers: []*models.Speaker{{
			ID:              "spk-eva-dvok",
			FirstName:       "Eva",
			LastName:        "Dvořák",
			FullName:        "Eva Dvořák",
			Links:           []any{},
			Sessions:        []string{"ses-q-a"},
			QuestionAnswers: []any{},
		}},
		Questions:  []any{},
		Categories: []*models.Category{},
		Rooms:      []*models.Room{{ID: "room-aula", Name: "Aula"}},
	}
}

func TestMarshal(t *testing.T) {
	t.Run("Should keep non-ASCII and HTML characters unescaped", func(t *testing.T) {
		data, err := Marshal(sampleDocument())
		require.NoError(t, err)
		out := string(data)
		assert.Contains(t, out, `"fullName": "Eva Dvořák"`)
		assert.Contains(t, out, `"title": "Q&A <live>"`)
		assert.False(t, strings.HasSuffix(out, "\n"))
		assert.True(t, strings.HasPrefix(out, "{\n  \"sessions\": [\n    {\n      \"id\": \"ses-q-a\""))
	})
	t.Run("Should write null for absent timestamps and keep field order", func(t *testing.T) {
		data, err := Marshal(sampleDocument())
		require.NoError(t, err)
		out := string(data)
		assert.Contains(t, out, `"endsAt": null`)
		order := []string{`"sessions"`, `"speakers": [`, `"questions"`, `"categories"`, `"rooms"`}
		last := -1
		for _, key := range order {
			idx := strings.Index(out, "\n  "+key)
			require.Greater(t, idx, last, key)
			last = idx
		}
	})
	t.Run("Should be byte-identical across runs", func(t *testing.T) {
		a, err := Marshal(sampleDocument())
		require.NoError(t, err)
		b, err := Marshal(sampleDocument())
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}

func TestWriteFile(t *testing.T) {
	t.Run("Should create missing parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "assets", "test", "view-all.json")
		require.NoError(t, WriteFile(path, sampleDocument()))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Len(t, decoded["rooms"], 1)
	})
}

func TestSchema(t *testing.T) {
	t.Run("Should describe the wire fields and hide internal ones", func(t *testing.T) {
		data, err := MarshalSchema()
		require.NoError(t, err)
		out := string(data)
		for _, field := range []string{"sessions", "startsAt", "categoryItems", "questionAnswers", "rooms"} {
			assert.Contains(t, out, `"`+field+`"`)
		}
		assert.NotContains(t, out, `"Start"`)
		assert.Contains(t, out, "Sessionize view/all export")
	})
}
