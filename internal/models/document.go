package models

import "schedgen/internal/timestamp"

// Document is the Sessionize "view/all" export consumed by the site build.
// Field names and order are part of the wire contract.
type Document struct {
	Sessions   []*Session  `json:"sessions"`
	Speakers   []*Speaker  `json:"speakers"`
	Questions  []any       `json:"questions"`
	Categories []*Category `json:"categories"`
	Rooms      []*Room     `json:"rooms"`
}

// Session is a single scheduled slot.
type Session struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	StartsAt         *string  `json:"startsAt"`
	EndsAt           *string  `json:"endsAt"`
	RoomID           string   `json:"roomId"`
	IsServiceSession bool     `json:"isServiceSession"`
	IsPlenumSession  bool     `json:"isPlenumSession"`
	Speakers         []string `json:"speakers"`
	CategoryItems    []string `json:"categoryItems"` // [trackID, typeID]

	Start *timestamp.Timestamp `json:"-"`
	End   *timestamp.Timestamp `json:"-"`
}

// Speaker is a presenter. Sessions grows as sessions reference the speaker.
type Speaker struct {
	ID              string   `json:"id"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	FullName        string   `json:"fullName"`
	TagLine         string   `json:"tagLine"`
	Bio             string   `json:"bio"`
	IsTopSpeaker    bool     `json:"isTopSpeaker"`
	ProfilePicture  string   `json:"profilePicture"`
	Links           []any    `json:"links"`
	Sessions        []string `json:"sessions"`
	QuestionAnswers []any    `json:"questionAnswers"`
}

// Category groups selectable tags such as tracks or session types.
type Category struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Items []*CategoryItem `json:"items"`
}

// CategoryItem is one tag value within a Category.
type CategoryItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Sort int    `json:"sort"`
}

// Room is a venue location, identified by its exact display name.
type Room struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
