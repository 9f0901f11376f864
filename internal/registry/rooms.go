package registry

import (
	"schedgen/internal/models"
	"schedgen/internal/slugify"
)

// DefaultRoom is used for sessions without a room.
const DefaultRoom = "Main Hall"

const roomPrefix = "room-"

// Rooms keys rooms by their exact display name. "Hall A" and "hall a" are
// different rooms.
type Rooms struct {
	byName map[string]*models.Room
	order  []*models.Room
}

// NewRooms returns an empty registry.
func NewRooms() *Rooms {
	return &Rooms{byName: make(map[string]*models.Room)}
}

// Room returns the room named name, creating it on first use. An empty
// name means DefaultRoom.
func (r *Rooms) Room(name string) *models.Room {
	if name == "" {
		name = DefaultRoom
	}
	if room, ok := r.byName[name]; ok {
		return room
	}
	room := &models.Room{ID: slugify.Make(name, roomPrefix), Name: name}
	r.byName[name] = room
	r.order = append(r.order, room)
	return room
}

// List returns rooms in first-use order.
func (r *Rooms) List() []*models.Room {
	out := make([]*models.Room, len(r.order))
	copy(out, r.order)
	return out
}
