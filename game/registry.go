package game

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry owns every live room. All lookups and lifecycle operations go
// through its lock; raw room references are handed out, but the rooms
// guard themselves. Find-or-create runs as one critical section so two
// simultaneous first joiners for a mode cannot both create a room.
type Registry struct {
	mu           sync.Mutex
	rooms        map[string]*Room
	destroyAt    map[string]*time.Timer
	destroyDelay time.Duration
	countdown    int
	log          *zap.SugaredLogger
}

// NewRegistry builds an empty registry. destroyDelay is how long an
// ended room stays readable before it is deleted.
func NewRegistry(timings Timings, log *zap.SugaredLogger) *Registry {
	return &Registry{
		rooms:        make(map[string]*Room),
		destroyAt:    make(map[string]*time.Timer),
		destroyDelay: timings.DestroyDelay,
		countdown:    timings.CountdownSeconds,
		log:          log,
	}
}

// CreateRoom allocates a fresh room in Selecting status. An empty id
// gets a generated uuid; a provided id fails with ErrDuplicateID if it
// is already present.
func (g *Registry) CreateRoom(mode Mode, entryFee int, id string) (*Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.createLocked(mode, entryFee, id)
}

func (g *Registry) createLocked(mode Mode, entryFee int, id string) (*Room, error) {
	if id == "" {
		id = uuid.NewString()
	} else if _, exists := g.rooms[id]; exists {
		return nil, ErrDuplicateID
	}
	room := newRoom(id, mode, entryFee, g.countdown)
	g.rooms[id] = room
	g.log.Infow("room created", "room", id, "mode", mode, "entryFee", entryFee)
	return room, nil
}

// FindOpenRoom returns some room still in Selecting for the mode. No
// ordering is guaranteed among several open rooms; steady state is at
// most one per mode, enforced by FindOrCreate.
func (g *Registry) FindOpenRoom(mode Mode) (*Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.findOpenLocked(mode)
}

func (g *Registry) findOpenLocked(mode Mode) (*Room, bool) {
	for _, room := range g.rooms {
		if room.Mode == mode && room.Status() == StatusSelecting {
			return room, true
		}
	}
	return nil, false
}

// FindOrCreate is the matchmaking entry point: join the open room for
// the mode or atomically create one. created reports which happened.
func (g *Registry) FindOrCreate(mode Mode) (room *Room, created bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if room, ok := g.findOpenLocked(mode); ok {
		return room, false
	}
	room, _ = g.createLocked(mode, mode.EntryFee(), "")
	return room, true
}

// Get looks up a room by id.
func (g *Registry) Get(id string) (*Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	room, ok := g.rooms[id]
	return room, ok
}

// ScheduleDestruction removes the room after the configured delay, so
// late readers (result screens) still find it. Calling it twice for the
// same room is a no-op.
func (g *Registry) ScheduleDestruction(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.rooms[id]; !ok {
		return
	}
	if _, pending := g.destroyAt[id]; pending {
		return
	}
	g.destroyAt[id] = time.AfterFunc(g.destroyDelay, func() {
		g.mu.Lock()
		delete(g.rooms, id)
		delete(g.destroyAt, id)
		g.mu.Unlock()
		g.log.Infow("room destroyed", "room", id)
	})
}

// Len reports how many rooms are live, ended-but-readable included.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.rooms)
}
