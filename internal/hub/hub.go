package hub

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/npezzotti/go-ideaboard/internal/stats"
)

// Hub tracks every open connection by room and fans typed events out to
// them. Rooms exist only while they have connections: the first
// register creates the entry, the last deregister prunes it.
type Hub struct {
	log   *log.Logger
	stats stats.StatsProvider

	mu    sync.RWMutex
	rooms map[RoomKey]*room
}

func NewHub(logger *log.Logger, statsProvider stats.StatsProvider) *Hub {
	statsProvider.RegisterMetric(stats.ActiveConnections)
	statsProvider.RegisterMetric(stats.ActiveRooms)
	statsProvider.RegisterMetric(stats.EventsPublished)
	statsProvider.RegisterMetric(stats.DroppedSends)

	return &Hub{
		log:   logger,
		stats: statsProvider,
		rooms: make(map[RoomKey]*room),
	}
}

// Connect registers the connection, acknowledges it with a synthetic
// connected event carrying its id, and publishes the recomputed
// presence set to the room.
func (h *Hub) Connect(c *Conn) {
	h.mu.Lock()
	r, ok := h.rooms[c.room]
	if !ok {
		r = newRoom()
		h.rooms[c.room] = r
		h.stats.Incr(stats.ActiveRooms)
	}
	// the add must happen under the hub lock: a concurrent disconnect
	// pruning the room's last connection would otherwise strand this
	// connection in a room no longer reachable from the registry
	r.add(c)
	h.mu.Unlock()

	h.stats.Incr(stats.ActiveConnections)
	h.log.Printf("connection %q from user %q joined room %q", c.id, c.user.Username, c.room)

	if data, err := json.Marshal(ConnectedEvent(c.id)); err != nil {
		h.log.Printf("marshal connected event: %v", err)
	} else {
		c.enqueue(data)
	}

	h.publishPresence(c.room)
}

// Disconnect removes the connection and publishes the recomputed
// presence set to whoever remains. Safe to call more than once for the
// same connection.
func (h *Hub) Disconnect(c *Conn) {
	r := h.getRoom(c.room)
	if r == nil {
		return
	}

	removed, empty := r.remove(c)
	if !removed {
		return
	}

	c.Stop()
	h.stats.Decr(stats.ActiveConnections)
	h.log.Printf("connection %q from user %q left room %q", c.id, c.user.Username, c.room)

	if empty {
		h.mu.Lock()
		// re-check under the lock: a new connection may have raced in
		if cur, ok := h.rooms[c.room]; ok && cur == r {
			r.mu.RLock()
			stillEmpty := len(r.conns) == 0
			r.mu.RUnlock()
			if stillEmpty {
				delete(h.rooms, c.room)
				h.stats.Decr(stats.ActiveRooms)
			}
		}
		h.mu.Unlock()
	}

	h.publishPresence(c.room)
}

// Publish serializes the event once and enqueues it to every connection
// in the room, except the excluded connection when ExcludeConn is
// given. A connection whose buffer is full is dropped and deregistered;
// the failure never reaches the publisher.
func (h *Hub) Publish(key RoomKey, ev *Event, opts ...PublishOption) {
	var o publishOpts
	for _, opt := range opts {
		opt(&o)
	}

	r := h.getRoom(key)
	if r == nil {
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Printf("marshal %s event: %v", ev.Type, err)
		return
	}

	var dropped []*Conn

	r.pubMu.Lock()
	for _, c := range r.snapshot() {
		if c.id == o.exclude {
			continue
		}
		if o.hasSubject && c.FocusedSubject() != o.subject {
			continue
		}

		if !c.enqueue(data) {
			dropped = append(dropped, c)
		}
	}
	r.pubMu.Unlock()

	h.stats.Incr(stats.EventsPublished)

	for _, c := range dropped {
		h.log.Printf("dropping connection %q: send buffer full", c.id)
		h.stats.Incr(stats.DroppedSends)
		h.Disconnect(c)
	}
}

// OnlineParticipants returns the de-duplicated account ids currently
// connected to the room, sorted ascending. An unknown room yields an
// empty set.
func (h *Hub) OnlineParticipants(key RoomKey) []int {
	r := h.getRoom(key)
	if r == nil {
		return []int{}
	}

	return r.online()
}

func (h *Hub) getRoom(key RoomKey) *room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[key]
}

// Shutdown stops every open connection. Pending committed mutations are
// unaffected; clients repair missed events on reconnect.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	rooms := make([]*room, 0, len(h.rooms))
	for key, r := range h.rooms {
		rooms = append(rooms, r)
		delete(h.rooms, key)
	}
	h.mu.Unlock()

	for _, r := range rooms {
		for _, c := range r.snapshot() {
			c.Stop()
		}
	}
}

type publishOpts struct {
	exclude    string
	subject    int
	hasSubject bool
}

type PublishOption func(*publishOpts)

// ExcludeConn omits the originating connection from a broadcast so it
// does not reprocess its own optimistic change. An empty id excludes
// nothing.
func ExcludeConn(id string) PublishOption {
	return func(o *publishOpts) {
		o.exclude = id
	}
}

// ToSubject narrows delivery to connections focused on the given
// sub-resource.
func ToSubject(subjectId int) PublishOption {
	return func(o *publishOpts) {
		o.subject = subjectId
		o.hasSubject = true
	}
}
