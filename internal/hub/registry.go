package hub

import (
	"fmt"
	"slices"
	"sync"

	"github.com/npezzotti/go-ideaboard/internal/types"
)

// RoomKey identifies a collaboration room: the set of live connections
// viewing one issue or one topic.
type RoomKey struct {
	Kind types.RoomKind
	Id   int
}

func (k RoomKey) String() string {
	return fmt.Sprintf("%s/%d", k.Kind, k.Id)
}

func IssueRoom(issueId int) RoomKey {
	return RoomKey{Kind: types.RoomKindIssue, Id: issueId}
}

func TopicRoom(topicId int) RoomKey {
	return RoomKey{Kind: types.RoomKindTopic, Id: topicId}
}

// room holds the connection set for one RoomKey. mu guards membership;
// pubMu serializes publishes so every connection observes events for
// the room in the same server-side order. Neither lock is ever held
// while writing to a socket.
type room struct {
	mu     sync.RWMutex
	pubMu  sync.Mutex
	conns  map[string]*Conn
	byUser map[int]map[string]*Conn
}

func newRoom() *room {
	return &room{
		conns:  make(map[string]*Conn),
		byUser: make(map[int]map[string]*Conn),
	}
}

func (r *room) add(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.conns[c.id] = c
	if r.byUser[c.user.Id] == nil {
		r.byUser[c.user.Id] = make(map[string]*Conn)
	}
	r.byUser[c.user.Id][c.id] = c
}

// remove deletes the connection and reports whether it was present and
// whether the room is now empty.
func (r *room) remove(c *Conn) (removed, empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[c.id]; !ok {
		return false, len(r.conns) == 0
	}

	delete(r.conns, c.id)
	if userConns, ok := r.byUser[c.user.Id]; ok {
		delete(userConns, c.id)
		if len(userConns) == 0 {
			delete(r.byUser, c.user.Id)
		}
	}

	return true, len(r.conns) == 0
}

// snapshot copies the connection set so a broadcast never holds the
// membership lock while enqueueing.
func (r *room) snapshot() []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]*Conn, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}

	return conns
}

// online returns the de-duplicated sorted account ids with at least one
// open connection in the room. A participant with several tabs appears
// once.
func (r *room) online() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int, 0, len(r.byUser))
	for id := range r.byUser {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}
