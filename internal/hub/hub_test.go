package hub

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/npezzotti/go-ideaboard/internal/stats"
	"github.com/npezzotti/go-ideaboard/internal/testutil"
	"github.com/npezzotti/go-ideaboard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	return NewHub(testutil.TestLogger(t), stats.NoopStats{})
}

func newTestConn(t *testing.T, h *Hub, user types.User, room RoomKey) *Conn {
	t.Helper()
	c, err := NewConn(user, room, nil, h, testutil.TestLogger(t))
	require.NoError(t, err)
	return c
}

// nextEvent pops the next queued frame without blocking. Events are
// enqueued synchronously by Connect, Disconnect and Publish, so a frame
// the test expects is already buffered by the time it looks.
func nextEvent(t *testing.T, c *Conn) Event {
	t.Helper()
	select {
	case data := <-c.send:
		var ev Event
		require.NoError(t, json.Unmarshal(data, &ev))
		return ev
	default:
		t.Fatal("no event queued")
		return Event{}
	}
}

func drain(c *Conn) {
	for {
		select {
		case <-c.send:
		default:
			return
		}
	}
}

func participantIds(t *testing.T, ev Event) []int {
	t.Helper()
	require.Equal(t, EventPresence, ev.Type)

	data, ok := ev.Data.(map[string]any)
	require.True(t, ok)

	raw, ok := data["participant_ids"].([]any)
	require.True(t, ok)

	ids := make([]int, 0, len(raw))
	for _, v := range raw {
		ids = append(ids, int(v.(float64)))
	}
	return ids
}

func TestConnectAcksThenPublishesPresence(t *testing.T) {
	h := newTestHub(t)
	room := IssueRoom(1)

	c1 := newTestConn(t, h, types.User{Id: 1, Username: "alice"}, room)
	h.Connect(c1)

	ev := nextEvent(t, c1)
	assert.Equal(t, EventConnected, ev.Type)
	data, ok := ev.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, c1.Id(), data["connection_id"], "ack carries the connection's own id")

	assert.Equal(t, []int{1}, participantIds(t, nextEvent(t, c1)))

	c2 := newTestConn(t, h, types.User{Id: 2, Username: "bob"}, room)
	h.Connect(c2)

	assert.Equal(t, []int{1, 2}, participantIds(t, nextEvent(t, c1)),
		"existing connections receive the recomputed presence set")

	ev = nextEvent(t, c2)
	assert.Equal(t, EventConnected, ev.Type)
	assert.Equal(t, []int{1, 2}, participantIds(t, nextEvent(t, c2)))
}

func TestDisconnectPublishesPresence(t *testing.T) {
	h := newTestHub(t)
	room := IssueRoom(1)

	c1 := newTestConn(t, h, types.User{Id: 1}, room)
	c2 := newTestConn(t, h, types.User{Id: 2}, room)
	h.Connect(c1)
	h.Connect(c2)
	drain(c1)
	drain(c2)

	h.Disconnect(c2)

	assert.Equal(t, []int{1}, participantIds(t, nextEvent(t, c1)))

	// a second disconnect of the same connection is a no-op
	h.Disconnect(c2)
	select {
	case <-c1.send:
		t.Fatal("duplicate disconnect published an event")
	default:
	}
}

func TestLastDisconnectPrunesRoom(t *testing.T) {
	h := newTestHub(t)
	room := IssueRoom(1)

	c := newTestConn(t, h, types.User{Id: 1}, room)
	h.Connect(c)
	require.NotNil(t, h.getRoom(room))

	h.Disconnect(c)
	assert.Nil(t, h.getRoom(room), "empty rooms are removed")
	assert.Empty(t, h.OnlineParticipants(room))
}

func TestMultiTabPresence(t *testing.T) {
	h := newTestHub(t)
	room := TopicRoom(3)

	tab1 := newTestConn(t, h, types.User{Id: 1}, room)
	tab2 := newTestConn(t, h, types.User{Id: 1}, room)
	h.Connect(tab1)
	h.Connect(tab2)

	assert.Equal(t, []int{1}, h.OnlineParticipants(room))

	h.Disconnect(tab1)
	assert.Equal(t, []int{1}, h.OnlineParticipants(room),
		"participant remains online while any tab is open")

	h.Disconnect(tab2)
	assert.Empty(t, h.OnlineParticipants(room))
}

func TestPublishExcludesOriginator(t *testing.T) {
	h := newTestHub(t)
	room := IssueRoom(1)

	origin := newTestConn(t, h, types.User{Id: 1}, room)
	other := newTestConn(t, h, types.User{Id: 2}, room)
	h.Connect(origin)
	h.Connect(other)
	drain(origin)
	drain(other)

	h.Publish(room, IdeaDeletedEvent(9), ExcludeConn(origin.Id()))

	ev := nextEvent(t, other)
	assert.Equal(t, EventIdeaDeleted, ev.Type)

	select {
	case <-origin.send:
		t.Fatal("originating connection received its own event")
	default:
	}
}

func TestPublishSubjectScoped(t *testing.T) {
	h := newTestHub(t)
	room := TopicRoom(1)

	focused := newTestConn(t, h, types.User{Id: 1}, room)
	unfocused := newTestConn(t, h, types.User{Id: 2}, room)
	h.Connect(focused)
	h.Connect(unfocused)
	drain(focused)
	drain(unfocused)

	focused.SetFocus(5)

	h.Publish(room, IssueStatusChangedEvent(5, types.StatusVote), ToSubject(5))

	ev := nextEvent(t, focused)
	assert.Equal(t, EventIssueStatusChanged, ev.Type)

	select {
	case <-unfocused.send:
		t.Fatal("unfocused connection received a subject-scoped event")
	default:
	}
}

func TestPublishOrdering(t *testing.T) {
	h := newTestHub(t)
	room := IssueRoom(1)

	c := newTestConn(t, h, types.User{Id: 1}, room)
	h.Connect(c)
	drain(c)

	const n = 50
	for i := 0; i < n; i++ {
		h.Publish(room, VoteChangedEvent(types.VoteTally{IdeaId: 1, IssueId: 1, AgreeCount: i}))
	}

	for i := 0; i < n; i++ {
		ev := nextEvent(t, c)
		require.Equal(t, EventVoteChanged, ev.Type)
		data := ev.Data.(map[string]any)
		require.Equal(t, float64(i), data["agree_count"], fmt.Sprintf("event %d delivered out of order", i))
	}
}

func TestPublishToUnknownRoom(t *testing.T) {
	h := newTestHub(t)

	// no connections, nothing to deliver to, nothing to panic over
	h.Publish(IssueRoom(99), IdeaDeletedEvent(1))
	assert.Empty(t, h.OnlineParticipants(IssueRoom(99)))
}

func TestSlowConsumerIsDeregistered(t *testing.T) {
	h := newTestHub(t)
	room := IssueRoom(1)

	healthy := newTestConn(t, h, types.User{Id: 1}, room)
	slow := newTestConn(t, h, types.User{Id: 2}, room)
	h.Connect(healthy)
	h.Connect(slow)
	drain(healthy)

	// saturate the slow connection's buffer so the next enqueue fails
	for slow.enqueue([]byte("{}")) {
	}

	h.Publish(room, IdeaDeletedEvent(1))

	assert.Equal(t, []int{1}, h.OnlineParticipants(room), "slow consumer is implicitly disconnected")

	ev := nextEvent(t, healthy)
	assert.Equal(t, EventIdeaDeleted, ev.Type, "delivery to healthy connections is unaffected")

	select {
	case <-slow.stop:
	default:
		t.Fatal("slow connection was not stopped")
	}
}

// A connect racing the room-pruning disconnect of the room's last other
// connection must never land in an orphaned room: the new connection
// stays visible to the registry and keeps receiving broadcasts.
func TestConnectDuringRoomPrune(t *testing.T) {
	h := newTestHub(t)
	room := IssueRoom(1)

	for i := 0; i < 2000; i++ {
		c1 := newTestConn(t, h, types.User{Id: 1}, room)
		h.Connect(c1)

		c2 := newTestConn(t, h, types.User{Id: 2}, room)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.Disconnect(c1)
		}()
		go func() {
			defer wg.Done()
			h.Connect(c2)
		}()
		wg.Wait()

		require.Equal(t, []int{2}, h.OnlineParticipants(room),
			"iteration %d: still-connected participant lost from registry", i)

		drain(c2)
		h.Publish(room, IdeaDeletedEvent(1))
		ev := nextEvent(t, c2)
		require.Equal(t, EventIdeaDeleted, ev.Type,
			"iteration %d: connection no longer reachable by broadcasts", i)

		h.Disconnect(c2)
	}
}

func TestShutdownStopsConnections(t *testing.T) {
	h := newTestHub(t)

	c1 := newTestConn(t, h, types.User{Id: 1}, IssueRoom(1))
	c2 := newTestConn(t, h, types.User{Id: 2}, TopicRoom(2))
	h.Connect(c1)
	h.Connect(c2)

	h.Shutdown()

	for _, c := range []*Conn{c1, c2} {
		select {
		case <-c.stop:
		default:
			t.Fatalf("connection %q still running after shutdown", c.Id())
		}
	}

	assert.Empty(t, h.OnlineParticipants(IssueRoom(1)))
	assert.Empty(t, h.OnlineParticipants(TopicRoom(2)))
}
