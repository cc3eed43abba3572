package hub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/npezzotti/go-ideaboard/internal/types"
	"github.com/teris-io/shortid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 256
)

// Conn is one long-lived client connection bound to a single room for
// its whole lifetime. The id is an opaque token generated at connect
// time; clients echo it in the X-Connection-Id header so their own
// mutations can be excluded from the broadcasts they trigger.
type Conn struct {
	id   string
	user types.User
	room RoomKey
	ws   *websocket.Conn
	hub  *Hub
	log  *log.Logger
	send chan []byte

	stop     chan struct{}
	stopOnce sync.Once

	focusMu        sync.Mutex
	focusedSubject int
}

func NewConn(user types.User, room RoomKey, ws *websocket.Conn, h *Hub, logger *log.Logger) (*Conn, error) {
	id, err := shortid.Generate()
	if err != nil {
		return nil, err
	}

	return &Conn{
		id:   id,
		user: user,
		room: room,
		ws:   ws,
		hub:  h,
		log:  logger,
		send: make(chan []byte, sendBufferSize),
		stop: make(chan struct{}),
	}, nil
}

func (c *Conn) Id() string {
	return c.id
}

func (c *Conn) User() types.User {
	return c.user
}

func (c *Conn) Room() RoomKey {
	return c.room
}

// SetFocus records the sub-resource the client currently has open;
// zero clears it. Subject-scoped publishes only reach connections
// focused on the subject.
func (c *Conn) SetFocus(subjectId int) {
	c.focusMu.Lock()
	defer c.focusMu.Unlock()
	c.focusedSubject = subjectId
}

func (c *Conn) FocusedSubject() int {
	c.focusMu.Lock()
	defer c.focusMu.Unlock()
	return c.focusedSubject
}

// enqueue hands pre-serialized bytes to the write pump without ever
// blocking the publisher. A full buffer means the consumer is too slow
// to keep; the caller treats that as an implicit disconnect.
func (c *Conn) enqueue(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Conn) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

// WritePump drains the send buffer onto the socket and emits a ping on
// a fixed interval to defeat idle-timeout proxies.
func (c *Conn) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}

			if !c.writeFrame(websocket.TextMessage, data) {
				return
			}
		case <-ticker.C:
			if !c.writeFrame(websocket.PingMessage, nil) {
				return
			}
		case <-c.stop:
			return
		}
	}
}

// ReadPump consumes client frames until the transport signals closure,
// then deregisters the connection. The only meaningful inbound frame is
// a focus change; everything else is ignored.
func (c *Conn) ReadPump() {
	defer func() {
		c.ws.Close()
		c.Stop()
		c.hub.Disconnect(c)
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.log.Printf("ws: read: %v", err)
			}
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.log.Printf("invalid client frame from %q: %v", c.id, err)
			continue
		}

		if frame.Focus != nil {
			c.SetFocus(frame.Focus.SubjectId)
		}
	}
}

func (c *Conn) writeFrame(msgType int, data []byte) bool {
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))

	if err := c.ws.WriteMessage(msgType, data); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway,
			websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
			c.log.Printf("ws: write: %v", err)
		}
		return false
	}

	return true
}

type clientFrame struct {
	Focus *focusFrame `json:"focus,omitempty"`
}

type focusFrame struct {
	SubjectId int `json:"subject_id"`
}
