package api

import (
	"database/sql"
	"errors"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
	"github.com/npezzotti/go-ideaboard/internal/hub"
	"github.com/npezzotti/go-ideaboard/internal/types"
)

// serveWs upgrades the request and binds the new connection to the room
// named by room_kind and room_id. The connection is registered before
// the pumps start so the connected ack is the first frame delivered.
func (s *BoardApp) serveWs(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	user, err := s.db.GetAccountById(userId)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	key, errResp := roomKeyFromQuery(r)
	if errResp != nil {
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if errResp := s.authorizeRoom(key, userId); errResp != nil {
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			// only allow connections from allowed origins
			origin := r.Header.Get("Origin")
			if origin == "" {
				// if no origin header, allow the request
				return true
			}

			return slices.Contains(s.allowedOrigins, origin)
		},
	}
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Println("error upgrading connection:", err)
		return
	}

	conn, err := hub.NewConn(types.User{
		Id:           user.Id,
		Username:     user.Username,
		EmailAddress: user.EmailAddress,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}, key, ws, s.hub, s.log)
	if err != nil {
		s.log.Println("new connection:", err)
		ws.Close()
		return
	}

	s.hub.Connect(conn)
	go conn.WritePump()
	go conn.ReadPump()
}

func (s *BoardApp) authorizeRoom(key hub.RoomKey, userId int) *ApiError {
	switch key.Kind {
	case types.RoomKindIssue:
		issue, err := s.db.GetIssueById(key.Id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return NewNotFoundError()
			}
			return NewInternalServerError(err)
		}
		if !s.canAccessIssue(issue, userId) {
			return NewForbiddenError()
		}
	case types.RoomKindTopic:
		if _, err := s.db.GetTopicById(key.Id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return NewNotFoundError()
			}
			return NewInternalServerError(err)
		}
		if !s.db.IsTopicMember(key.Id, userId) {
			return NewForbiddenError()
		}
	default:
		return NewBadRequestError()
	}

	return nil
}
