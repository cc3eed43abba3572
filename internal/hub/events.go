package hub

import (
	"github.com/npezzotti/go-ideaboard/internal/types"
)

// EventType discriminates the payload of an Event. Consumers dispatch
// on it; unknown types are ignored client-side.
type EventType string

const (
	EventConnected          EventType = "connected"
	EventPresence           EventType = "presence"
	EventIdeaCreated        EventType = "ideaCreated"
	EventIdeaMoved          EventType = "ideaMoved"
	EventIdeaDeleted        EventType = "ideaDeleted"
	EventIdeaSelected       EventType = "ideaSelected"
	EventCategoryCreated    EventType = "categoryCreated"
	EventCategoryUpdated    EventType = "categoryUpdated"
	EventCategoryMoved      EventType = "categoryMoved"
	EventCategoryDeleted    EventType = "categoryDeleted"
	EventVoteChanged        EventType = "voteChanged"
	EventIssueStatusChanged EventType = "issueStatusChanged"
	EventMemberJoined       EventType = "memberJoined"
	EventMemberLeft         EventType = "memberLeft"
)

// Event is the wire envelope pushed to connections. It is serialized
// exactly once per publish.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
}

type ConnectedData struct {
	ConnectionId string `json:"connection_id"`
}

type PresenceData struct {
	RoomKind       types.RoomKind `json:"room_kind"`
	RoomId         int            `json:"room_id"`
	ParticipantIds []int          `json:"participant_ids"`
}

type IdeaRefData struct {
	IdeaId     int `json:"idea_id"`
	CategoryId int `json:"category_id,omitempty"`
}

type CategoryRefData struct {
	CategoryId int `json:"category_id"`
}

type IssueStatusData struct {
	IssueId int               `json:"issue_id"`
	Status  types.IssueStatus `json:"status"`
}

type MemberData struct {
	AccountId int `json:"account_id"`
}

func ConnectedEvent(connectionId string) *Event {
	return &Event{Type: EventConnected, Data: ConnectedData{ConnectionId: connectionId}}
}

func PresenceEvent(room RoomKey, participantIds []int) *Event {
	return &Event{
		Type: EventPresence,
		Data: PresenceData{
			RoomKind:       room.Kind,
			RoomId:         room.Id,
			ParticipantIds: participantIds,
		},
	}
}

func IdeaCreatedEvent(idea types.Idea) *Event {
	return &Event{Type: EventIdeaCreated, Data: idea}
}

func IdeaMovedEvent(ideaId, categoryId int) *Event {
	return &Event{Type: EventIdeaMoved, Data: IdeaRefData{IdeaId: ideaId, CategoryId: categoryId}}
}

func IdeaDeletedEvent(ideaId int) *Event {
	return &Event{Type: EventIdeaDeleted, Data: IdeaRefData{IdeaId: ideaId}}
}

func IdeaSelectedEvent(ideaId int) *Event {
	return &Event{Type: EventIdeaSelected, Data: IdeaRefData{IdeaId: ideaId}}
}

func CategoryCreatedEvent(category types.Category) *Event {
	return &Event{Type: EventCategoryCreated, Data: category}
}

func CategoryUpdatedEvent(categoryId int) *Event {
	return &Event{Type: EventCategoryUpdated, Data: CategoryRefData{CategoryId: categoryId}}
}

func CategoryMovedEvent(categoryId int) *Event {
	return &Event{Type: EventCategoryMoved, Data: CategoryRefData{CategoryId: categoryId}}
}

func CategoryDeletedEvent(categoryId int) *Event {
	return &Event{Type: EventCategoryDeleted, Data: CategoryRefData{CategoryId: categoryId}}
}

func VoteChangedEvent(tally types.VoteTally) *Event {
	return &Event{Type: EventVoteChanged, Data: struct {
		IdeaId        int `json:"idea_id"`
		AgreeCount    int `json:"agree_count"`
		DisagreeCount int `json:"disagree_count"`
	}{
		IdeaId:        tally.IdeaId,
		AgreeCount:    tally.AgreeCount,
		DisagreeCount: tally.DisagreeCount,
	}}
}

func IssueStatusChangedEvent(issueId int, status types.IssueStatus) *Event {
	return &Event{Type: EventIssueStatusChanged, Data: IssueStatusData{IssueId: issueId, Status: status}}
}

func MemberJoinedEvent(accountId int) *Event {
	return &Event{Type: EventMemberJoined, Data: MemberData{AccountId: accountId}}
}

func MemberLeftEvent(accountId int) *Event {
	return &Event{Type: EventMemberLeft, Data: MemberData{AccountId: accountId}}
}
