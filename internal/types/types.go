package types

import (
	"time"
)

// RoomKind identifies which kind of collaboration context a room
// represents. A room is the set of live connections for one issue or
// one topic.
type RoomKind string

const (
	RoomKindIssue RoomKind = "issue"
	RoomKindTopic RoomKind = "topic"
)

func (k RoomKind) Valid() bool {
	return k == RoomKindIssue || k == RoomKindTopic
}

// IssueStatus is the workflow stage of an issue. Transitions are
// strictly linear, see the workflow package.
type IssueStatus string

const (
	StatusBrainstorming IssueStatus = "BRAINSTORMING"
	StatusCategorize    IssueStatus = "CATEGORIZE"
	StatusVote          IssueStatus = "VOTE"
	StatusSelect        IssueStatus = "SELECT"
	StatusClose         IssueStatus = "CLOSE"
)

// VoteType is one of the two opposing vote values.
type VoteType string

const (
	VoteAgree    VoteType = "AGREE"
	VoteDisagree VoteType = "DISAGREE"
)

func (v VoteType) Valid() bool {
	return v == VoteAgree || v == VoteDisagree
}

// VoteResult is the participant's resulting vote after a cast: the
// requested type, or ResultNone when the cast cancelled an existing
// vote.
type VoteResult string

const (
	ResultAgree    VoteResult = "AGREE"
	ResultDisagree VoteResult = "DISAGREE"
	ResultNone     VoteResult = "NONE"
)

type User struct {
	Id           int       `json:"id"`
	Username     string    `json:"username"`
	EmailAddress string    `json:"email_address,omitempty"`
	Password     string    `json:"-"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

type Topic struct {
	Id         int       `json:"id"`
	ExternalId string    `json:"external_id"`
	Title      string    `json:"title"`
	OwnerId    int       `json:"owner_id"`
	Members    []User    `json:"members,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// Issue is a brainstorming session. TopicId is zero for a quick issue,
// which is owned by a single account and has no topic room.
type Issue struct {
	Id         int         `json:"id"`
	ExternalId string      `json:"external_id"`
	TopicId    int         `json:"topic_id,omitempty"`
	OwnerId    int         `json:"owner_id"`
	Title      string      `json:"title"`
	Status     IssueStatus `json:"status"`
	ClosedAt   *time.Time  `json:"closed_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at,omitempty"`
	UpdatedAt  time.Time   `json:"updated_at,omitempty"`
}

type Category struct {
	Id        int       `json:"id"`
	IssueId   int       `json:"issue_id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Idea carries the derived agree/disagree aggregates. The counters
// always equal the number of active votes of each type for the idea.
type Idea struct {
	Id            int       `json:"id"`
	IssueId       int       `json:"issue_id"`
	CategoryId    int       `json:"category_id,omitempty"`
	AuthorId      int       `json:"author_id"`
	Content       string    `json:"content"`
	Selected      bool      `json:"selected"`
	AgreeCount    int       `json:"agree_count"`
	DisagreeCount int       `json:"disagree_count"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

type Report struct {
	Id             int       `json:"id"`
	IssueId        int       `json:"issue_id"`
	SelectedIdeaId int       `json:"selected_idea_id,omitempty"`
	Memo           string    `json:"memo,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

// VoteTally is the authoritative outcome of a cast: the fresh counters
// for the idea and the participant's resulting vote.
type VoteTally struct {
	IdeaId        int        `json:"idea_id"`
	IssueId       int        `json:"issue_id"`
	AgreeCount    int        `json:"agree_count"`
	DisagreeCount int        `json:"disagree_count"`
	Result        VoteResult `json:"result"`
}
