package database

import (
	"database/sql"
	"time"
)

type Account struct {
	Id           int
	Username     string
	EmailAddress string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Topic struct {
	Id         int
	ExternalId string
	Title      string
	OwnerId    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Issue struct {
	Id         int
	ExternalId string
	TopicId    sql.NullInt64
	OwnerId    int
	Title      string
	Status     string
	ClosedAt   sql.NullTime
	DeletedAt  sql.NullTime
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Category struct {
	Id        int
	IssueId   int
	Name      string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Idea struct {
	Id            int
	IssueId       int
	CategoryId    sql.NullInt64
	AuthorId      int
	Content       string
	Selected      bool
	AgreeCount    int
	DisagreeCount int
	DeletedAt     sql.NullTime
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Vote struct {
	Id        int
	IdeaId    int
	AccountId int
	VoteType  string
	DeletedAt sql.NullTime
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Report struct {
	Id             int
	IssueId        int
	SelectedIdeaId sql.NullInt64
	Memo           sql.NullString
	CreatedAt      time.Time
}

type CreateAccountParams struct {
	Username     string
	EmailAddress string
	PasswordHash string
}

type CreateTopicParams struct {
	Title      string
	OwnerId    int
	ExternalId string
}

type CreateIssueParams struct {
	Title      string
	TopicId    int // zero for a quick issue
	OwnerId    int
	ExternalId string
}

type CreateCategoryParams struct {
	IssueId  int
	Name     string
	Position int
}

type CreateIdeaParams struct {
	IssueId    int
	CategoryId int // zero for uncategorized
	AuthorId   int
	Content    string
}

// AdvanceIssueParams drives the compare-and-set status transition. The
// update only applies while the issue still holds FromStatus, so two
// racing advances cannot both succeed.
type AdvanceIssueParams struct {
	IssueId        int
	FromStatus     string
	ToStatus       string
	SelectedIdeaId int // report fields, only read on the CLOSE transition
	Memo           string
}
