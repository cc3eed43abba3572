package database

import "github.com/npezzotti/go-ideaboard/internal/types"

type BoardRepository interface {
	Ping() error

	CreateAccount(params CreateAccountParams) (Account, error)
	GetAccountById(accountId int) (Account, error)
	GetAccountByEmail(email string) (Account, error)

	CreateTopic(params CreateTopicParams) (Topic, error)
	GetTopicById(topicId int) (Topic, error)
	GetTopicByExternalId(externalId string) (Topic, error)
	AddTopicMember(topicId, accountId int) error
	RemoveTopicMember(topicId, accountId int) error
	IsTopicMember(topicId, accountId int) bool

	CreateIssue(params CreateIssueParams) (Issue, error)
	GetIssueById(issueId int) (Issue, error)
	GetIssueByExternalId(externalId string) (Issue, error)
	AdvanceIssue(params AdvanceIssueParams) (Issue, error)
	GetReportByIssueId(issueId int) (Report, error)

	CreateCategory(params CreateCategoryParams) (Category, error)
	GetCategoryById(categoryId int) (Category, error)
	UpdateCategoryName(categoryId int, name string) (Category, error)
	MoveCategory(categoryId, position int) (Category, error)
	DeleteCategory(categoryId int) error

	CreateIdea(params CreateIdeaParams) (Idea, error)
	GetIdeaById(ideaId int) (Idea, error)
	ListIdeasByIssueId(issueId int) ([]Idea, error)
	MoveIdea(ideaId, categoryId int) (Idea, error)
	DeleteIdea(ideaId int) error
	SelectIdea(ideaId int) (Idea, error)

	CastVote(ideaId, accountId int, requested types.VoteType) (types.VoteTally, error)
}
