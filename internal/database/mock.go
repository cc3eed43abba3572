package database

import (
	"github.com/npezzotti/go-ideaboard/internal/types"
	"github.com/stretchr/testify/mock"
)

type MockBoardRepository struct {
	mock.Mock
}

func (m *MockBoardRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockBoardRepository) CreateAccount(params CreateAccountParams) (Account, error) {
	args := m.Called(params)
	return args.Get(0).(Account), args.Error(1)
}
func (m *MockBoardRepository) GetAccountById(accountId int) (Account, error) {
	args := m.Called(accountId)
	return args.Get(0).(Account), args.Error(1)
}
func (m *MockBoardRepository) GetAccountByEmail(email string) (Account, error) {
	args := m.Called(email)
	return args.Get(0).(Account), args.Error(1)
}
func (m *MockBoardRepository) CreateTopic(params CreateTopicParams) (Topic, error) {
	args := m.Called(params)
	return args.Get(0).(Topic), args.Error(1)
}
func (m *MockBoardRepository) GetTopicById(topicId int) (Topic, error) {
	args := m.Called(topicId)
	return args.Get(0).(Topic), args.Error(1)
}
func (m *MockBoardRepository) GetTopicByExternalId(externalId string) (Topic, error) {
	args := m.Called(externalId)
	return args.Get(0).(Topic), args.Error(1)
}
func (m *MockBoardRepository) AddTopicMember(topicId, accountId int) error {
	args := m.Called(topicId, accountId)
	return args.Error(0)
}
func (m *MockBoardRepository) RemoveTopicMember(topicId, accountId int) error {
	args := m.Called(topicId, accountId)
	return args.Error(0)
}
func (m *MockBoardRepository) IsTopicMember(topicId, accountId int) bool {
	args := m.Called(topicId, accountId)
	return args.Bool(0)
}
func (m *MockBoardRepository) CreateIssue(params CreateIssueParams) (Issue, error) {
	args := m.Called(params)
	return args.Get(0).(Issue), args.Error(1)
}
func (m *MockBoardRepository) GetIssueById(issueId int) (Issue, error) {
	args := m.Called(issueId)
	return args.Get(0).(Issue), args.Error(1)
}
func (m *MockBoardRepository) GetIssueByExternalId(externalId string) (Issue, error) {
	args := m.Called(externalId)
	return args.Get(0).(Issue), args.Error(1)
}
func (m *MockBoardRepository) AdvanceIssue(params AdvanceIssueParams) (Issue, error) {
	args := m.Called(params)
	return args.Get(0).(Issue), args.Error(1)
}
func (m *MockBoardRepository) GetReportByIssueId(issueId int) (Report, error) {
	args := m.Called(issueId)
	return args.Get(0).(Report), args.Error(1)
}
func (m *MockBoardRepository) CreateCategory(params CreateCategoryParams) (Category, error) {
	args := m.Called(params)
	return args.Get(0).(Category), args.Error(1)
}
func (m *MockBoardRepository) GetCategoryById(categoryId int) (Category, error) {
	args := m.Called(categoryId)
	return args.Get(0).(Category), args.Error(1)
}
func (m *MockBoardRepository) UpdateCategoryName(categoryId int, name string) (Category, error) {
	args := m.Called(categoryId, name)
	return args.Get(0).(Category), args.Error(1)
}
func (m *MockBoardRepository) MoveCategory(categoryId, position int) (Category, error) {
	args := m.Called(categoryId, position)
	return args.Get(0).(Category), args.Error(1)
}
func (m *MockBoardRepository) DeleteCategory(categoryId int) error {
	args := m.Called(categoryId)
	return args.Error(0)
}
func (m *MockBoardRepository) CreateIdea(params CreateIdeaParams) (Idea, error) {
	args := m.Called(params)
	return args.Get(0).(Idea), args.Error(1)
}
func (m *MockBoardRepository) GetIdeaById(ideaId int) (Idea, error) {
	args := m.Called(ideaId)
	return args.Get(0).(Idea), args.Error(1)
}
func (m *MockBoardRepository) ListIdeasByIssueId(issueId int) ([]Idea, error) {
	args := m.Called(issueId)
	return args.Get(0).([]Idea), args.Error(1)
}
func (m *MockBoardRepository) MoveIdea(ideaId, categoryId int) (Idea, error) {
	args := m.Called(ideaId, categoryId)
	return args.Get(0).(Idea), args.Error(1)
}
func (m *MockBoardRepository) DeleteIdea(ideaId int) error {
	args := m.Called(ideaId)
	return args.Error(0)
}
func (m *MockBoardRepository) SelectIdea(ideaId int) (Idea, error) {
	args := m.Called(ideaId)
	return args.Get(0).(Idea), args.Error(1)
}
func (m *MockBoardRepository) CastVote(ideaId, accountId int, requested types.VoteType) (types.VoteTally, error) {
	args := m.Called(ideaId, accountId, requested)
	return args.Get(0).(types.VoteTally), args.Error(1)
}
