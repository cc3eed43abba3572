package workflow

import (
	"database/sql"
	"testing"
	"time"

	"github.com/npezzotti/go-ideaboard/internal/database"
	"github.com/npezzotti/go-ideaboard/internal/hub"
	"github.com/npezzotti/go-ideaboard/internal/stats"
	"github.com/npezzotti/go-ideaboard/internal/testutil"
	"github.com/npezzotti/go-ideaboard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestStateMachine(t *testing.T, db database.BoardRepository, statsProvider stats.StatsProvider) *StateMachine {
	t.Helper()
	logger := testutil.TestLogger(t)
	return NewStateMachine(logger, db, hub.NewHub(logger, stats.NoopStats{}), statsProvider)
}

func TestNext(t *testing.T) {
	tcases := []struct {
		cur  types.IssueStatus
		next types.IssueStatus
		ok   bool
	}{
		{types.StatusBrainstorming, types.StatusCategorize, true},
		{types.StatusCategorize, types.StatusVote, true},
		{types.StatusVote, types.StatusSelect, true},
		{types.StatusSelect, types.StatusClose, true},
		{types.StatusClose, "", false},
		{types.IssueStatus("BOGUS"), "", false},
	}

	for _, tc := range tcases {
		next, ok := Next(tc.cur)
		assert.Equal(t, tc.ok, ok, "Next(%s)", tc.cur)
		assert.Equal(t, tc.next, next, "Next(%s)", tc.cur)
	}
}

func TestAdvance(t *testing.T) {
	quickIssue := database.Issue{
		Id:      1,
		OwnerId: 7,
		Title:   "sprint retro",
		Status:  string(types.StatusBrainstorming),
	}

	tcases := []struct {
		name      string
		issue     database.Issue
		requested types.IssueStatus
		actorId   int
		wantErr   error
	}{
		{
			name:      "advances to the next status",
			issue:     quickIssue,
			requested: types.StatusCategorize,
			actorId:   7,
		},
		{
			name:      "rejects skipping a status",
			issue:     quickIssue,
			requested: types.StatusVote,
			actorId:   7,
			wantErr:   ErrInvalidTransition,
		},
		{
			name:      "rejects regressing",
			issue:     database.Issue{Id: 1, OwnerId: 7, Status: string(types.StatusVote)},
			requested: types.StatusCategorize,
			actorId:   7,
			wantErr:   ErrInvalidTransition,
		},
		{
			name:      "rejects advancing a closed issue",
			issue:     database.Issue{Id: 1, OwnerId: 7, Status: string(types.StatusClose)},
			requested: types.StatusClose,
			actorId:   7,
			wantErr:   ErrInvalidTransition,
		},
		{
			name:      "denies a non-owner on a quick issue",
			issue:     quickIssue,
			requested: types.StatusCategorize,
			actorId:   8,
			wantErr:   ErrPermissionDenied,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockBoardRepository{}
			defer mockRepo.AssertExpectations(t)

			mockRepo.On("GetIssueById", tc.issue.Id).Return(tc.issue, nil).Once()
			if tc.wantErr == nil {
				updated := tc.issue
				updated.Status = string(tc.requested)
				mockRepo.On("AdvanceIssue", database.AdvanceIssueParams{
					IssueId:    tc.issue.Id,
					FromStatus: tc.issue.Status,
					ToStatus:   string(tc.requested),
				}).Return(updated, nil).Once()
			}

			sm := newTestStateMachine(t, mockRepo, stats.NoopStats{})

			issue, err := sm.Advance(tc.issue.Id, tc.requested, tc.actorId, AdvanceExtra{}, "")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				mockRepo.AssertNotCalled(t, "AdvanceIssue")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.requested, issue.Status)
		})
	}
}

func TestAdvanceNotFound(t *testing.T) {
	mockRepo := &database.MockBoardRepository{}
	defer mockRepo.AssertExpectations(t)
	mockRepo.On("GetIssueById", 99).Return(database.Issue{}, sql.ErrNoRows).Once()

	sm := newTestStateMachine(t, mockRepo, stats.NoopStats{})

	_, err := sm.Advance(99, types.StatusCategorize, 1, AdvanceExtra{}, "")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAdvanceTopicMembership(t *testing.T) {
	topicIssue := database.Issue{
		Id:      1,
		TopicId: sql.NullInt64{Int64: 4, Valid: true},
		OwnerId: 7,
		Status:  string(types.StatusBrainstorming),
	}

	t.Run("allows any topic member", func(t *testing.T) {
		mockRepo := &database.MockBoardRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetIssueById", 1).Return(topicIssue, nil).Once()
		mockRepo.On("IsTopicMember", 4, 8).Return(true).Once()

		updated := topicIssue
		updated.Status = string(types.StatusCategorize)
		mockRepo.On("AdvanceIssue", database.AdvanceIssueParams{
			IssueId:    1,
			FromStatus: topicIssue.Status,
			ToStatus:   string(types.StatusCategorize),
		}).Return(updated, nil).Once()

		sm := newTestStateMachine(t, mockRepo, stats.NoopStats{})

		issue, err := sm.Advance(1, types.StatusCategorize, 8, AdvanceExtra{}, "")
		require.NoError(t, err)
		assert.Equal(t, types.StatusCategorize, issue.Status)
	})

	t.Run("denies a non-member", func(t *testing.T) {
		mockRepo := &database.MockBoardRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetIssueById", 1).Return(topicIssue, nil).Once()
		mockRepo.On("IsTopicMember", 4, 9).Return(false).Once()

		sm := newTestStateMachine(t, mockRepo, stats.NoopStats{})

		_, err := sm.Advance(1, types.StatusCategorize, 9, AdvanceExtra{}, "")
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestAdvanceLostRace(t *testing.T) {
	issue := database.Issue{Id: 1, OwnerId: 7, Status: string(types.StatusBrainstorming)}

	mockRepo := &database.MockBoardRepository{}
	defer mockRepo.AssertExpectations(t)
	mockRepo.On("GetIssueById", 1).Return(issue, nil).Once()
	mockRepo.On("AdvanceIssue", mock.Anything).
		Return(database.Issue{}, database.ErrStatusConflict).Once()

	sm := newTestStateMachine(t, mockRepo, stats.NoopStats{})

	_, err := sm.Advance(1, types.StatusCategorize, 7, AdvanceExtra{}, "")
	assert.ErrorIs(t, err, ErrInvalidTransition,
		"a concurrent advance that wins the race reads as an invalid transition")
}

func TestAdvanceClose(t *testing.T) {
	issue := database.Issue{Id: 1, OwnerId: 7, Status: string(types.StatusSelect)}
	closedAt := time.Now().UTC()

	mockRepo := &database.MockBoardRepository{}
	defer mockRepo.AssertExpectations(t)
	mockRepo.On("GetIssueById", 1).Return(issue, nil).Once()

	updated := issue
	updated.Status = string(types.StatusClose)
	updated.ClosedAt = sql.NullTime{Time: closedAt, Valid: true}
	mockRepo.On("AdvanceIssue", database.AdvanceIssueParams{
		IssueId:        1,
		FromStatus:     issue.Status,
		ToStatus:       string(types.StatusClose),
		SelectedIdeaId: 3,
		Memo:           "ship it",
	}).Return(updated, nil).Once()

	mockStats := &stats.MockStatsUpdater{}
	defer mockStats.AssertExpectations(t)
	mockStats.On("RegisterMetric", stats.IssuesClosed).Once()
	mockStats.On("Incr", stats.IssuesClosed).Once()

	sm := newTestStateMachine(t, mockRepo, mockStats)

	result, err := sm.Advance(1, types.StatusClose, 7, AdvanceExtra{SelectedIdeaId: 3, Memo: "ship it"}, "")
	require.NoError(t, err)
	assert.Equal(t, types.StatusClose, result.Status)
	require.NotNil(t, result.ClosedAt)
	assert.WithinDuration(t, closedAt, *result.ClosedAt, time.Second)
}

func TestIssueFromModel(t *testing.T) {
	now := time.Now().UTC()

	dbIssue := database.Issue{
		Id:         2,
		ExternalId: "abc123",
		TopicId:    sql.NullInt64{Int64: 5, Valid: true},
		OwnerId:    7,
		Title:      "q3 planning",
		Status:     string(types.StatusVote),
		ClosedAt:   sql.NullTime{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	issue := IssueFromModel(dbIssue)
	assert.Equal(t, 5, issue.TopicId)
	assert.Equal(t, types.StatusVote, issue.Status)
	assert.Nil(t, issue.ClosedAt)

	dbIssue.TopicId = sql.NullInt64{}
	dbIssue.ClosedAt = sql.NullTime{Time: now, Valid: true}

	issue = IssueFromModel(dbIssue)
	assert.Zero(t, issue.TopicId, "quick issues carry no topic id")
	require.NotNil(t, issue.ClosedAt)
}
