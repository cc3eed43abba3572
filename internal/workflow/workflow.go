package workflow

import (
	"errors"
	"log"
	"time"

	"github.com/npezzotti/go-ideaboard/internal/database"
	"github.com/npezzotti/go-ideaboard/internal/hub"
	"github.com/npezzotti/go-ideaboard/internal/stats"
	"github.com/npezzotti/go-ideaboard/internal/types"
)

var (
	ErrPermissionDenied  = errors.New("actor may not advance this issue")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// nextStatus is the whole workflow: a total function from each
// non-terminal status to its successor. No skipping, no regressing, no
// reopening a closed issue.
var nextStatus = map[types.IssueStatus]types.IssueStatus{
	types.StatusBrainstorming: types.StatusCategorize,
	types.StatusCategorize:    types.StatusVote,
	types.StatusVote:          types.StatusSelect,
	types.StatusSelect:        types.StatusClose,
}

// Next returns the successor of cur, or false for the terminal status.
func Next(cur types.IssueStatus) (types.IssueStatus, bool) {
	next, ok := nextStatus[cur]
	return next, ok
}

// AdvanceExtra carries the report fields consumed by the CLOSE
// transition. Both are optional.
type AdvanceExtra struct {
	SelectedIdeaId int
	Memo           string
}

// StateMachine validates and applies ordered issue status transitions,
// materializing the report on the terminal one.
type StateMachine struct {
	log   *log.Logger
	db    database.BoardRepository
	hub   *hub.Hub
	stats stats.StatsProvider
}

func NewStateMachine(logger *log.Logger, db database.BoardRepository, h *hub.Hub, statsProvider stats.StatsProvider) *StateMachine {
	statsProvider.RegisterMetric(stats.IssuesClosed)

	return &StateMachine{
		log:   logger,
		db:    db,
		hub:   h,
		stats: statsProvider,
	}
}

// Advance moves the issue to requested iff the actor holds the required
// capability and requested is the structurally-next status. The CLOSE
// transition creates the issue's report in the same transaction, once.
// After commit the status change is broadcast to the issue room and,
// for topic-owned issues, to the topic room as well.
func (sm *StateMachine) Advance(issueId int, requested types.IssueStatus, actorId int, extra AdvanceExtra, excludeConnId string) (types.Issue, error) {
	dbIssue, err := sm.db.GetIssueById(issueId)
	if err != nil {
		return types.Issue{}, err
	}

	if !sm.canAdvance(dbIssue, actorId) {
		return types.Issue{}, ErrPermissionDenied
	}

	next, ok := Next(types.IssueStatus(dbIssue.Status))
	if !ok || next != requested {
		return types.Issue{}, ErrInvalidTransition
	}

	updated, err := sm.db.AdvanceIssue(database.AdvanceIssueParams{
		IssueId:        issueId,
		FromStatus:     dbIssue.Status,
		ToStatus:       string(requested),
		SelectedIdeaId: extra.SelectedIdeaId,
		Memo:           extra.Memo,
	})
	if errors.Is(err, database.ErrStatusConflict) {
		// a concurrent advance won the race, so requested is no longer
		// the next status
		return types.Issue{}, ErrInvalidTransition
	} else if err != nil {
		return types.Issue{}, err
	}

	if requested == types.StatusClose {
		sm.stats.Incr(stats.IssuesClosed)
	}

	issue := IssueFromModel(updated)

	sm.hub.Publish(
		hub.IssueRoom(issue.Id),
		hub.IssueStatusChangedEvent(issue.Id, issue.Status),
		hub.ExcludeConn(excludeConnId),
	)
	if issue.TopicId != 0 {
		// topic-level listings refresh off the topic room
		sm.hub.Publish(
			hub.TopicRoom(issue.TopicId),
			hub.IssueStatusChangedEvent(issue.Id, issue.Status),
			hub.ExcludeConn(excludeConnId),
		)
	}

	return issue, nil
}

// canAdvance is the permission gate: quick issues are owner-only, topic
// issues require topic membership.
func (sm *StateMachine) canAdvance(issue database.Issue, actorId int) bool {
	if !issue.TopicId.Valid {
		return issue.OwnerId == actorId
	}

	return sm.db.IsTopicMember(int(issue.TopicId.Int64), actorId)
}

// IssueFromModel converts a database issue row to its wire shape.
func IssueFromModel(dbIssue database.Issue) types.Issue {
	issue := types.Issue{
		Id:         dbIssue.Id,
		ExternalId: dbIssue.ExternalId,
		OwnerId:    dbIssue.OwnerId,
		Title:      dbIssue.Title,
		Status:     types.IssueStatus(dbIssue.Status),
		CreatedAt:  dbIssue.CreatedAt,
		UpdatedAt:  dbIssue.UpdatedAt,
	}

	if dbIssue.TopicId.Valid {
		issue.TopicId = int(dbIssue.TopicId.Int64)
	}
	if dbIssue.ClosedAt.Valid {
		closedAt := dbIssue.ClosedAt.Time.UTC().Round(time.Millisecond)
		issue.ClosedAt = &closedAt
	}

	return issue
}
