package ledger

import (
	"errors"
	"fmt"
	"log"

	"github.com/npezzotti/go-ideaboard/internal/database"
	"github.com/npezzotti/go-ideaboard/internal/hub"
	"github.com/npezzotti/go-ideaboard/internal/stats"
	"github.com/npezzotti/go-ideaboard/internal/types"
)

// maxAttempts bounds the retry loop around transient transactional
// failures. Each attempt re-runs the full lookup-then-write decision,
// so retries converge on the participant's latest intent.
const maxAttempts = 3

var ErrInvalidVoteType = errors.New("invalid vote type")

// VoteLedger turns a participant's vote intent into a consistent ledger
// entry plus authoritative counters, and notifies the idea's issue room.
type VoteLedger struct {
	log   *log.Logger
	db    database.BoardRepository
	hub   *hub.Hub
	stats stats.StatsProvider
}

func NewVoteLedger(logger *log.Logger, db database.BoardRepository, h *hub.Hub, statsProvider stats.StatsProvider) *VoteLedger {
	statsProvider.RegisterMetric(stats.VotesCast)

	return &VoteLedger{
		log:   logger,
		db:    db,
		hub:   h,
		stats: statsProvider,
	}
}

// CastVote applies the toggle semantics for one participant on one
// idea: no active vote casts one, the same type cancels it, the
// opposing type switches in place. Retryable write races are absorbed
// here and never reach the caller. On success the fresh counters are
// broadcast to the issue room, excluding the originating connection.
func (l *VoteLedger) CastVote(ideaId, accountId int, requested types.VoteType, excludeConnId string) (types.VoteTally, error) {
	if !requested.Valid() {
		return types.VoteTally{}, ErrInvalidVoteType
	}

	var (
		tally types.VoteTally
		err   error
	)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		tally, err = l.db.CastVote(ideaId, accountId, requested)
		if err == nil {
			break
		}
		if !database.IsRetryable(err) {
			return types.VoteTally{}, err
		}

		l.log.Printf("vote for idea %d by account %d lost a race (attempt %d): %v",
			ideaId, accountId, attempt, err)
	}
	if err != nil {
		return types.VoteTally{}, fmt.Errorf("cast vote: %w", err)
	}

	l.stats.Incr(stats.VotesCast)

	l.hub.Publish(
		hub.IssueRoom(tally.IssueId),
		hub.VoteChangedEvent(tally),
		hub.ExcludeConn(excludeConnId),
	)

	return tally, nil
}
