package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/npezzotti/go-ideaboard/internal/types"
)

// CastVote runs one attempt of the vote toggle inside a single
// transaction. Locking the idea row up front serializes all casts for
// the same idea, so the active-vote lookup and the counter update can
// never interleave with a concurrent cast. The partial unique index on
// (idea_id, account_id) backstops the at-most-one-active-vote invariant;
// a violation surfaces as a retryable error (see IsRetryable).
func (db *PgBoardRepository) CastVote(ideaId, accountId int, requested types.VoteType) (types.VoteTally, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return types.VoteTally{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var issueId int
	err = tx.QueryRow(
		"SELECT id, issue_id FROM ideas WHERE id = $1 AND deleted_at IS NULL FOR UPDATE",
		ideaId,
	).Scan(&ideaId, &issueId)
	if err != nil {
		return types.VoteTally{}, err
	}

	var (
		voteId  int
		current string
	)
	err = tx.QueryRow(
		"SELECT id, vote_type FROM votes WHERE idea_id = $1 AND account_id = $2 AND deleted_at IS NULL LIMIT 1",
		ideaId,
		accountId,
	).Scan(&voteId, &current)

	now := time.Now().UTC()

	var (
		agreeDelta    int
		disagreeDelta int
		result        types.VoteResult
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// first cast: create an active vote of the requested type
		_, err = tx.Exec(
			"INSERT INTO votes (idea_id, account_id, vote_type, created_at, updated_at) VALUES ($1, $2, $3, $4, $4)",
			ideaId,
			accountId,
			string(requested),
			now,
		)
		if err != nil {
			return types.VoteTally{}, err
		}

		agreeDelta, disagreeDelta = voteDeltas(requested, 1)
		result = types.VoteResult(requested)
	case err != nil:
		return types.VoteTally{}, err
	case current == string(requested):
		// cancel-toggle: soft-delete the active vote
		_, err = tx.Exec(
			"UPDATE votes SET deleted_at = $2, updated_at = $2 WHERE id = $1",
			voteId,
			now,
		)
		if err != nil {
			return types.VoteTally{}, err
		}

		agreeDelta, disagreeDelta = voteDeltas(requested, -1)
		result = types.ResultNone
	default:
		// switch: mutate the vote in place so the participant never has
		// zero active votes mid-operation
		_, err = tx.Exec(
			"UPDATE votes SET vote_type = $2, updated_at = $3 WHERE id = $1",
			voteId,
			string(requested),
			now,
		)
		if err != nil {
			return types.VoteTally{}, err
		}

		oldAgree, oldDisagree := voteDeltas(types.VoteType(current), -1)
		newAgree, newDisagree := voteDeltas(requested, 1)
		agreeDelta, disagreeDelta = oldAgree+newAgree, oldDisagree+newDisagree
		result = types.VoteResult(requested)
	}

	tally := types.VoteTally{
		IdeaId:  ideaId,
		IssueId: issueId,
		Result:  result,
	}
	err = tx.QueryRow(
		"UPDATE ideas SET agree_count = agree_count + $2, disagree_count = disagree_count + $3, updated_at = $4 "+
			"WHERE id = $1 RETURNING agree_count, disagree_count",
		ideaId,
		agreeDelta,
		disagreeDelta,
		now,
	).Scan(&tally.AgreeCount, &tally.DisagreeCount)
	if err != nil {
		return types.VoteTally{}, err
	}

	if err = tx.Commit(); err != nil {
		return types.VoteTally{}, err
	}

	return tally, nil
}

func voteDeltas(voteType types.VoteType, delta int) (agree, disagree int) {
	if voteType == types.VoteAgree {
		return delta, 0
	}
	return 0, delta
}
