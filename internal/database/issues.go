package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/npezzotti/go-ideaboard/internal/types"
)

// AdvanceIssue persists a validated status transition. The UPDATE is a
// compare-and-set on the expected current status: if a concurrent
// advance already moved the issue, zero rows match and the caller gets
// ErrStatusConflict (or sql.ErrNoRows when the issue is gone). On the
// CLOSE transition the same transaction materializes the report, once:
// a pre-existing report for the issue makes the insert a no-op.
func (db *PgBoardRepository) AdvanceIssue(params AdvanceIssueParams) (Issue, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return Issue{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	now := time.Now().UTC()

	var closedAt sql.NullTime
	if params.ToStatus == string(types.StatusClose) {
		closedAt = sql.NullTime{Time: now, Valid: true}
	}

	res := tx.QueryRow(
		"UPDATE issues SET status = $3, closed_at = COALESCE($4, closed_at), updated_at = $5 "+
			"WHERE id = $1 AND status = $2 AND deleted_at IS NULL "+
			"RETURNING id, external_id, topic_id, owner_id, title, status, closed_at, created_at, updated_at",
		params.IssueId,
		params.FromStatus,
		params.ToStatus,
		closedAt,
		now,
	)

	issue, err := scanIssue(res)
	if errors.Is(err, sql.ErrNoRows) {
		// either the issue is gone or a concurrent advance won; let the
		// caller distinguish by re-reading
		var exists bool
		if scanErr := tx.QueryRow(
			"SELECT EXISTS (SELECT 1 FROM issues WHERE id = $1 AND deleted_at IS NULL)",
			params.IssueId,
		).Scan(&exists); scanErr != nil {
			err = scanErr
			return Issue{}, scanErr
		}

		if exists {
			err = ErrStatusConflict
		}
		return Issue{}, err
	} else if err != nil {
		return Issue{}, err
	}

	if params.ToStatus == string(types.StatusClose) {
		_, err = tx.Exec(
			"INSERT INTO reports (issue_id, selected_idea_id, memo, created_at) "+
				"VALUES ($1, NULLIF($2, 0), NULLIF($3, ''), $4) "+
				"ON CONFLICT (issue_id) DO NOTHING",
			params.IssueId,
			params.SelectedIdeaId,
			params.Memo,
			now,
		)
		if err != nil {
			return Issue{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return Issue{}, err
	}

	return issue, nil
}
