package database

import (
	"time"
)

func (db *PgBoardRepository) CreateAccount(params CreateAccountParams) (Account, error) {
	res := db.conn.QueryRow(
		"INSERT INTO accounts (username, email, password_hash, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $4) RETURNING id, username, email",
		params.Username,
		params.EmailAddress,
		params.PasswordHash,
		time.Now().UTC(),
	)

	var a Account
	err := res.Scan(
		&a.Id,
		&a.Username,
		&a.EmailAddress,
	)

	return a, err
}

func (db *PgBoardRepository) GetAccountById(accountId int) (Account, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, email, created_at, updated_at FROM accounts "+
			"WHERE id = $1 LIMIT 1",
		accountId,
	)

	var a Account
	err := row.Scan(
		&a.Id,
		&a.Username,
		&a.EmailAddress,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	return a, err
}

func (db *PgBoardRepository) GetAccountByEmail(email string) (Account, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, email, password_hash, created_at, updated_at FROM accounts "+
			"WHERE email = $1 LIMIT 1",
		email,
	)

	var a Account
	err := row.Scan(
		&a.Id,
		&a.Username,
		&a.EmailAddress,
		&a.PasswordHash,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	return a, err
}

func (db *PgBoardRepository) CreateTopic(params CreateTopicParams) (Topic, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return Topic{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res := tx.QueryRow(
		"INSERT INTO topics (external_id, title, owner_id, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $4) RETURNING id, external_id, title, owner_id, created_at, updated_at",
		params.ExternalId,
		params.Title,
		params.OwnerId,
		time.Now().UTC(),
	)

	var topic Topic
	err = res.Scan(
		&topic.Id,
		&topic.ExternalId,
		&topic.Title,
		&topic.OwnerId,
		&topic.CreatedAt,
		&topic.UpdatedAt,
	)
	if err != nil {
		return Topic{}, err
	}

	// the owner is always a member of their own topic
	_, err = tx.Exec(
		"INSERT INTO topic_members (topic_id, account_id, created_at) VALUES ($1, $2, $3)",
		topic.Id,
		params.OwnerId,
		time.Now().UTC(),
	)
	if err != nil {
		return Topic{}, err
	}

	if err = tx.Commit(); err != nil {
		return Topic{}, err
	}

	return topic, nil
}

func (db *PgBoardRepository) GetTopicById(topicId int) (Topic, error) {
	row := db.conn.QueryRow(
		"SELECT id, external_id, title, owner_id, created_at, updated_at FROM topics "+
			"WHERE id = $1 LIMIT 1",
		topicId,
	)

	var topic Topic
	err := row.Scan(
		&topic.Id,
		&topic.ExternalId,
		&topic.Title,
		&topic.OwnerId,
		&topic.CreatedAt,
		&topic.UpdatedAt,
	)

	return topic, err
}

func (db *PgBoardRepository) GetTopicByExternalId(externalId string) (Topic, error) {
	row := db.conn.QueryRow(
		"SELECT id, external_id, title, owner_id, created_at, updated_at FROM topics "+
			"WHERE external_id = $1 LIMIT 1",
		externalId,
	)

	var topic Topic
	err := row.Scan(
		&topic.Id,
		&topic.ExternalId,
		&topic.Title,
		&topic.OwnerId,
		&topic.CreatedAt,
		&topic.UpdatedAt,
	)

	return topic, err
}

func (db *PgBoardRepository) AddTopicMember(topicId, accountId int) error {
	_, err := db.conn.Exec(
		"INSERT INTO topic_members (topic_id, account_id, created_at) VALUES ($1, $2, $3) "+
			"ON CONFLICT (topic_id, account_id) DO NOTHING",
		topicId,
		accountId,
		time.Now().UTC(),
	)

	return err
}

func (db *PgBoardRepository) RemoveTopicMember(topicId, accountId int) error {
	_, err := db.conn.Exec(
		"DELETE FROM topic_members WHERE topic_id = $1 AND account_id = $2",
		topicId,
		accountId,
	)

	return err
}

func (db *PgBoardRepository) IsTopicMember(topicId, accountId int) bool {
	res := db.conn.QueryRow(
		"SELECT id FROM topic_members WHERE topic_id = $1 AND account_id = $2 LIMIT 1",
		topicId,
		accountId,
	)

	var id int
	return res.Scan(&id) == nil
}

func (db *PgBoardRepository) CreateIssue(params CreateIssueParams) (Issue, error) {
	res := db.conn.QueryRow(
		"INSERT INTO issues (external_id, topic_id, owner_id, title, status, created_at, updated_at) "+
			"VALUES ($1, NULLIF($2, 0), $3, $4, $5, $6, $6) "+
			"RETURNING id, external_id, topic_id, owner_id, title, status, closed_at, created_at, updated_at",
		params.ExternalId,
		params.TopicId,
		params.OwnerId,
		params.Title,
		"BRAINSTORMING",
		time.Now().UTC(),
	)

	return scanIssue(res)
}

func (db *PgBoardRepository) GetIssueById(issueId int) (Issue, error) {
	row := db.conn.QueryRow(
		"SELECT id, external_id, topic_id, owner_id, title, status, closed_at, created_at, updated_at "+
			"FROM issues WHERE id = $1 AND deleted_at IS NULL LIMIT 1",
		issueId,
	)

	return scanIssue(row)
}

func (db *PgBoardRepository) GetIssueByExternalId(externalId string) (Issue, error) {
	row := db.conn.QueryRow(
		"SELECT id, external_id, topic_id, owner_id, title, status, closed_at, created_at, updated_at "+
			"FROM issues WHERE external_id = $1 AND deleted_at IS NULL LIMIT 1",
		externalId,
	)

	return scanIssue(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIssue(row rowScanner) (Issue, error) {
	var issue Issue
	err := row.Scan(
		&issue.Id,
		&issue.ExternalId,
		&issue.TopicId,
		&issue.OwnerId,
		&issue.Title,
		&issue.Status,
		&issue.ClosedAt,
		&issue.CreatedAt,
		&issue.UpdatedAt,
	)

	return issue, err
}

func (db *PgBoardRepository) GetReportByIssueId(issueId int) (Report, error) {
	row := db.conn.QueryRow(
		"SELECT id, issue_id, selected_idea_id, memo, created_at FROM reports "+
			"WHERE issue_id = $1 LIMIT 1",
		issueId,
	)

	var report Report
	err := row.Scan(
		&report.Id,
		&report.IssueId,
		&report.SelectedIdeaId,
		&report.Memo,
		&report.CreatedAt,
	)

	return report, err
}

func (db *PgBoardRepository) CreateCategory(params CreateCategoryParams) (Category, error) {
	res := db.conn.QueryRow(
		"INSERT INTO categories (issue_id, name, position, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $4) RETURNING id, issue_id, name, position, created_at, updated_at",
		params.IssueId,
		params.Name,
		params.Position,
		time.Now().UTC(),
	)

	return scanCategory(res)
}

func (db *PgBoardRepository) GetCategoryById(categoryId int) (Category, error) {
	row := db.conn.QueryRow(
		"SELECT id, issue_id, name, position, created_at, updated_at FROM categories "+
			"WHERE id = $1 LIMIT 1",
		categoryId,
	)

	return scanCategory(row)
}

func (db *PgBoardRepository) UpdateCategoryName(categoryId int, name string) (Category, error) {
	res := db.conn.QueryRow(
		"UPDATE categories SET name = $2, updated_at = $3 WHERE id = $1 "+
			"RETURNING id, issue_id, name, position, created_at, updated_at",
		categoryId,
		name,
		time.Now().UTC(),
	)

	return scanCategory(res)
}

func (db *PgBoardRepository) MoveCategory(categoryId, position int) (Category, error) {
	res := db.conn.QueryRow(
		"UPDATE categories SET position = $2, updated_at = $3 WHERE id = $1 "+
			"RETURNING id, issue_id, name, position, created_at, updated_at",
		categoryId,
		position,
		time.Now().UTC(),
	)

	return scanCategory(res)
}

func (db *PgBoardRepository) DeleteCategory(categoryId int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	// ideas in the deleted category fall back to uncategorized
	_, err = tx.Exec(
		"UPDATE ideas SET category_id = NULL, updated_at = $2 WHERE category_id = $1",
		categoryId,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec("DELETE FROM categories WHERE id = $1", categoryId)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func scanCategory(row rowScanner) (Category, error) {
	var cat Category
	err := row.Scan(
		&cat.Id,
		&cat.IssueId,
		&cat.Name,
		&cat.Position,
		&cat.CreatedAt,
		&cat.UpdatedAt,
	)

	return cat, err
}

func (db *PgBoardRepository) CreateIdea(params CreateIdeaParams) (Idea, error) {
	res := db.conn.QueryRow(
		"INSERT INTO ideas (issue_id, category_id, author_id, content, created_at, updated_at) "+
			"VALUES ($1, NULLIF($2, 0), $3, $4, $5, $5) "+
			"RETURNING id, issue_id, category_id, author_id, content, selected, agree_count, disagree_count, created_at, updated_at",
		params.IssueId,
		params.CategoryId,
		params.AuthorId,
		params.Content,
		time.Now().UTC(),
	)

	return scanIdea(res)
}

func (db *PgBoardRepository) GetIdeaById(ideaId int) (Idea, error) {
	row := db.conn.QueryRow(
		"SELECT id, issue_id, category_id, author_id, content, selected, agree_count, disagree_count, created_at, updated_at "+
			"FROM ideas WHERE id = $1 AND deleted_at IS NULL LIMIT 1",
		ideaId,
	)

	return scanIdea(row)
}

func (db *PgBoardRepository) ListIdeasByIssueId(issueId int) ([]Idea, error) {
	rows, err := db.conn.Query(
		"SELECT id, issue_id, category_id, author_id, content, selected, agree_count, disagree_count, created_at, updated_at "+
			"FROM ideas WHERE issue_id = $1 AND deleted_at IS NULL ORDER BY id",
		issueId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ideas = make([]Idea, 0)
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}

		ideas = append(ideas, idea)
	}

	return ideas, rows.Err()
}

func (db *PgBoardRepository) MoveIdea(ideaId, categoryId int) (Idea, error) {
	res := db.conn.QueryRow(
		"UPDATE ideas SET category_id = NULLIF($2, 0), updated_at = $3 "+
			"WHERE id = $1 AND deleted_at IS NULL "+
			"RETURNING id, issue_id, category_id, author_id, content, selected, agree_count, disagree_count, created_at, updated_at",
		ideaId,
		categoryId,
		time.Now().UTC(),
	)

	return scanIdea(res)
}

func (db *PgBoardRepository) DeleteIdea(ideaId int) error {
	_, err := db.conn.Exec(
		"UPDATE ideas SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL",
		ideaId,
		time.Now().UTC(),
	)

	return err
}

func (db *PgBoardRepository) SelectIdea(ideaId int) (Idea, error) {
	res := db.conn.QueryRow(
		"UPDATE ideas SET selected = TRUE, updated_at = $2 "+
			"WHERE id = $1 AND deleted_at IS NULL "+
			"RETURNING id, issue_id, category_id, author_id, content, selected, agree_count, disagree_count, created_at, updated_at",
		ideaId,
		time.Now().UTC(),
	)

	return scanIdea(res)
}

func scanIdea(row rowScanner) (Idea, error) {
	var idea Idea
	err := row.Scan(
		&idea.Id,
		&idea.IssueId,
		&idea.CategoryId,
		&idea.AuthorId,
		&idea.Content,
		&idea.Selected,
		&idea.AgreeCount,
		&idea.DisagreeCount,
		&idea.CreatedAt,
		&idea.UpdatedAt,
	)

	return idea, err
}
