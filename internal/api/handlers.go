package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/npezzotti/go-ideaboard/internal/database"
	"github.com/npezzotti/go-ideaboard/internal/hub"
	"github.com/npezzotti/go-ideaboard/internal/ledger"
	"github.com/npezzotti/go-ideaboard/internal/types"
	"github.com/npezzotti/go-ideaboard/internal/workflow"
)

type CreateTopicRequest struct {
	Title string `json:"title"`
}

type TopicMembershipRequest struct {
	TopicId string `json:"topic_id"` // external id, the shareable token
}

type CreateIssueRequest struct {
	Title   string `json:"title"`
	TopicId string `json:"topic_id"` // external id, empty for a quick issue
}

type AdvanceIssueRequest struct {
	IssueId        int    `json:"issue_id"`
	Status         string `json:"status"`
	SelectedIdeaId int    `json:"selected_idea_id"`
	Memo           string `json:"memo"`
}

type CreateCategoryRequest struct {
	IssueId  int    `json:"issue_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

type UpdateCategoryRequest struct {
	CategoryId int    `json:"category_id"`
	Name       string `json:"name"`
}

type MoveCategoryRequest struct {
	CategoryId int `json:"category_id"`
	Position   int `json:"position"`
}

type CreateIdeaRequest struct {
	IssueId    int    `json:"issue_id"`
	CategoryId int    `json:"category_id"`
	Content    string `json:"content"`
}

type MoveIdeaRequest struct {
	IdeaId     int `json:"idea_id"`
	CategoryId int `json:"category_id"` // zero moves the idea back to uncategorized
}

type SelectIdeaRequest struct {
	IdeaId int `json:"idea_id"`
}

type CastVoteRequest struct {
	IdeaId   int    `json:"idea_id"`
	VoteType string `json:"vote_type"`
}

func (s *BoardApp) createTopic(w http.ResponseWriter, r *http.Request) {
	var req CreateTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	sid, err := s.generateShortId()
	if err != nil {
		s.log.Print("generateShortId:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	newTopic, err := s.db.CreateTopic(database.CreateTopicParams{
		Title:      req.Title,
		OwnerId:    userId,
		ExternalId: sid,
	})
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusCreated, topicFromModel(newTopic))
}

func (s *BoardApp) getTopic(w http.ResponseWriter, r *http.Request) {
	externalId := r.URL.Query().Get("id")
	if externalId == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	topic, err := s.db.GetTopicByExternalId(externalId)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, topicFromModel(topic))
}

func (s *BoardApp) joinTopic(w http.ResponseWriter, r *http.Request) {
	var req TopicMembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TopicId == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	topic, err := s.db.GetTopicByExternalId(req.TopicId)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.db.AddTopicMember(topic.Id, userId); err != nil {
		s.log.Println("add topic member:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.hub.Publish(
		hub.TopicRoom(topic.Id),
		hub.MemberJoinedEvent(userId),
		hub.ExcludeConn(originConnectionId(r)),
	)

	s.writeJson(w, http.StatusOK, topicFromModel(topic))
}

func (s *BoardApp) leaveTopic(w http.ResponseWriter, r *http.Request) {
	var req TopicMembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TopicId == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	topic, err := s.db.GetTopicByExternalId(req.TopicId)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	// the owner's membership is permanent, otherwise the topic is orphaned
	if topic.OwnerId == userId {
		errResp := NewForbiddenError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.db.RemoveTopicMember(topic.Id, userId); err != nil {
		s.log.Println("remove topic member:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.hub.Publish(
		hub.TopicRoom(topic.Id),
		hub.MemberLeftEvent(userId),
		hub.ExcludeConn(originConnectionId(r)),
	)

	s.writeJson(w, http.StatusNoContent, nil)
}

func (s *BoardApp) createIssue(w http.ResponseWriter, r *http.Request) {
	var req CreateIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var topicId int
	if req.TopicId != "" {
		topic, err := s.db.GetTopicByExternalId(req.TopicId)
		if err != nil {
			var errResp *ApiError
			if errors.Is(err, sql.ErrNoRows) {
				errResp = NewNotFoundError()
			} else {
				errResp = NewInternalServerError(err)
			}
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}

		if !s.db.IsTopicMember(topic.Id, userId) {
			errResp := NewForbiddenError()
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}
		topicId = topic.Id
	}

	sid, err := s.generateShortId()
	if err != nil {
		s.log.Print("generateShortId:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	newIssue, err := s.db.CreateIssue(database.CreateIssueParams{
		Title:      req.Title,
		TopicId:    topicId,
		OwnerId:    userId,
		ExternalId: sid,
	})
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusCreated, workflow.IssueFromModel(newIssue))
}

func (s *BoardApp) getIssue(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	externalId := r.URL.Query().Get("id")
	if externalId == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	issue, err := s.db.GetIssueByExternalId(externalId)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if !s.canAccessIssue(issue, userId) {
		errResp := NewForbiddenError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, workflow.IssueFromModel(issue))
}

func (s *BoardApp) advanceIssue(w http.ResponseWriter, r *http.Request) {
	var req AdvanceIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IssueId == 0 || req.Status == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	issue, err := s.workflow.Advance(req.IssueId, types.IssueStatus(req.Status), userId, workflow.AdvanceExtra{
		SelectedIdeaId: req.SelectedIdeaId,
		Memo:           req.Memo,
	}, originConnectionId(r))
	if err != nil {
		var errResp *ApiError
		switch {
		case errors.Is(err, sql.ErrNoRows):
			errResp = NewNotFoundError()
		case errors.Is(err, workflow.ErrPermissionDenied):
			errResp = NewForbiddenError()
		case errors.Is(err, workflow.ErrInvalidTransition):
			errResp = NewConflictError(err.Error())
		default:
			s.log.Println("advance issue:", err)
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, issue)
}

func (s *BoardApp) createCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IssueId == 0 || req.Name == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if errResp := s.requireIssueAccess(r, req.IssueId); errResp != nil {
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	category, err := s.db.CreateCategory(database.CreateCategoryParams{
		IssueId:  req.IssueId,
		Name:     req.Name,
		Position: req.Position,
	})
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	c := categoryFromModel(category)
	s.hub.Publish(hub.IssueRoom(c.IssueId), hub.CategoryCreatedEvent(c), hub.ExcludeConn(originConnectionId(r)))

	s.writeJson(w, http.StatusCreated, c)
}

func (s *BoardApp) updateCategory(w http.ResponseWriter, r *http.Request) {
	var req UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CategoryId == 0 || req.Name == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	category, errResp := s.categoryForUpdate(r, req.CategoryId)
	if errResp != nil {
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	updated, err := s.db.UpdateCategoryName(category.Id, req.Name)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.hub.Publish(hub.IssueRoom(updated.IssueId), hub.CategoryUpdatedEvent(updated.Id), hub.ExcludeConn(originConnectionId(r)))

	s.writeJson(w, http.StatusOK, categoryFromModel(updated))
}

func (s *BoardApp) moveCategory(w http.ResponseWriter, r *http.Request) {
	var req MoveCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CategoryId == 0 {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	category, errResp := s.categoryForUpdate(r, req.CategoryId)
	if errResp != nil {
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	moved, err := s.db.MoveCategory(category.Id, req.Position)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.hub.Publish(hub.IssueRoom(moved.IssueId), hub.CategoryMovedEvent(moved.Id), hub.ExcludeConn(originConnectionId(r)))

	s.writeJson(w, http.StatusOK, categoryFromModel(moved))
}

func (s *BoardApp) deleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryId, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	category, errResp := s.categoryForUpdate(r, categoryId)
	if errResp != nil {
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.db.DeleteCategory(category.Id); err != nil {
		s.log.Println("delete category:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.hub.Publish(hub.IssueRoom(category.IssueId), hub.CategoryDeletedEvent(category.Id), hub.ExcludeConn(originConnectionId(r)))

	s.writeJson(w, http.StatusNoContent, nil)
}

func (s *BoardApp) createIdea(w http.ResponseWriter, r *http.Request) {
	var req CreateIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IssueId == 0 || req.Content == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if errResp := s.requireIssueAccess(r, req.IssueId); errResp != nil {
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	idea, err := s.db.CreateIdea(database.CreateIdeaParams{
		IssueId:    req.IssueId,
		CategoryId: req.CategoryId,
		AuthorId:   userId,
		Content:    req.Content,
	})
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	i := ideaFromModel(idea)
	s.hub.Publish(hub.IssueRoom(i.IssueId), hub.IdeaCreatedEvent(i), hub.ExcludeConn(originConnectionId(r)))

	s.writeJson(w, http.StatusCreated, i)
}

func (s *BoardApp) listIdeas(w http.ResponseWriter, r *http.Request) {
	issueId, err := strconv.Atoi(r.URL.Query().Get("issue_id"))
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if errResp := s.requireIssueAccess(r, issueId); errResp != nil {
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	dbIdeas, err := s.db.ListIdeasByIssueId(issueId)
	if err != nil {
		s.log.Println("list ideas:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	ideas := make([]types.Idea, 0, len(dbIdeas))
	for _, dbIdea := range dbIdeas {
		ideas = append(ideas, ideaFromModel(dbIdea))
	}

	s.writeJson(w, http.StatusOK, ideas)
}

func (s *BoardApp) moveIdea(w http.ResponseWriter, r *http.Request) {
	var req MoveIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IdeaId == 0 {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	idea, errResp := s.ideaForUpdate(r, req.IdeaId)
	if errResp != nil {
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	moved, err := s.db.MoveIdea(idea.Id, req.CategoryId)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.hub.Publish(hub.IssueRoom(moved.IssueId), hub.IdeaMovedEvent(moved.Id, req.CategoryId), hub.ExcludeConn(originConnectionId(r)))

	s.writeJson(w, http.StatusOK, ideaFromModel(moved))
}

func (s *BoardApp) selectIdea(w http.ResponseWriter, r *http.Request) {
	var req SelectIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IdeaId == 0 {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	idea, errResp := s.ideaForUpdate(r, req.IdeaId)
	if errResp != nil {
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	selected, err := s.db.SelectIdea(idea.Id)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.hub.Publish(hub.IssueRoom(selected.IssueId), hub.IdeaSelectedEvent(selected.Id), hub.ExcludeConn(originConnectionId(r)))

	s.writeJson(w, http.StatusOK, ideaFromModel(selected))
}

func (s *BoardApp) deleteIdea(w http.ResponseWriter, r *http.Request) {
	ideaId, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	idea, err := s.db.GetIdeaById(ideaId)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	issue, err := s.db.GetIssueById(idea.IssueId)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	// only the author or the issue owner may remove an idea
	if idea.AuthorId != userId && issue.OwnerId != userId {
		errResp := NewForbiddenError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.db.DeleteIdea(idea.Id); err != nil {
		s.log.Println("delete idea:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.hub.Publish(hub.IssueRoom(idea.IssueId), hub.IdeaDeletedEvent(idea.Id), hub.ExcludeConn(originConnectionId(r)))

	s.writeJson(w, http.StatusNoContent, nil)
}

func (s *BoardApp) castVote(w http.ResponseWriter, r *http.Request) {
	var req CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IdeaId == 0 {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	tally, err := s.ledger.CastVote(req.IdeaId, userId, types.VoteType(req.VoteType), originConnectionId(r))
	if err != nil {
		var errResp *ApiError
		switch {
		case errors.Is(err, ledger.ErrInvalidVoteType):
			errResp = NewBadRequestError()
		case errors.Is(err, sql.ErrNoRows):
			errResp = NewNotFoundError()
		default:
			s.log.Println("cast vote:", err)
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, tally)
}

func (s *BoardApp) getReport(w http.ResponseWriter, r *http.Request) {
	issueId, err := strconv.Atoi(r.URL.Query().Get("issue_id"))
	if err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if errResp := s.requireIssueAccess(r, issueId); errResp != nil {
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	report, err := s.db.GetReportByIssueId(issueId)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, reportFromModel(report))
}

func (s *BoardApp) getPresence(w http.ResponseWriter, r *http.Request) {
	key, errResp := roomKeyFromQuery(r)
	if errResp != nil {
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, hub.PresenceData{
		RoomKind:       key.Kind,
		RoomId:         key.Id,
		ParticipantIds: s.hub.OnlineParticipants(key),
	})
}

func roomKeyFromQuery(r *http.Request) (hub.RoomKey, *ApiError) {
	kind := types.RoomKind(r.URL.Query().Get("room_kind"))
	if !kind.Valid() {
		return hub.RoomKey{}, NewBadRequestError()
	}

	roomId, err := strconv.Atoi(r.URL.Query().Get("room_id"))
	if err != nil {
		return hub.RoomKey{}, NewBadRequestError()
	}

	return hub.RoomKey{Kind: kind, Id: roomId}, nil
}

// canAccessIssue mirrors the advance permission gate: quick issues are
// visible to their owner only, topic issues to topic members.
func (s *BoardApp) canAccessIssue(issue database.Issue, userId int) bool {
	if !issue.TopicId.Valid {
		return issue.OwnerId == userId
	}

	return s.db.IsTopicMember(int(issue.TopicId.Int64), userId)
}

func (s *BoardApp) requireIssueAccess(r *http.Request, issueId int) *ApiError {
	userId, ok := UserId(r.Context())
	if !ok {
		return NewUnauthorizedError()
	}

	issue, err := s.db.GetIssueById(issueId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError()
		}
		return NewInternalServerError(err)
	}

	if !s.canAccessIssue(issue, userId) {
		return NewForbiddenError()
	}

	return nil
}

func (s *BoardApp) categoryForUpdate(r *http.Request, categoryId int) (database.Category, *ApiError) {
	category, err := s.db.GetCategoryById(categoryId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return database.Category{}, NewNotFoundError()
		}
		return database.Category{}, NewInternalServerError(err)
	}

	if errResp := s.requireIssueAccess(r, category.IssueId); errResp != nil {
		return database.Category{}, errResp
	}

	return category, nil
}

func (s *BoardApp) ideaForUpdate(r *http.Request, ideaId int) (database.Idea, *ApiError) {
	idea, err := s.db.GetIdeaById(ideaId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return database.Idea{}, NewNotFoundError()
		}
		return database.Idea{}, NewInternalServerError(err)
	}

	if errResp := s.requireIssueAccess(r, idea.IssueId); errResp != nil {
		return database.Idea{}, errResp
	}

	return idea, nil
}

func topicFromModel(dbTopic database.Topic) types.Topic {
	return types.Topic{
		Id:         dbTopic.Id,
		ExternalId: dbTopic.ExternalId,
		Title:      dbTopic.Title,
		OwnerId:    dbTopic.OwnerId,
		CreatedAt:  dbTopic.CreatedAt,
		UpdatedAt:  dbTopic.UpdatedAt,
	}
}

func categoryFromModel(dbCategory database.Category) types.Category {
	return types.Category{
		Id:        dbCategory.Id,
		IssueId:   dbCategory.IssueId,
		Name:      dbCategory.Name,
		Position:  dbCategory.Position,
		CreatedAt: dbCategory.CreatedAt,
		UpdatedAt: dbCategory.UpdatedAt,
	}
}

func ideaFromModel(dbIdea database.Idea) types.Idea {
	idea := types.Idea{
		Id:            dbIdea.Id,
		IssueId:       dbIdea.IssueId,
		AuthorId:      dbIdea.AuthorId,
		Content:       dbIdea.Content,
		Selected:      dbIdea.Selected,
		AgreeCount:    dbIdea.AgreeCount,
		DisagreeCount: dbIdea.DisagreeCount,
		CreatedAt:     dbIdea.CreatedAt,
		UpdatedAt:     dbIdea.UpdatedAt,
	}

	if dbIdea.CategoryId.Valid {
		idea.CategoryId = int(dbIdea.CategoryId.Int64)
	}

	return idea
}

func reportFromModel(dbReport database.Report) types.Report {
	report := types.Report{
		Id:        dbReport.Id,
		IssueId:   dbReport.IssueId,
		CreatedAt: dbReport.CreatedAt,
	}

	if dbReport.SelectedIdeaId.Valid {
		report.SelectedIdeaId = int(dbReport.SelectedIdeaId.Int64)
	}
	if dbReport.Memo.Valid {
		report.Memo = dbReport.Memo.String
	}

	return report
}
