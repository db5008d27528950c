// Package httpapi exposes the service contracts over JSON HTTP. No store
// access happens here; handlers decode input, call a service, and encode
// the confirmed result.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/predictionbingo/backend/internal/auth"
	"github.com/predictionbingo/backend/internal/bingo"
	"github.com/predictionbingo/backend/internal/middleware"
	"github.com/predictionbingo/backend/internal/models"
	"github.com/predictionbingo/backend/internal/service"
)

// Handlers bundles the services behind the HTTP surface.
type Handlers struct {
	identity    *auth.Identity
	groups      *service.GroupService
	predictions *service.PredictionService
	cards       *service.CardService
}

// NewHandlers creates the handler set.
func NewHandlers(identity *auth.Identity, groups *service.GroupService, predictions *service.PredictionService, cards *service.CardService) *Handlers {
	return &Handlers{
		identity:    identity,
		groups:      groups,
		predictions: predictions,
		cards:       cards,
	}
}

type groupDTO struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	OrganizerUsername  string `json:"organizer_username"`
	Status             string `json:"status"`
	IsLocked           bool   `json:"is_locked"`
	SubmissionDeadline int64  `json:"submission_deadline,omitempty"`
	CreatedAt          int64  `json:"created_at"`
}

func toGroupDTO(g *models.Group) groupDTO {
	return groupDTO{
		ID:                 g.ID,
		Name:               g.Name,
		OrganizerUsername:  g.OrganizerUsername,
		Status:             string(g.Status),
		IsLocked:           g.IsLocked,
		SubmissionDeadline: g.SubmissionDeadline,
		CreatedAt:          g.CreatedAt,
	}
}

type commentDTO struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}

type predictionDTO struct {
	ID            string       `json:"id"`
	Username      string       `json:"username"`
	Content       string       `json:"content"`
	ReviewStatus  string       `json:"review_status,omitempty"`
	IsCurrentUser bool         `json:"is_current_user"`
	Comments      []commentDTO `json:"comments,omitempty"`
}

type cellDTO struct {
	Type         string `json:"type"`
	Content      string `json:"content"`
	PredictionID string `json:"prediction_id,omitempty"`
	SubmittedBy  string `json:"submitted_by,omitempty"`
	Color        string `json:"color,omitempty"`
	Completed    bool   `json:"completed"`
}

// SignIn issues a session token for a self-asserted username.
func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.identity.SignIn(r.Context(), req.Username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Token    string `json:"token"`
		Username string `json:"username"`
	}{Token: token, Username: req.Username})
}

// CreateGroup creates a group with the caller as organizer.
func (h *Handlers) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name               string `json:"name"`
		SubmissionDeadline int64  `json:"submission_deadline"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	group, err := h.groups.Create(r.Context(), req.Name, middleware.GetUsername(r.Context()), req.SubmissionDeadline)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toGroupDTO(group))
}

// Dashboard returns the caller-relative group summary.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.groups.Dashboard(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUsername(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	type memberDTO struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	members := make([]memberDTO, len(dashboard.Members))
	for i, m := range dashboard.Members {
		members[i] = memberDTO{Username: m.Username, Role: string(m.Role)}
	}

	writeJSON(w, http.StatusOK, struct {
		Group           groupDTO    `json:"group"`
		Members         []memberDTO `json:"members"`
		MemberCount     int         `json:"member_count"`
		PredictionCount int         `json:"prediction_count"`
		IsAdmin         bool        `json:"is_admin"`
	}{
		Group:           toGroupDTO(dashboard.Group),
		Members:         members,
		MemberCount:     dashboard.MemberCount,
		PredictionCount: dashboard.PredictionCount,
		IsAdmin:         dashboard.IsAdmin,
	})
}

// Join adds the caller to the group roster. Joining twice is not an error;
// the response flags it and the client redirects the same way.
func (h *Handlers) Join(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	already, err := h.groups.Join(r.Context(), groupID, middleware.GetUsername(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		GroupID       string `json:"group_id"`
		AlreadyMember bool   `json:"already_member"`
	}{GroupID: groupID, AlreadyMember: already})
}

// ToggleLock flips the group lock.
func (h *Handlers) ToggleLock(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.ToggleLock(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUsername(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupDTO(group))
}

// Advance moves the group to a target phase.
func (h *Handlers) Advance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Target string `json:"target"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	group, err := h.groups.AdvancePhase(r.Context(), chi.URLParam(r, "groupID"), models.Status(req.Target), middleware.GetUsername(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupDTO(group))
}

// Submit replaces the caller's prediction set.
func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Predictions []string `json:"predictions"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.predictions.Submit(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUsername(r.Context()), req.Predictions)
	if err != nil {
		writeError(w, err)
		return
	}

	dtos := make([]predictionDTO, len(result.Predictions))
	for i, p := range result.Predictions {
		dtos[i] = predictionDTO{
			ID:            p.ID,
			Username:      p.Username,
			Content:       p.Content,
			IsCurrentUser: true,
		}
	}

	writeJSON(w, http.StatusCreated, struct {
		Predictions   []predictionDTO `json:"predictions"`
		AutoActivated bool            `json:"auto_activated"`
	}{Predictions: dtos, AutoActivated: result.AutoActivated})
}

// ListPredictions returns the group's predictions annotated for the caller.
func (h *Handlers) ListPredictions(w http.ResponseWriter, r *http.Request) {
	views, err := h.predictions.List(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUsername(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	dtos := make([]predictionDTO, len(views))
	for i, v := range views {
		dto := predictionDTO{
			ID:            v.ID,
			Username:      v.Username,
			Content:       v.Content,
			ReviewStatus:  string(v.ReviewStatus),
			IsCurrentUser: v.IsCurrentUser,
		}
		for _, c := range v.Comments {
			dto.Comments = append(dto.Comments, commentDTO{
				ID:        c.ID,
				Username:  c.Username,
				Content:   c.Content,
				CreatedAt: c.CreatedAt,
			})
		}
		dtos[i] = dto
	}

	writeJSON(w, http.StatusOK, struct {
		Predictions []predictionDTO `json:"predictions"`
	}{Predictions: dtos})
}

// Review records an approve/reject verdict on a prediction.
func (h *Handlers) Review(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Verdict string `json:"verdict"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.predictions.SetReviewStatus(r.Context(), chi.URLParam(r, "predictionID"), models.ReviewStatus(req.Verdict), middleware.GetUsername(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		PredictionID string `json:"prediction_id"`
		Verdict      string `json:"verdict"`
	}{PredictionID: chi.URLParam(r, "predictionID"), Verdict: req.Verdict})
}

// AddComment posts review discussion on a prediction.
func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.predictions.AddComment(r.Context(), chi.URLParam(r, "predictionID"), middleware.GetUsername(r.Context()), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, commentDTO{
		ID:        comment.ID,
		Username:  comment.Username,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	})
}

// FinishReview closes the review phase and activates the group.
func (h *Handlers) FinishReview(w http.ResponseWriter, r *http.Request) {
	group, err := h.predictions.FinishReview(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUsername(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupDTO(group))
}

// Card generates and returns the caller's view of the bingo card.
func (h *Handlers) Card(w http.ResponseWriter, r *http.Request) {
	result, err := h.cards.Card(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUsername(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	cells := make([]cellDTO, len(result.Card.Cells))
	for i, c := range result.Card.Cells {
		cells[i] = cellDTO{
			Type:         string(c.Type),
			Content:      c.Content,
			PredictionID: c.PredictionID,
			SubmittedBy:  c.SubmittedBy,
			Color:        c.Color,
			Completed:    c.Completed,
		}
	}

	writeJSON(w, http.StatusOK, struct {
		Group  groupDTO          `json:"group"`
		Cells  []cellDTO         `json:"cells"`
		Colors map[string]string `json:"colors"`
	}{
		Group:  toGroupDTO(result.Group),
		Cells:  cells,
		Colors: result.Card.Colors.Colors,
	})
}

// ToggleMark flips the shared completed flag on a prediction cell.
func (h *Handlers) ToggleMark(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PredictionID string `json:"prediction_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	completed, err := h.cards.Toggle(r.Context(), chi.URLParam(r, "groupID"), req.PredictionID, middleware.GetUsername(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		PredictionID string `json:"prediction_id"`
		Completed    bool   `json:"completed"`
	}{PredictionID: req.PredictionID, Completed: completed})
}

// RecentGroups applies a visit to the client-held recent-groups list and
// returns the updated list for the client to persist. Purely advisory.
func (h *Handlers) RecentGroups(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Recent  auth.RecentGroups `json:"recent"`
		GroupID string            `json:"group_id"`
		Name    string            `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.GroupID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "group_id required", Kind: service.KindValidation})
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Recent auth.RecentGroups `json:"recent"`
	}{Recent: req.Recent.Visit(req.GroupID, req.Name)})
}

// Healthz reports liveness.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Palette exposes the color legend order so clients can render consistent
// styling for any submitter.
func (h *Handlers) Palette(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Palette []string `json:"palette"`
	}{Palette: bingo.Palette})
}
