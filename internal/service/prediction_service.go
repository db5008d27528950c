package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/predictionbingo/backend/internal/models"
	"github.com/predictionbingo/backend/internal/storage"
)

// PredictionService accepts and edits prediction sets and runs the optional
// review workflow. Submission is always a full replacement of the user's
// set, never a partial patch.
type PredictionService struct {
	store  storage.Store
	groups *GroupService
}

// NewPredictionService creates a new PredictionService. It needs the
// GroupService because full submission coverage auto-advances the group.
func NewPredictionService(store storage.Store, groups *GroupService) *PredictionService {
	return &PredictionService{store: store, groups: groups}
}

// SubmitResult reports the outcome of a submission.
type SubmitResult struct {
	Predictions []models.Prediction

	// AutoActivated is true when this submission completed coverage and the
	// group moved to the active phase.
	AutoActivated bool
}

// PredictionView is a prediction annotated relative to the caller.
type PredictionView struct {
	models.Prediction
	IsCurrentUser bool
	Comments      []models.Comment
}

// Submit replaces the user's prediction set with contents. Validation and
// policy checks run before any store write; the delete-then-reinsert pair is
// not atomic, but re-running the same submission converges on the same final
// set, so a failure in between is safe to retry.
func (s *PredictionService) Submit(ctx context.Context, groupID, username string, contents []string) (*SubmitResult, error) {
	slog.Info("Submit request", "group_id", groupID, "username", username, "count", len(contents))

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, storeErr("failed to load group", err)
	}
	if group.Status != models.StatusSubmission {
		return nil, errf(KindPhaseClosed, "group %s is no longer accepting predictions", groupID)
	}

	if _, err := s.store.GetMember(ctx, groupID, username); err != nil {
		return nil, storeErr("caller is not a member of the group", err)
	}

	if len(contents) == 0 {
		return nil, errf(KindValidation, "at least one prediction is required")
	}
	if len(contents) > models.MaxPredictionsPerUser {
		return nil, errf(KindQuotaExceeded, "at most %d predictions per user, got %d", models.MaxPredictionsPerUser, len(contents))
	}

	trimmed := make([]string, 0, len(contents))
	for _, content := range contents {
		content = strings.TrimSpace(content)
		if content == "" {
			return nil, errf(KindValidation, "predictions must not be empty")
		}
		if len(content) > models.MaxPredictionLength {
			return nil, errf(KindValidation, "predictions must be %d characters or less", models.MaxPredictionLength)
		}
		trimmed = append(trimmed, content)
	}

	// Replace, never merge: drop the previous set, then insert the new one.
	if err := s.store.DeletePredictions(ctx, groupID, username); err != nil {
		return nil, storeErr("failed to delete previous predictions", err)
	}

	predictions := make([]models.Prediction, len(trimmed))
	for i, content := range trimmed {
		predictions[i] = models.Prediction{
			GroupID:  groupID,
			Username: username,
			Content:  content,
		}
	}
	if err := s.store.CreatePredictions(ctx, predictions); err != nil {
		return nil, storeErr("failed to insert predictions", err)
	}

	result := &SubmitResult{Predictions: predictions}

	// Coverage gate: once every member has submitted, the group goes live
	// without waiting on a timer or an organizer action.
	covered, err := s.groups.submissionCoverage(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if covered {
		if _, err := s.groups.advance(ctx, groupID, models.StatusActive); err != nil {
			return nil, err
		}
		result.AutoActivated = true
		slog.Info("Group auto-activated after full coverage", "group_id", groupID)
	}

	return result, nil
}

// List returns every prediction in the group annotated with IsCurrentUser
// for the caller. During review, each view also carries its comment thread.
func (s *PredictionService) List(ctx context.Context, groupID, caller string) ([]PredictionView, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, storeErr("failed to load group", err)
	}

	predictions, err := s.store.ListPredictions(ctx, groupID)
	if err != nil {
		return nil, storeErr("failed to list predictions", err)
	}

	views := make([]PredictionView, len(predictions))
	for i, p := range predictions {
		views[i] = PredictionView{
			Prediction:    p,
			IsCurrentUser: p.Username == caller,
		}
		if group.Status == models.StatusReview {
			comments, err := s.store.ListComments(ctx, p.ID)
			if err != nil {
				return nil, storeErr("failed to list comments", err)
			}
			views[i].Comments = comments
		}
	}

	return views, nil
}

// SetReviewStatus records the organizer's verdict on one prediction.
func (s *PredictionService) SetReviewStatus(ctx context.Context, predictionID string, verdict models.ReviewStatus, actor string) error {
	if verdict != models.ReviewApproved && verdict != models.ReviewRejected {
		return errf(KindValidation, "verdict must be approved or rejected, got %q", verdict)
	}

	prediction, err := s.store.GetPrediction(ctx, predictionID)
	if err != nil {
		return storeErr("failed to load prediction", err)
	}

	group, err := s.store.GetGroup(ctx, prediction.GroupID)
	if err != nil {
		return storeErr("failed to load group", err)
	}
	if group.Status != models.StatusReview {
		return errf(KindPhaseClosed, "group %s is not in review", group.ID)
	}

	if err := s.groups.requireAdmin(ctx, group.ID, actor); err != nil {
		return err
	}

	if err := s.store.UpdatePredictionReview(ctx, predictionID, verdict); err != nil {
		return storeErr("failed to update review status", err)
	}

	slog.Info("Prediction reviewed", "prediction_id", predictionID, "verdict", verdict, "actor", actor)
	return nil
}

// AddComment attaches review discussion to a prediction. Any member may
// comment while the group is in review.
func (s *PredictionService) AddComment(ctx context.Context, predictionID, actor, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errf(KindValidation, "comment must not be empty")
	}

	prediction, err := s.store.GetPrediction(ctx, predictionID)
	if err != nil {
		return nil, storeErr("failed to load prediction", err)
	}

	group, err := s.store.GetGroup(ctx, prediction.GroupID)
	if err != nil {
		return nil, storeErr("failed to load group", err)
	}
	if group.Status != models.StatusReview {
		return nil, errf(KindPhaseClosed, "group %s is not in review", group.ID)
	}

	if _, err := s.store.GetMember(ctx, group.ID, actor); err != nil {
		return nil, storeErr("caller is not a member of the group", err)
	}

	comment := &models.Comment{
		PredictionID: predictionID,
		Username:     actor,
		Content:      content,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, storeErr("failed to create comment", err)
	}

	return comment, nil
}

// FinishReview closes the review phase. Every prediction must carry a
// verdict first; the group then moves to active.
func (s *PredictionService) FinishReview(ctx context.Context, groupID, actor string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, storeErr("failed to load group", err)
	}
	if group.Status != models.StatusReview {
		return nil, errf(KindPhaseClosed, "group %s is not in review", groupID)
	}

	if err := s.groups.requireAdmin(ctx, groupID, actor); err != nil {
		return nil, err
	}

	predictions, err := s.store.ListPredictions(ctx, groupID)
	if err != nil {
		return nil, storeErr("failed to list predictions", err)
	}
	for _, p := range predictions {
		if p.ReviewStatus == models.ReviewPending {
			return nil, errf(KindValidation, "all predictions must be approved or rejected before finishing review")
		}
	}

	return s.groups.advance(ctx, groupID, models.StatusActive)
}
