package service

import (
	"context"
	"log/slog"

	"github.com/predictionbingo/backend/internal/bingo"
	"github.com/predictionbingo/backend/internal/models"
	"github.com/predictionbingo/backend/internal/storage"
)

// CardService derives bingo cards from the stored prediction pool and owns
// the shared completion marks.
type CardService struct {
	store storage.Store
}

// NewCardService creates a new CardService with the given storage backend.
func NewCardService(store storage.Store) *CardService {
	return &CardService{store: store}
}

// CardResult is a freshly generated card plus the group it belongs to.
type CardResult struct {
	Group *models.Group
	Card  bingo.Card
}

// Card loads the group's predictions and completion marks and generates a
// card. Cell layout reshuffles on every call; only per-submitter colors and
// completion flags are stable between calls.
func (s *CardService) Card(ctx context.Context, groupID, caller string) (*CardResult, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, storeErr("failed to load group", err)
	}

	entries, err := s.gridEntries(ctx, groupID)
	if err != nil {
		return nil, err
	}

	completed, err := s.LoadCompletion(ctx, groupID)
	if err != nil {
		return nil, err
	}

	card := bingo.Generate(entries, completed)
	if len(card.Colors.Collisions) > 0 {
		slog.Warn("Palette exhausted, colors reused",
			"group_id", groupID,
			"collisions", card.Colors.Collisions,
		)
	}

	return &CardResult{Group: group, Card: card}, nil
}

// Toggle flips the shared completed mark on a prediction cell. The returned
// flag is the state after the flip. Two members toggling the same cell at
// nearly the same moment race at the store; whichever write lands last wins,
// which is acceptable for a casual game.
func (s *CardService) Toggle(ctx context.Context, groupID, predictionID, actor string) (completed bool, err error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return false, storeErr("failed to load group", err)
	}

	if _, err := s.store.GetMember(ctx, groupID, actor); err != nil {
		return false, storeErr("caller is not a member of the group", err)
	}

	prediction, err := s.store.GetPrediction(ctx, predictionID)
	if err != nil {
		return false, storeErr("failed to load prediction", err)
	}
	if prediction.GroupID != groupID {
		return false, errf(KindNotFound, "prediction %s is not part of group %s", predictionID, groupID)
	}
	if prediction.ReviewStatus == models.ReviewRejected {
		// Rejected predictions never appear on the card, so they cannot be
		// marked either.
		return false, errf(KindValidation, "prediction %s was rejected in review", predictionID)
	}

	marks, err := s.store.ListMarks(ctx, groupID)
	if err != nil {
		return false, storeErr("failed to list marks", err)
	}
	for _, m := range marks {
		if m.PredictionID == predictionID {
			if err := s.store.RemoveMark(ctx, groupID, predictionID); err != nil {
				return false, storeErr("failed to remove mark", err)
			}
			slog.Info("Mark removed", "group_id", groupID, "prediction_id", predictionID, "actor", actor)
			return false, nil
		}
	}

	mark := &models.CompletedMark{
		GroupID:      groupID,
		PredictionID: predictionID,
		MarkedBy:     actor,
	}
	if err := s.store.AddMark(ctx, mark); err != nil {
		if !isDuplicate(err) {
			return false, storeErr("failed to add mark", err)
		}
		// Someone marked it between our read and write; same outcome.
	}

	slog.Info("Mark added", "group_id", groupID, "prediction_id", predictionID, "actor", actor)
	return true, nil
}

// LoadCompletion returns the set of completed prediction IDs for a group,
// used to rehydrate the generator's completed flags on each load.
func (s *CardService) LoadCompletion(ctx context.Context, groupID string) (map[string]bool, error) {
	marks, err := s.store.ListMarks(ctx, groupID)
	if err != nil {
		return nil, storeErr("failed to list marks", err)
	}

	completed := make(map[string]bool, len(marks))
	for _, m := range marks {
		completed[m.PredictionID] = true
	}
	return completed, nil
}

// gridEntries converts the group's predictions into generator entries,
// dropping anything the organizer rejected during review.
func (s *CardService) gridEntries(ctx context.Context, groupID string) ([]bingo.Entry, error) {
	predictions, err := s.store.ListPredictions(ctx, groupID)
	if err != nil {
		return nil, storeErr("failed to list predictions", err)
	}

	entries := make([]bingo.Entry, 0, len(predictions))
	for _, p := range predictions {
		if p.ReviewStatus == models.ReviewRejected {
			continue
		}
		entries = append(entries, bingo.Entry{
			ID:          p.ID,
			Content:     p.Content,
			SubmittedBy: p.Username,
		})
	}
	return entries, nil
}
