package service

import (
	"context"
	"strings"
	"testing"

	"github.com/predictionbingo/backend/internal/models"
)

func TestSubmitReplacesEntireSet(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	group := mustCreateGroup(t, svc, "alice")

	// Keep another member around so submission never completes coverage.
	if _, err := svc.groups.Join(ctx, group.ID, "bob"); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	first, err := svc.predictions.Submit(ctx, group.ID, "alice", []string{"one", "two", "three"})
	if err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}
	if len(first.Predictions) != 3 {
		t.Fatalf("expected 3 predictions, got %d", len(first.Predictions))
	}

	second, err := svc.predictions.Submit(ctx, group.ID, "alice", []string{"four", "five"})
	if err != nil {
		t.Fatalf("second Submit failed: %v", err)
	}
	if len(second.Predictions) != 2 {
		t.Fatalf("expected 2 predictions after replacement, got %d", len(second.Predictions))
	}

	views, err := svc.predictions.List(ctx, group.ID, "alice")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 stored predictions, got %d", len(views))
	}
	for _, v := range views {
		if v.Content != "four" && v.Content != "five" {
			t.Errorf("unexpected surviving prediction %q", v.Content)
		}
		if !v.IsCurrentUser {
			t.Error("alice's own predictions should be flagged IsCurrentUser")
		}
	}
}

func TestSubmitIsIdempotent(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	group := mustCreateGroup(t, svc, "alice")

	if _, err := svc.groups.Join(ctx, group.ID, "bob"); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	contents := []string{"one", "two", "three", "four", "five"}
	for i := 0; i < 3; i++ {
		result, err := svc.predictions.Submit(ctx, group.ID, "alice", contents)
		if err != nil {
			t.Fatalf("Submit attempt %d failed: %v", i, err)
		}
		if len(result.Predictions) != len(contents) {
			t.Fatalf("attempt %d: got %d predictions, want %d", i, len(result.Predictions), len(contents))
		}
	}
}

func TestSubmitQuota(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	group := mustCreateGroup(t, svc, "alice")

	if _, err := svc.groups.Join(ctx, group.ID, "bob"); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	six := []string{"a", "b", "c", "d", "e", "f"}
	_, err := svc.predictions.Submit(ctx, group.ID, "alice", six)
	wantKind(t, err, KindQuotaExceeded)

	// The quota applies to the replacement set, not the sum with what is
	// already stored: a full set can still be resubmitted.
	five := six[:models.MaxPredictionsPerUser]
	if _, err := svc.predictions.Submit(ctx, group.ID, "alice", five); err != nil {
		t.Fatalf("Submit of full set failed: %v", err)
	}
	if _, err := svc.predictions.Submit(ctx, group.ID, "alice", five); err != nil {
		t.Fatalf("resubmit of full set failed: %v", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	group := mustCreateGroup(t, svc, "alice")

	cases := []struct {
		name     string
		contents []string
		kind     Kind
	}{
		{"no predictions", nil, KindValidation},
		{"blank prediction", []string{"ok", "   "}, KindValidation},
		{"over length", []string{strings.Repeat("x", models.MaxPredictionLength+1)}, KindValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.predictions.Submit(ctx, group.ID, "alice", tc.contents)
			wantKind(t, err, tc.kind)
		})
	}

	// Exactly at the limit is fine.
	if _, err := svc.predictions.Submit(ctx, group.ID, "alice", []string{strings.Repeat("x", models.MaxPredictionLength)}); err != nil {
		t.Fatalf("Submit at length limit failed: %v", err)
	}
}

func TestSubmitRequiresMembership(t *testing.T) {
	svc := newTestServices(t)
	group := mustCreateGroup(t, svc, "alice")

	_, err := svc.predictions.Submit(context.Background(), group.ID, "outsider", []string{"claim"})
	wantKind(t, err, KindNotFound)
}

func TestSubmitClosedPhase(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	group := mustCreateGroup(t, svc, "alice")

	if _, err := svc.groups.AdvancePhase(ctx, group.ID, models.StatusReview, "alice"); err != nil {
		t.Fatalf("AdvancePhase failed: %v", err)
	}

	_, err := svc.predictions.Submit(ctx, group.ID, "alice", []string{"too late"})
	wantKind(t, err, KindPhaseClosed)
}

func TestSubmitAutoActivates(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	group := mustCreateGroup(t, svc, "alice")

	for _, member := range []string{"bob", "carol"} {
		if _, err := svc.groups.Join(ctx, group.ID, member); err != nil {
			t.Fatalf("Join %s failed: %v", member, err)
		}
	}

	for _, member := range []string{"alice", "bob"} {
		result, err := svc.predictions.Submit(ctx, group.ID, member, []string{member + " prediction"})
		if err != nil {
			t.Fatalf("Submit by %s failed: %v", member, err)
		}
		if result.AutoActivated {
			t.Errorf("group activated before full coverage (after %s)", member)
		}
	}

	result, err := svc.predictions.Submit(ctx, group.ID, "carol", []string{"carol prediction"})
	if err != nil {
		t.Fatalf("Submit by carol failed: %v", err)
	}
	if !result.AutoActivated {
		t.Error("expected auto-activation after the last member submitted")
	}

	dash, err := svc.groups.Dashboard(ctx, group.ID, "alice")
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if dash.Group.Status != models.StatusActive {
		t.Errorf("group status = %s, want active", dash.Group.Status)
	}
}

func TestReviewWorkflow(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	group := mustCreateGroup(t, svc, "alice")

	if _, err := svc.groups.Join(ctx, group.ID, "bob"); err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if _, err := svc.predictions.Submit(ctx, group.ID, "bob", []string{"plausible", "outrageous"}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := svc.groups.AdvancePhase(ctx, group.ID, models.StatusReview, "alice"); err != nil {
		t.Fatalf("advance to review failed: %v", err)
	}

	views, err := svc.predictions.List(ctx, group.ID, "alice")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(views))
	}

	// Review cannot close while verdicts are pending.
	_, err = svc.predictions.FinishReview(ctx, group.ID, "alice")
	wantKind(t, err, KindValidation)

	// Non-admins cannot issue verdicts.
	if err := svc.predictions.SetReviewStatus(ctx, views[0].ID, models.ReviewApproved, "bob"); err == nil {
		t.Error("expected non-admin verdict to fail")
	}

	if err := svc.predictions.SetReviewStatus(ctx, views[0].ID, models.ReviewApproved, "alice"); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if err := svc.predictions.SetReviewStatus(ctx, views[1].ID, models.ReviewRejected, "alice"); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	// Any member may comment during review.
	comment, err := svc.predictions.AddComment(ctx, views[1].ID, "bob", "worth a shot")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if comment.ID == "" {
		t.Error("expected comment ID to be set")
	}

	// Comment threads ride along on listings during review.
	views, err = svc.predictions.List(ctx, group.ID, "bob")
	if err != nil {
		t.Fatalf("List during review failed: %v", err)
	}
	var commented bool
	for _, v := range views {
		if v.ID == comment.PredictionID && len(v.Comments) == 1 {
			commented = true
		}
	}
	if !commented {
		t.Error("expected comment attached to its prediction view")
	}

	updated, err := svc.predictions.FinishReview(ctx, group.ID, "alice")
	if err != nil {
		t.Fatalf("FinishReview failed: %v", err)
	}
	if updated.Status != models.StatusActive {
		t.Errorf("status after review = %s, want active", updated.Status)
	}
}

func TestSetReviewStatusRejectsBadVerdict(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	group := mustCreateGroup(t, svc, "alice")

	if _, err := svc.predictions.Submit(ctx, group.ID, "alice", []string{"claim"}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	views, err := svc.predictions.List(ctx, group.ID, "alice")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	err = svc.predictions.SetReviewStatus(ctx, views[0].ID, models.ReviewPending, "alice")
	wantKind(t, err, KindValidation)
}

func TestCommentOutsideReviewPhase(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	group := mustCreateGroup(t, svc, "alice")

	if _, err := svc.groups.Join(ctx, group.ID, "bob"); err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if _, err := svc.predictions.Submit(ctx, group.ID, "bob", []string{"claim"}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	views, err := svc.predictions.List(ctx, group.ID, "bob")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	_, err = svc.predictions.AddComment(ctx, views[0].ID, "bob", "nice one")
	wantKind(t, err, KindPhaseClosed)
}
