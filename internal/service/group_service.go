package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/predictionbingo/backend/internal/models"
	"github.com/predictionbingo/backend/internal/storage"
)

// GroupService owns the group lifecycle: creation, the membership roster,
// the lock flag, and phase transitions.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// Dashboard is the per-caller summary of a group.
type Dashboard struct {
	Group           *models.Group
	Members         []models.Member
	MemberCount     int
	PredictionCount int
	IsAdmin         bool
}

// Create creates a group in the submission phase and enrolls the organizer
// as its admin member. The two inserts are not atomic: if the membership
// insert fails the group is left organizer-less and the caller should retry,
// which is safe because AddMember is idempotent under its unique constraint.
func (s *GroupService) Create(ctx context.Context, name, organizer string, deadline int64) (*models.Group, error) {
	slog.Info("Create group request", "name", name, "organizer", organizer)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errf(KindValidation, "group name must not be empty")
	}
	if organizer == "" {
		return nil, errf(KindValidation, "organizer username required")
	}
	if deadline != 0 && deadline < time.Now().Unix() {
		return nil, errf(KindValidation, "submission deadline is in the past")
	}

	if err := s.store.EnsureUser(ctx, organizer); err != nil {
		return nil, storeErr("failed to ensure organizer user", err)
	}

	group := &models.Group{
		Name:               name,
		OrganizerUsername:  organizer,
		Status:             models.StatusSubmission,
		IsLocked:           false,
		SubmissionDeadline: deadline,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, storeErr("failed to create group", err)
	}

	member := &models.Member{
		GroupID:  group.ID,
		Username: organizer,
		Role:     models.RoleAdmin,
	}
	if err := s.store.AddMember(ctx, member); err != nil && !isDuplicate(err) {
		slog.Error("Group left without organizer member", "group_id", group.ID, "error", err)
		return nil, storeErr("failed to enroll organizer", err)
	}

	slog.Info("Group created", "group_id", group.ID, "organizer", organizer)
	return group, nil
}

// Join adds a user to a group's roster. Joining a group the user already
// belongs to is reported via the returned flag, not as an error; the caller
// path simply redirects to the group.
func (s *GroupService) Join(ctx context.Context, groupID, username string) (alreadyMember bool, err error) {
	slog.Info("Join request", "group_id", groupID, "username", username)

	if username == "" {
		return false, errf(KindValidation, "username required")
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return false, storeErr("failed to load group", err)
	}

	if group.IsLocked {
		return false, errf(KindGroupLocked, "group %s is locked", groupID)
	}
	if group.Status != models.StatusSubmission {
		return false, errf(KindPhaseClosed, "group %s is no longer accepting members", groupID)
	}
	if group.SubmissionDeadline != 0 && group.SubmissionDeadline < time.Now().Unix() {
		return false, errf(KindPhaseClosed, "submission deadline for group %s has passed", groupID)
	}

	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return false, storeErr("failed to list members", err)
	}
	for _, m := range members {
		if m.Username == username {
			return true, nil
		}
	}
	if len(members) >= models.MaxMembers {
		return false, errf(KindCapacityExceeded, "group %s is at capacity (%d members)", groupID, models.MaxMembers)
	}

	if err := s.store.EnsureUser(ctx, username); err != nil {
		return false, storeErr("failed to ensure user", err)
	}

	member := &models.Member{
		GroupID:  group.ID,
		Username: username,
		Role:     models.RoleMember,
	}
	if err := s.store.AddMember(ctx, member); err != nil {
		if isDuplicate(err) {
			// Raced with an identical join; same outcome.
			return true, nil
		}
		return false, storeErr("failed to add member", err)
	}

	slog.Info("Member joined", "group_id", groupID, "username", username)
	return false, nil
}

// ToggleLock flips the group's lock flag. Admin-only; locking has no effect
// on existing members.
func (s *GroupService) ToggleLock(ctx context.Context, groupID, actor string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, storeErr("failed to load group", err)
	}

	if err := s.requireAdmin(ctx, groupID, actor); err != nil {
		return nil, err
	}

	if err := s.store.UpdateGroupLock(ctx, groupID, !group.IsLocked); err != nil {
		return nil, storeErr("failed to update lock", err)
	}

	slog.Info("Group lock toggled", "group_id", groupID, "locked", !group.IsLocked, "actor", actor)

	// Re-read so the caller sees the store's confirmed state.
	updated, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, storeErr("failed to reload group", err)
	}
	return updated, nil
}

// AdvancePhase moves a group to the target status on behalf of an admin.
// All transition rules live here; no other code path changes Group.Status.
func (s *GroupService) AdvancePhase(ctx context.Context, groupID string, target models.Status, actor string) (*models.Group, error) {
	if err := s.requireAdmin(ctx, groupID, actor); err != nil {
		return nil, err
	}
	return s.advance(ctx, groupID, target)
}

// advance validates and applies a phase transition. It is also the entry
// point for the system-driven auto-transition after full submission
// coverage, which carries no acting user.
func (s *GroupService) advance(ctx context.Context, groupID string, target models.Status) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, storeErr("failed to load group", err)
	}

	if !target.Valid() {
		return nil, errf(KindValidation, "unknown status %q", target)
	}
	if !models.CanTransition(group.Status, target) {
		return nil, errf(KindInvalidTransition, "cannot move group from %s to %s", group.Status, target)
	}

	if target == models.StatusActive && group.Status == models.StatusSubmission {
		// Entering play straight from submission requires full coverage:
		// every member must have at least one prediction.
		covered, err := s.submissionCoverage(ctx, groupID)
		if err != nil {
			return nil, err
		}
		if !covered {
			return nil, errf(KindInvalidTransition, "not all members of group %s have submitted predictions", groupID)
		}
	}

	if err := s.store.UpdateGroupStatus(ctx, groupID, target); err != nil {
		return nil, storeErr("failed to update status", err)
	}

	slog.Info("Group advanced", "group_id", groupID, "from", group.Status, "to", target)

	updated, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, storeErr("failed to reload group", err)
	}
	return updated, nil
}

// Dashboard returns the caller-relative summary used by the group page.
func (s *GroupService) Dashboard(ctx context.Context, groupID, caller string) (*Dashboard, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, storeErr("failed to load group", err)
	}

	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, storeErr("failed to list members", err)
	}

	predictions, err := s.store.ListPredictions(ctx, groupID)
	if err != nil {
		return nil, storeErr("failed to list predictions", err)
	}

	d := &Dashboard{
		Group:       group,
		Members:     members,
		MemberCount: len(members),
	}
	for _, m := range members {
		if m.Username == caller && m.Role == models.RoleAdmin {
			d.IsAdmin = true
		}
	}
	for _, p := range predictions {
		if p.Username == caller {
			d.PredictionCount++
		}
	}

	return d, nil
}

// submissionCoverage reports whether every roster member has at least one
// prediction in the group.
func (s *GroupService) submissionCoverage(ctx context.Context, groupID string) (bool, error) {
	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return false, storeErr("failed to list members", err)
	}
	predictions, err := s.store.ListPredictions(ctx, groupID)
	if err != nil {
		return false, storeErr("failed to list predictions", err)
	}

	submitters := make(map[string]bool, len(predictions))
	for _, p := range predictions {
		submitters[p.Username] = true
	}
	for _, m := range members {
		if !submitters[m.Username] {
			return false, nil
		}
	}
	return len(members) > 0, nil
}

// requireAdmin fails unless actor is an admin member of the group.
func (s *GroupService) requireAdmin(ctx context.Context, groupID, actor string) error {
	member, err := s.store.GetMember(ctx, groupID, actor)
	if err != nil {
		return storeErr("failed to load member", err)
	}
	if member.Role != models.RoleAdmin {
		return errf(KindValidation, "user %s is not an admin of group %s", actor, groupID)
	}
	return nil
}
