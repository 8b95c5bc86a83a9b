// internal/matching/service.go

package matching

import (
	"context"
	"errors"
	"fmt"

	"github.com/peerlink/peerlink-backend/internal/common/utils"
	"github.com/peerlink/peerlink-backend/internal/profile"
)

var (
	ErrSeekerNotFound    = errors.New("seeker has no matching-eligible profile")
	ErrTargetNotFound    = errors.New("target profile not found")
	ErrInvalidFilter     = errors.New("invalid match filters")
	ErrCannotConnectSelf = errors.New("cannot record a connection to yourself")
	ErrStoreUnavailable  = errors.New("profile store unavailable")
)

// Service is the engine's boundary toward the API layer
type Service interface {
	FindMatches(ctx context.Context, seekerID int64, filters *MatchFilters, limit int) (*MatchResult, error)
	GetCompatibility(ctx context.Context, seekerID, targetID int64) (*CompatibilityResult, error)
	RecordConnection(ctx context.Context, seekerID int64, dto *RecordConnectionDTO) (*profile.Connection, error)
	BlockPeer(ctx context.Context, seekerID, peerID int64) error
}

type service struct {
	store        profile.Store
	orchestrator *Orchestrator
	scorer       *DeterministicScorer
	defaultLimit int
	minScore     float64
}

// NewService creates the matching service. The orchestrator carries the
// injected reasoning client (or none); this layer owns validation and the
// error taxonomy.
func NewService(store profile.Store, orchestrator *Orchestrator, scorer *DeterministicScorer, defaultLimit int, minScore float64) Service {
	if defaultLimit < 1 {
		defaultLimit = 10
	}
	return &service{
		store:        store,
		orchestrator: orchestrator,
		scorer:       scorer,
		defaultLimit: defaultLimit,
		minScore:     minScore,
	}
}

func (s *service) FindMatches(ctx context.Context, seekerID int64, filters *MatchFilters, limit int) (*MatchResult, error) {
	if filters == nil {
		filters = &MatchFilters{}
	}

	// Filters are rejected before any scoring work begins
	if err := validateFilters(filters); err != nil {
		recordRequest("invalid_filter")
		return nil, err
	}

	if filters.MinScore == 0 && s.minScore > 0 {
		filters.MinScore = s.minScore
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}

	result, err := s.orchestrator.FindMatches(ctx, seekerID, filters, limit)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) || errors.Is(err, profile.ErrUserNotFound) {
			recordRequest("not_found")
			return nil, ErrSeekerNotFound
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			recordRequest("cancelled")
			return nil, err
		}
		recordRequest("store_error")
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	recordRequest("ok")
	return result, nil
}

func (s *service) GetCompatibility(ctx context.Context, seekerID, targetID int64) (*CompatibilityResult, error) {
	seeker, err := s.store.GetProfileByUserID(ctx, seekerID)
	if err != nil {
		return nil, mapStoreError(err, ErrSeekerNotFound)
	}

	target, err := s.store.GetProfileByUserID(ctx, targetID)
	if err != nil {
		return nil, mapStoreError(err, ErrTargetNotFound)
	}

	seekerUser, err := s.store.GetUser(ctx, seekerID)
	if err != nil {
		return nil, mapStoreError(err, ErrSeekerNotFound)
	}

	targetUser, err := s.store.GetUser(ctx, targetID)
	if err != nil {
		return nil, mapStoreError(err, ErrTargetNotFound)
	}

	return s.scorer.Score(seeker, target, seekerUser, targetUser, seeker.Preferences.MaxDistanceKm), nil
}

func (s *service) RecordConnection(ctx context.Context, seekerID int64, dto *RecordConnectionDTO) (*profile.Connection, error) {
	if err := utils.ValidateStruct(dto); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	if dto.TargetUserID == seekerID {
		return nil, ErrCannotConnectSelf
	}

	// Target must exist; its own ledger is untouched - the relation is
	// asymmetric, each profile keeps its own history.
	if _, err := s.store.GetProfileByUserID(ctx, dto.TargetUserID); err != nil {
		return nil, mapStoreError(err, ErrTargetNotFound)
	}

	conn, err := s.store.UpsertConnection(ctx, seekerID, dto.TargetUserID, dto.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	recordConnection(dto.Type)
	return conn, nil
}

func (s *service) BlockPeer(ctx context.Context, seekerID, peerID int64) error {
	if peerID == seekerID {
		return ErrCannotConnectSelf
	}

	if err := s.store.SetConnectionStatus(ctx, seekerID, peerID, profile.StatusBlocked); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	recordConnection("blocked")
	return nil
}

func validateFilters(filters *MatchFilters) error {
	if filters.MaxDistanceKm < 0 {
		return fmt.Errorf("%w: max distance cannot be negative", ErrInvalidFilter)
	}
	if filters.MinScore < 0 || filters.MinScore > 100 {
		return fmt.Errorf("%w: min score must be within [0,100]", ErrInvalidFilter)
	}
	if filters.MinAge < 0 || filters.MaxAge < 0 {
		return fmt.Errorf("%w: age bounds cannot be negative", ErrInvalidFilter)
	}
	if filters.MinAge > 0 && filters.MaxAge > 0 && filters.MinAge > filters.MaxAge {
		return fmt.Errorf("%w: min age exceeds max age", ErrInvalidFilter)
	}
	if err := utils.ValidateStruct(filters); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return nil
}

func mapStoreError(err error, notFound error) error {
	if errors.Is(err, profile.ErrProfileNotFound) || errors.Is(err, profile.ErrUserNotFound) {
		return notFound
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
