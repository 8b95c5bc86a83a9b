// internal/matching/orchestrator.go
// Match Orchestrator: fans scoring jobs out over a bounded worker pool,
// falls back to the deterministic scorer per candidate, and produces a
// deterministic ranking. The whole request completes even if every
// assisted call fails or times out.

package matching

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/peerlink/peerlink-backend/internal/profile"
)

// Orchestrator runs the filter → score → rank pipeline for one seeker
type Orchestrator struct {
	store    profile.Store
	scorer   *DeterministicScorer
	assisted *AssistedScorer // nil disables the assisted path entirely
	workers  int
	poolCap  int
}

// NewOrchestrator wires the pipeline. workers bounds simultaneous scoring
// jobs; poolCap bounds the candidate pool fetched per request.
func NewOrchestrator(store profile.Store, scorer *DeterministicScorer, assisted *AssistedScorer, workers, poolCap int) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	if poolCap < 1 {
		poolCap = 500
	}
	return &Orchestrator{
		store:    store,
		scorer:   scorer,
		assisted: assisted,
		workers:  workers,
		poolCap:  poolCap,
	}
}

type scoredEntry struct {
	candidate *profile.MemberProfile
	user      *profile.User
	result    *CompatibilityResult
	method    string
}

// FindMatches returns the ranked, truncated match list for a seeker
func (o *Orchestrator) FindMatches(ctx context.Context, seekerID int64, filters *MatchFilters, limit int) (*MatchResult, error) {
	started := time.Now()

	seeker, err := o.store.GetProfileByUserID(ctx, seekerID)
	if err != nil {
		return nil, err
	}
	if !seeker.AvailableForMatching {
		return nil, profile.ErrProfileNotFound
	}

	seekerUser, err := o.store.GetUser(ctx, seekerID)
	if err != nil {
		return nil, err
	}

	pool, err := o.store.ListEligibleProfiles(ctx, &profile.ListCriteria{
		ExcludeUserID: seekerID,
		Limit:         o.poolCap,
	})
	if err != nil {
		return nil, err
	}

	userIDs := make([]int64, 0, len(pool))
	for _, candidate := range pool {
		userIDs = append(userIDs, candidate.UserID)
	}
	users, err := o.store.GetUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	eligible := FilterCandidates(seeker, seekerUser, pool, users, filters)

	entries := o.scoreAll(ctx, seeker, seekerUser, eligible, users, filters)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := o.rank(entries, filters, limit)
	result.TotalEligible = len(eligible)

	observeMatchRequest(time.Since(started), len(eligible))
	return result, nil
}

// scoreAll drains the eligible pool through a fixed worker budget. One
// goroutine per worker, never one per candidate, so a pool of thousands
// cannot open thousands of simultaneous outbound calls.
func (o *Orchestrator) scoreAll(
	ctx context.Context,
	seeker *profile.MemberProfile,
	seekerUser *profile.User,
	eligible []*profile.MemberProfile,
	users map[int64]*profile.User,
	filters *MatchFilters,
) []scoredEntry {
	jobs := make(chan *profile.MemberProfile)
	results := make(chan scoredEntry, len(eligible))

	maxDistance := filters.MaxDistanceKm
	if maxDistance <= 0 {
		maxDistance = seeker.Preferences.MaxDistanceKm
	}

	var wg sync.WaitGroup
	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for candidate := range jobs {
				results <- o.scoreOne(ctx, seeker, seekerUser, candidate, users[candidate.UserID], maxDistance)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, candidate := range eligible {
			select {
			case jobs <- candidate:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	close(results)

	entries := make([]scoredEntry, 0, len(eligible))
	for entry := range results {
		entries = append(entries, entry)
	}
	return entries
}

// scoreOne tries the assisted path and falls back deterministically on any
// error. The fallback is explicit in the returned method tag rather than
// swallowed, so callers and tests can assert which path ran.
func (o *Orchestrator) scoreOne(
	ctx context.Context,
	seeker *profile.MemberProfile,
	seekerUser *profile.User,
	candidate *profile.MemberProfile,
	candidateUser *profile.User,
	maxDistance float64,
) scoredEntry {
	if o.assisted != nil {
		result, err := o.assisted.Score(ctx, seeker, candidate, seekerUser, candidateUser)
		if err == nil {
			observeScore(result.Score, MethodAssisted)
			return scoredEntry{candidate: candidate, user: candidateUser, result: result, method: MethodAssisted}
		}
		if ctx.Err() == nil {
			log.Printf("assisted scoring degraded for candidate %d: %v", candidate.UserID, err)
		}
		recordFallback()
	}

	result := o.scorer.Score(seeker, candidate, seekerUser, candidateUser, maxDistance)
	observeScore(result.Score, MethodDeterministic)
	return scoredEntry{candidate: candidate, user: candidateUser, result: result, method: MethodDeterministic}
}

// rank is a pure function of the set of per-candidate scores: sort by score
// descending, ties broken by ascending distance then candidate ID, truncate.
func (o *Orchestrator) rank(entries []scoredEntry, filters *MatchFilters, limit int) *MatchResult {
	kept := entries[:0]
	degraded := 0
	for _, entry := range entries {
		if filters.MinScore > 0 && entry.result.Score < filters.MinScore {
			continue
		}
		if entry.method == MethodDeterministic && o.assisted != nil {
			degraded++
		}
		kept = append(kept, entry)
	}

	sort.Slice(kept, func(i, j int) bool {
		a, b := kept[i].result, kept[j].result
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if da, db := sortDistance(a), sortDistance(b); da != db {
			return da < db
		}
		return a.CandidateID < b.CandidateID
	})

	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}

	matches := make([]*RankedMatch, 0, len(kept))
	for _, entry := range kept {
		matches = append(matches, &RankedMatch{
			Candidate:       summarizeCandidate(entry.candidate, entry.user),
			Score:           entry.result.Score,
			Factors:         entry.result.Factors,
			Reasoning:       entry.result.Reasoning,
			Recommendations: entry.result.Recommendations,
			DistanceKm:      entry.result.DistanceKm,
			Method:          entry.method,
		})
	}

	return &MatchResult{Matches: matches, Degraded: degraded}
}

// sortDistance treats unknown distance as farther than any known one
func sortDistance(r *CompatibilityResult) float64 {
	if r.DistanceKm == nil {
		return 1e12
	}
	return *r.DistanceKm
}

func summarizeCandidate(p *profile.MemberProfile, u *profile.User) CandidateSummary {
	summary := CandidateSummary{
		UserID:             p.UserID,
		CommunicationStyle: p.CommunicationStyle,
		LastActive:         p.LastActive,
	}
	if u != nil {
		summary.Username = u.Username
		summary.DisplayName = u.DisplayName
	}
	return summary
}
