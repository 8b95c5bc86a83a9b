// internal/matching/assist.go
// Adapter between the matching engine and the external reasoning service.
// Any error from the service is returned to the orchestrator, which owns
// the deterministic fallback; nothing here blocks past the configured timeout.

package matching

import (
	"context"
	"time"

	"github.com/peerlink/peerlink-backend/internal/profile"
	"github.com/peerlink/peerlink-backend/internal/reasoning"
)

// AssistedScorer delegates scoring to a reasoning service. The client is
// injected so tests can substitute a fake; there is no shared singleton.
type AssistedScorer struct {
	client  reasoning.Client
	timeout time.Duration
}

// NewAssistedScorer wires a reasoning client with a per-call timeout
func NewAssistedScorer(client reasoning.Client, timeout time.Duration) *AssistedScorer {
	return &AssistedScorer{client: client, timeout: timeout}
}

// Score asks the reasoning service to rate the pair. The distance, when
// computable, is carried into the result regardless of what the service
// says; geometry is not its call.
func (a *AssistedScorer) Score(
	ctx context.Context,
	seeker, candidate *profile.MemberProfile,
	seekerUser, candidateUser *profile.User,
) (*CompatibilityResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	distance := distanceBetween(seekerUser, candidateUser)

	rated, err := a.client.Rate(callCtx, summarize(seeker, nil), summarize(candidate, distance))
	if err != nil {
		return nil, err
	}

	return &CompatibilityResult{
		CandidateID: candidate.UserID,
		Score:       rated.Score,
		Factors: CompatibilityFactors{
			SkillsAlignment:       rated.Factors.SkillsAlignment,
			InterestsAlignment:    rated.Factors.InterestsAlignment,
			AvailabilityMatch:     rated.Factors.AvailabilityMatch,
			LocationCompatibility: rated.Factors.LocationCompatibility,
			CommunicationStyle:    rated.Factors.CommunicationStyle,
			ExperienceLevel:       rated.Factors.ExperienceLevel,
		},
		Reasoning:       rated.Reasoning,
		Recommendations: rated.Recommendations,
		DistanceKm:      distance,
	}, nil
}

func summarize(p *profile.MemberProfile, distance *float64) *reasoning.ProfileSummary {
	summary := &reasoning.ProfileSummary{
		UserID:             p.UserID,
		CommunicationStyle: p.CommunicationStyle,
		ResponseTime:       p.Availability.ResponseTime,
		MeetingTypes:       p.Availability.PreferredMeetingTypes,
		DistanceKm:         distance,
	}

	for _, skill := range p.Skills {
		summary.Skills = append(summary.Skills, reasoning.SkillInfo{
			Name:         skill.Name,
			Level:        skill.Level,
			Category:     skill.Category,
			CanTeach:     skill.CanTeach,
			WantsToLearn: skill.WantsToLearn,
		})
	}

	for _, interest := range p.Interests {
		summary.Interests = append(summary.Interests, reasoning.TopicInfo{
			Name:      interest.Name,
			Category:  interest.Category,
			Intensity: interest.Intensity,
		})
	}

	return summary
}

func distanceBetween(a, b *profile.User) *float64 {
	if !a.HasLocation() || !b.HasLocation() {
		return nil
	}
	distance := HaversineKm(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude)
	return &distance
}
