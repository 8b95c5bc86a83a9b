// internal/matching/scorer.go
// Deterministic Compatibility Scorer: the always-available fallback path.
// No I/O, no failure states; O(skills² + interests²) per pair.

package matching

import (
	"fmt"
	"math"
	"strings"

	"github.com/peerlink/peerlink-backend/internal/profile"
)

// Factor weights, fixed by the scoring contract
const (
	weightSkills        = 0.25
	weightInterests     = 0.20
	weightAvailability  = 0.15
	weightLocation      = 0.20
	weightCommunication = 0.10
	weightExperience    = 0.10
)

// Response time classes mapped to ordinals, fastest highest
var responseTimeOrdinal = map[string]int{
	profile.ResponseImmediate:  4,
	profile.ResponseWithinHour: 3,
	profile.ResponseWithinDay:  2,
	profile.ResponseWithinWeek: 1,
}

// Communication style compatibility. Stored directionally even though the
// values are symmetric by construction; unknown pairs default to 50.
var styleCompatibility = map[string]map[string]float64{
	profile.StyleFormal: {
		profile.StyleFormal: 100, profile.StyleProfessional: 85,
		profile.StyleFriendly: 55, profile.StyleCasual: 35,
	},
	profile.StyleProfessional: {
		profile.StyleFormal: 85, profile.StyleProfessional: 100,
		profile.StyleFriendly: 75, profile.StyleCasual: 55,
	},
	profile.StyleFriendly: {
		profile.StyleFormal: 55, profile.StyleProfessional: 75,
		profile.StyleFriendly: 100, profile.StyleCasual: 85,
	},
	profile.StyleCasual: {
		profile.StyleFormal: 35, profile.StyleProfessional: 55,
		profile.StyleFriendly: 85, profile.StyleCasual: 100,
	},
}

// DeterministicScorer computes weighted compatibility with no external calls
type DeterministicScorer struct{}

// NewDeterministicScorer creates the deterministic scoring engine
func NewDeterministicScorer() *DeterministicScorer {
	return &DeterministicScorer{}
}

// Score computes the full compatibility result for one seeker/candidate pair.
// maxDistanceKm shapes the location factor; users may be nil when no
// identity/location record exists.
func (s *DeterministicScorer) Score(
	seeker, candidate *profile.MemberProfile,
	seekerUser, candidateUser *profile.User,
	maxDistanceKm float64,
) *CompatibilityResult {
	factors := CompatibilityFactors{
		SkillsAlignment:    s.scoreSkills(seeker.Skills, candidate.Skills),
		InterestsAlignment: s.scoreInterests(seeker.Interests, candidate.Interests),
		AvailabilityMatch: s.scoreAvailability(
			profile.Availability(seeker.Availability),
			profile.Availability(candidate.Availability),
		),
		CommunicationStyle: s.scoreCommunicationStyle(seeker.CommunicationStyle, candidate.CommunicationStyle),
		ExperienceLevel:    s.scoreExperience(seeker.YearsExperience(), candidate.YearsExperience()),
	}

	locationScore, distance := s.scoreLocation(seekerUser, candidateUser, maxDistanceKm)
	factors.LocationCompatibility = locationScore

	total := factors.SkillsAlignment*weightSkills +
		factors.InterestsAlignment*weightInterests +
		factors.AvailabilityMatch*weightAvailability +
		factors.LocationCompatibility*weightLocation +
		factors.CommunicationStyle*weightCommunication +
		factors.ExperienceLevel*weightExperience

	score := math.Round(total)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return &CompatibilityResult{
		CandidateID:     candidate.UserID,
		Score:           score,
		Factors:         factors,
		Reasoning:       buildReasoning(factors, distance),
		Recommendations: buildRecommendations(factors),
		DistanceKm:      distance,
	}
}

// scoreSkills counts a match for every (seeker, candidate) skill pair whose
// names or categories are equal, then adds a teach/learn bonus for matched
// pairs where one side teaches what the other wants to learn.
func (s *DeterministicScorer) scoreSkills(seekerSkills, candidateSkills profile.Skills) float64 {
	maxLen := len(seekerSkills)
	if len(candidateSkills) > maxLen {
		maxLen = len(candidateSkills)
	}
	if maxLen == 0 {
		return 0
	}

	matches := 0
	bonusCount := 0
	for _, ours := range seekerSkills {
		for _, theirs := range candidateSkills {
			if !strings.EqualFold(ours.Name, theirs.Name) &&
				!strings.EqualFold(ours.Category, theirs.Category) {
				continue
			}
			matches++
			if (ours.CanTeach && theirs.WantsToLearn) || (theirs.CanTeach && ours.WantsToLearn) {
				bonusCount++
			}
		}
	}

	base := float64(matches) / float64(maxLen) * 70
	bonus := float64(bonusCount) / float64(maxLen) * 30

	return math.Min(100, base+bonus)
}

// scoreInterests applies the same name/category matching rule, with an
// intensity-equality bonus over the matched pairs.
func (s *DeterministicScorer) scoreInterests(seekerInterests, candidateInterests profile.Interests) float64 {
	maxLen := len(seekerInterests)
	if len(candidateInterests) > maxLen {
		maxLen = len(candidateInterests)
	}
	if maxLen == 0 {
		return 0
	}

	matches := 0
	sameIntensity := 0
	for _, ours := range seekerInterests {
		for _, theirs := range candidateInterests {
			if !strings.EqualFold(ours.Name, theirs.Name) &&
				!strings.EqualFold(ours.Category, theirs.Category) {
				continue
			}
			matches++
			if ours.Intensity == theirs.Intensity {
				sameIntensity++
			}
		}
	}

	base := float64(matches) / float64(maxLen) * 80

	bonus := 0.0
	if matches > 0 {
		bonus = float64(sameIntensity) / float64(matches) * 20
	}

	return math.Min(100, base+bonus)
}

// scoreAvailability splits 50/50 between meeting-type overlap and a
// response-time compatibility table over the class ordinals.
func (s *DeterministicScorer) scoreAvailability(seeker, candidate profile.Availability) float64 {
	meetingScore := 0.0
	if len(seeker.PreferredMeetingTypes) > 0 {
		overlap := 0
		for _, meetingType := range seeker.PreferredMeetingTypes {
			if containsFold(candidate.PreferredMeetingTypes, meetingType) {
				overlap++
			}
		}
		meetingScore = float64(overlap) / float64(len(seeker.PreferredMeetingTypes)) * 50
	}

	ours, ok1 := responseTimeOrdinal[seeker.ResponseTime]
	theirs, ok2 := responseTimeOrdinal[candidate.ResponseTime]
	responseScore := 25.0 // floor for unknown classes
	if ok1 && ok2 {
		gap := ours - theirs
		if gap < 0 {
			gap = -gap
		}
		responseScore = math.Max(25, 100-25*float64(gap))
	}

	return meetingScore + responseScore*0.5
}

// scoreLocation rewards proximity inside the preferred radius steeply and
// decays gently just outside it instead of dropping to zero. Returns the
// distance alongside the score when both parties expose coordinates; without
// coordinates the factor is a neutral 50.
func (s *DeterministicScorer) scoreLocation(seekerUser, candidateUser *profile.User, maxDistanceKm float64) (float64, *float64) {
	if !seekerUser.HasLocation() || !candidateUser.HasLocation() {
		return 50, nil
	}

	distance := HaversineKm(
		*seekerUser.Latitude, *seekerUser.Longitude,
		*candidateUser.Latitude, *candidateUser.Longitude,
	)

	if maxDistanceKm <= 0 {
		maxDistanceKm = 50
	}

	var score float64
	if distance <= maxDistanceKm {
		score = math.Max(60, 100-(distance/maxDistanceKm)*40)
	} else {
		score = math.Max(10, 60-((distance-maxDistanceKm)/maxDistanceKm)*50)
	}

	return score, &distance
}

func (s *DeterministicScorer) scoreCommunicationStyle(ours, theirs string) float64 {
	if row, ok := styleCompatibility[strings.ToLower(ours)]; ok {
		if score, ok := row[strings.ToLower(theirs)]; ok {
			return score
		}
	}
	return 50
}

// scoreExperience favors small gaps but still rewards the plausible
// mentor/mentee spread of a decade
func (s *DeterministicScorer) scoreExperience(ourYears, theirYears int) float64 {
	gap := ourYears - theirYears
	if gap < 0 {
		gap = -gap
	}

	switch {
	case gap <= 2:
		return 100
	case gap <= 5:
		return 80
	case gap <= 10:
		return 70
	default:
		return 50
	}
}

// buildRecommendations turns factor thresholds into actionable suggestions.
// Deterministic: same factors, same list.
func buildRecommendations(factors CompatibilityFactors) []string {
	recommendations := []string{}

	if factors.SkillsAlignment > 70 {
		recommendations = append(recommendations, "Strong skill overlap - consider skill sharing sessions")
	}
	if factors.InterestsAlignment > 70 {
		recommendations = append(recommendations, "Shared interests make for easy conversation starters")
	}
	if factors.AvailabilityMatch > 70 {
		recommendations = append(recommendations, "Schedules align well - booking a first session should be easy")
	}
	if factors.LocationCompatibility > 80 {
		recommendations = append(recommendations, "Close enough to meet in person")
	}
	if factors.ExperienceLevel >= 70 && factors.ExperienceLevel < 100 {
		recommendations = append(recommendations, "Experience gap suits a mentor/mentee pairing")
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Start with a short video call to explore common ground")
	}

	return recommendations
}

// buildReasoning summarizes the strongest factor in one sentence
func buildReasoning(factors CompatibilityFactors, distance *float64) string {
	best := "overall balance across factors"
	bestScore := 0.0

	named := []struct {
		label string
		value float64
	}{
		{"skill alignment", factors.SkillsAlignment},
		{"shared interests", factors.InterestsAlignment},
		{"availability overlap", factors.AvailabilityMatch},
		{"location proximity", factors.LocationCompatibility},
		{"communication style fit", factors.CommunicationStyle},
		{"experience compatibility", factors.ExperienceLevel},
	}
	for _, factor := range named {
		if factor.value > bestScore {
			bestScore = factor.value
			best = factor.label
		}
	}

	if distance != nil {
		return fmt.Sprintf("Strongest signal: %s (%.0f/100), %.1f km apart", best, bestScore, *distance)
	}
	return fmt.Sprintf("Strongest signal: %s (%.0f/100)", best, bestScore)
}
