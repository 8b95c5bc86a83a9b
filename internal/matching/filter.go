// internal/matching/filter.go
// Candidate Filter: narrows a profile pool to the structurally eligible
// candidates for a seeker. Pure; preserves pool order so results are
// reproducible for a given snapshot.

package matching

import (
	"strings"

	"github.com/peerlink/peerlink-backend/internal/profile"
)

// FilterCandidates applies, in order: self/eligibility exclusion, blocked and
// explicitly excluded identities, structural set-intersection filters,
// demographic filters (only when the candidate's age is derivable), and a
// distance cutoff (only when both parties expose location; an unknown
// distance is not disqualifying, it is scored neutrally downstream).
func FilterCandidates(
	seeker *profile.MemberProfile,
	seekerUser *profile.User,
	pool []*profile.MemberProfile,
	users map[int64]*profile.User,
	filters *MatchFilters,
) []*profile.MemberProfile {
	blocked := seeker.BlockedPeers()

	excluded := make(map[int64]bool, len(filters.ExcludeUserIDs))
	for _, id := range filters.ExcludeUserIDs {
		excluded[id] = true
	}

	maxDistance := filters.MaxDistanceKm
	if maxDistance <= 0 {
		maxDistance = seeker.Preferences.MaxDistanceKm
	}

	eligible := make([]*profile.MemberProfile, 0, len(pool))
	for _, candidate := range pool {
		if candidate.UserID == seeker.UserID || !candidate.AvailableForMatching {
			continue
		}
		if blocked[candidate.UserID] || excluded[candidate.UserID] {
			continue
		}
		if !passesStructuralFilters(seeker, candidate, filters) {
			continue
		}

		candidateUser := users[candidate.UserID]
		if !passesDemographicFilters(candidateUser, filters) {
			continue
		}
		if !passesDistanceCutoff(seekerUser, candidateUser, maxDistance) {
			continue
		}

		eligible = append(eligible, candidate)
	}

	return eligible
}

func passesStructuralFilters(seeker, candidate *profile.MemberProfile, filters *MatchFilters) bool {
	if len(filters.SkillCategories) > 0 &&
		!anySkillCategory(candidate.Skills, filters.SkillCategories) {
		return false
	}

	if len(filters.InterestCategories) > 0 &&
		!anyInterestCategory(candidate.Interests, filters.InterestCategories) {
		return false
	}

	if len(filters.SkillLevels) > 0 &&
		!anySkillLevel(candidate.Skills, filters.SkillLevels) {
		return false
	}

	if len(filters.AvailabilityTypes) > 0 &&
		!intersects(candidate.Availability.PreferredMeetingTypes, filters.AvailabilityTypes) {
		return false
	}

	if len(filters.CommunicationStyles) > 0 &&
		!containsFold(filters.CommunicationStyles, candidate.CommunicationStyle) {
		return false
	}

	// Seeker preference: skip candidates built around categories the seeker excludes
	if len(seeker.Preferences.ExcludeCategories) > 0 &&
		anySkillCategory(candidate.Skills, seeker.Preferences.ExcludeCategories) &&
		!anySkillCategoryOutside(candidate.Skills, seeker.Preferences.ExcludeCategories) {
		return false
	}

	// Seeker preference: require a minimum of shared interests
	if seeker.Preferences.RequireMutualInterests {
		minimum := seeker.Preferences.MinimumSharedInterests
		if minimum < 1 {
			minimum = 1
		}
		if sharedInterests(seeker.Interests, candidate.Interests) < minimum {
			return false
		}
	}

	return true
}

// passesDemographicFilters tests age and gender preferences. Unknown
// demographics are provisionally eligible, same as unknown distance: a
// candidate with no user record, no birth date, or no gender on record is
// kept rather than failed against filters that cannot be evaluated.
func passesDemographicFilters(candidateUser *profile.User, filters *MatchFilters) bool {
	if candidateUser == nil {
		return true
	}

	// Age filters apply only when the candidate's age is derivable
	if age := candidateUser.Age(); age != nil {
		if filters.MinAge > 0 && *age < filters.MinAge {
			return false
		}
		if filters.MaxAge > 0 && *age > filters.MaxAge {
			return false
		}
	}

	if len(filters.GenderPreference) > 0 && candidateUser.Gender != nil &&
		!containsFold(filters.GenderPreference, *candidateUser.Gender) {
		return false
	}

	return true
}

func passesDistanceCutoff(seekerUser, candidateUser *profile.User, maxDistanceKm float64) bool {
	if maxDistanceKm <= 0 {
		return true
	}
	// Distance unknown is provisionally eligible
	if !seekerUser.HasLocation() || !candidateUser.HasLocation() {
		return true
	}

	distance := HaversineKm(
		*seekerUser.Latitude, *seekerUser.Longitude,
		*candidateUser.Latitude, *candidateUser.Longitude,
	)
	return distance <= maxDistanceKm
}

// Set helpers

func anySkillCategory(skills profile.Skills, categories []string) bool {
	for _, skill := range skills {
		if containsFold(categories, skill.Category) {
			return true
		}
	}
	return false
}

func anySkillCategoryOutside(skills profile.Skills, categories []string) bool {
	for _, skill := range skills {
		if !containsFold(categories, skill.Category) {
			return true
		}
	}
	return false
}

func anyInterestCategory(interests profile.Interests, categories []string) bool {
	for _, interest := range interests {
		if containsFold(categories, interest.Category) {
			return true
		}
	}
	return false
}

func anySkillLevel(skills profile.Skills, levels []string) bool {
	for _, skill := range skills {
		if containsFold(levels, skill.Level) {
			return true
		}
	}
	return false
}

func sharedInterests(a, b profile.Interests) int {
	seen := make(map[string]bool, len(a))
	for _, interest := range a {
		seen[strings.ToLower(interest.Name)] = true
	}

	count := 0
	for _, interest := range b {
		if seen[strings.ToLower(interest.Name)] {
			count++
		}
	}
	return count
}

func intersects(a, b []string) bool {
	for _, item := range a {
		if containsFold(b, item) {
			return true
		}
	}
	return false
}

func containsFold(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}
