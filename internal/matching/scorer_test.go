package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerlink/peerlink-backend/internal/profile"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func testProfile(userID int64) *profile.MemberProfile {
	return &profile.MemberProfile{
		UserID: userID,
		Skills: profile.Skills{
			{Name: "Woodworking", Level: profile.LevelAdvanced, Category: "crafts", CanTeach: true, WantsToLearn: true},
		},
		Interests: profile.Interests{
			{Name: "Hiking", Category: "outdoors", Intensity: profile.IntensityModerate},
		},
		Availability: profile.AvailabilityJSON{
			PreferredMeetingTypes: []string{"video-call", "in-person"},
			ResponseTime:          profile.ResponseWithinDay,
			Timezone:              "Europe/Berlin",
		},
		Preferences:          profile.PreferencesJSON{MaxDistanceKm: 50},
		CommunicationStyle:   profile.StyleFriendly,
		AvailableForMatching: true,
	}
}

func testUser(userID int64, lat, lon float64) *profile.User {
	return &profile.User{
		ID:        userID,
		Username:  "user",
		Latitude:  &lat,
		Longitude: &lon,
	}
}

func TestScoreSkills(t *testing.T) {
	scorer := NewDeterministicScorer()

	t.Run("teach learn pairing scores full marks", func(t *testing.T) {
		seeker := profile.Skills{
			{Name: "Cattle Farming", Level: profile.LevelAdvanced, Category: "agriculture", CanTeach: true},
		}
		candidate := profile.Skills{
			{Name: "Cattle Farming", Level: profile.LevelBeginner, Category: "agriculture", WantsToLearn: true},
		}

		// 1 match / max(1,1) * 70 base plus the full teach/learn bonus
		assert.Equal(t, 100.0, scorer.scoreSkills(seeker, candidate))
	})

	t.Run("name match without teach learn bonus", func(t *testing.T) {
		seeker := profile.Skills{{Name: "Pottery", Category: "crafts"}}
		candidate := profile.Skills{{Name: "pottery", Category: "arts"}}

		// Case-insensitive name match, no bonus
		assert.Equal(t, 70.0, scorer.scoreSkills(seeker, candidate))
	})

	t.Run("category match counts", func(t *testing.T) {
		seeker := profile.Skills{{Name: "Guitar", Category: "music"}}
		candidate := profile.Skills{{Name: "Drums", Category: "music"}}

		assert.Equal(t, 70.0, scorer.scoreSkills(seeker, candidate))
	})

	t.Run("no skills yields zero", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.scoreSkills(profile.Skills{}, profile.Skills{}))
	})

	t.Run("disjoint skills yield zero", func(t *testing.T) {
		seeker := profile.Skills{{Name: "Guitar", Category: "music"}}
		candidate := profile.Skills{{Name: "Sourdough", Category: "baking"}}

		assert.Equal(t, 0.0, scorer.scoreSkills(seeker, candidate))
	})

	t.Run("capped at 100", func(t *testing.T) {
		// Every pair matches by category, so raw base exceeds the cap
		seeker := profile.Skills{
			{Name: "A", Category: "music"},
			{Name: "B", Category: "music"},
		}
		candidate := profile.Skills{
			{Name: "C", Category: "music"},
			{Name: "D", Category: "music"},
		}

		assert.Equal(t, 100.0, scorer.scoreSkills(seeker, candidate))
	})
}

func TestScoreInterests(t *testing.T) {
	scorer := NewDeterministicScorer()

	t.Run("matching interest with equal intensity", func(t *testing.T) {
		seeker := profile.Interests{{Name: "Chess", Category: "games", Intensity: profile.IntensityPassionate}}
		candidate := profile.Interests{{Name: "Chess", Category: "games", Intensity: profile.IntensityPassionate}}

		// base 80 + full intensity bonus 20
		assert.Equal(t, 100.0, scorer.scoreInterests(seeker, candidate))
	})

	t.Run("matching interest with different intensity", func(t *testing.T) {
		seeker := profile.Interests{{Name: "Chess", Category: "games", Intensity: profile.IntensityCasual}}
		candidate := profile.Interests{{Name: "Chess", Category: "games", Intensity: profile.IntensityPassionate}}

		assert.Equal(t, 80.0, scorer.scoreInterests(seeker, candidate))
	})

	t.Run("no matches avoids division by zero", func(t *testing.T) {
		seeker := profile.Interests{{Name: "Chess", Category: "games", Intensity: profile.IntensityCasual}}
		candidate := profile.Interests{{Name: "Opera", Category: "arts", Intensity: profile.IntensityCasual}}

		assert.Equal(t, 0.0, scorer.scoreInterests(seeker, candidate))
	})
}

func TestScoreAvailability(t *testing.T) {
	scorer := NewDeterministicScorer()

	t.Run("response time extremes floor at 25", func(t *testing.T) {
		seeker := profile.Availability{
			PreferredMeetingTypes: []string{"video-call"},
			ResponseTime:          profile.ResponseImmediate,
		}
		candidate := profile.Availability{
			PreferredMeetingTypes: []string{"video-call"},
			ResponseTime:          profile.ResponseWithinWeek,
		}

		// Full meeting overlap (50) + floored response score (25) halved
		assert.Equal(t, 62.5, scorer.scoreAvailability(seeker, candidate))
	})

	t.Run("identical availability is full score", func(t *testing.T) {
		availability := profile.Availability{
			PreferredMeetingTypes: []string{"video-call", "in-person"},
			ResponseTime:          profile.ResponseWithinHour,
		}

		assert.Equal(t, 100.0, scorer.scoreAvailability(availability, availability))
	})

	t.Run("adjacent response classes", func(t *testing.T) {
		seeker := profile.Availability{ResponseTime: profile.ResponseImmediate}
		candidate := profile.Availability{ResponseTime: profile.ResponseWithinHour}

		// No meeting types on the seeker side, response gap of one ordinal
		assert.Equal(t, 37.5, scorer.scoreAvailability(seeker, candidate))
	})
}

func TestScoreLocation(t *testing.T) {
	scorer := NewDeterministicScorer()

	t.Run("ten km inside a fifty km radius", func(t *testing.T) {
		seeker := testUser(1, 6.5244, 3.3792)
		// ~10 km due north
		candidate := testUser(2, 6.5244+0.0899322, 3.3792)

		score, distance := scorer.scoreLocation(seeker, candidate, 50)
		require.NotNil(t, distance)
		assert.InDelta(t, 10, *distance, 0.05)
		assert.InDelta(t, 92, score, 0.1)
	})

	t.Run("missing coordinates are neutral", func(t *testing.T) {
		seeker := testUser(1, 6.5244, 3.3792)
		candidate := &profile.User{ID: 2}

		score, distance := scorer.scoreLocation(seeker, candidate, 50)
		assert.Nil(t, distance)
		assert.Equal(t, 50.0, score)
	})

	t.Run("just outside the radius decays gently", func(t *testing.T) {
		seeker := testUser(1, 0, 0)
		// ~60 km with a 50 km radius: 60 - (10/50)*50 = 50
		candidate := testUser(2, 0.539593, 0)

		score, distance := scorer.scoreLocation(seeker, candidate, 50)
		require.NotNil(t, distance)
		assert.InDelta(t, 60, *distance, 0.2)
		assert.InDelta(t, 50, score, 0.3)
	})

	t.Run("never drops below 10", func(t *testing.T) {
		seeker := testUser(1, 0, 0)
		candidate := testUser(2, 0, 179)

		score, _ := scorer.scoreLocation(seeker, candidate, 50)
		assert.Equal(t, 10.0, score)
	})
}

func TestScoreExperience(t *testing.T) {
	scorer := NewDeterministicScorer()

	tests := []struct {
		name     string
		ours     int
		theirs   int
		expected float64
	}{
		{"same experience", 5, 5, 100},
		{"two year gap", 5, 7, 100},
		{"five year gap", 2, 7, 80},
		{"mentor mentee decade", 2, 12, 70},
		{"large gap", 1, 20, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, scorer.scoreExperience(tt.ours, tt.theirs))
			assert.Equal(t, tt.expected, scorer.scoreExperience(tt.theirs, tt.ours))
		})
	}
}

func TestScoreCommunicationStyle(t *testing.T) {
	scorer := NewDeterministicScorer()

	assert.Equal(t, 100.0, scorer.scoreCommunicationStyle(profile.StyleFormal, profile.StyleFormal))
	assert.Equal(t, 35.0, scorer.scoreCommunicationStyle(profile.StyleFormal, profile.StyleCasual))
	assert.Equal(t, 50.0, scorer.scoreCommunicationStyle("telepathic", profile.StyleFriendly))

	// Symmetric by construction
	for _, a := range []string{profile.StyleFormal, profile.StyleProfessional, profile.StyleFriendly, profile.StyleCasual} {
		for _, b := range []string{profile.StyleFormal, profile.StyleProfessional, profile.StyleFriendly, profile.StyleCasual} {
			assert.Equal(t, scorer.scoreCommunicationStyle(a, b), scorer.scoreCommunicationStyle(b, a))
		}
	}
}

func TestScoreFullResult(t *testing.T) {
	scorer := NewDeterministicScorer()

	t.Run("self score maxes alignment factors", func(t *testing.T) {
		p := testProfile(1)
		u := testUser(1, 52.52, 13.405)

		result := scorer.Score(p, p, u, u, 50)

		assert.Equal(t, 100.0, result.Factors.SkillsAlignment)
		assert.Equal(t, 100.0, result.Factors.InterestsAlignment)
		assert.Equal(t, 100.0, result.Factors.LocationCompatibility)
		require.NotNil(t, result.DistanceKm)
		assert.Equal(t, 0.0, *result.DistanceKm)
	})

	t.Run("all factors and the total stay within bounds", func(t *testing.T) {
		seeker := testProfile(1)
		candidate := testProfile(2)
		candidate.Skills = profile.Skills{
			{Name: "Beekeeping", Level: profile.LevelExpert, Category: "agriculture", YearsExperience: intPtr(15)},
		}
		candidate.CommunicationStyle = profile.StyleFormal

		result := scorer.Score(seeker, candidate, testUser(1, 0, 0), testUser(2, 1, 1), 50)

		for _, factor := range []float64{
			result.Factors.SkillsAlignment,
			result.Factors.InterestsAlignment,
			result.Factors.AvailabilityMatch,
			result.Factors.LocationCompatibility,
			result.Factors.CommunicationStyle,
			result.Factors.ExperienceLevel,
		} {
			assert.GreaterOrEqual(t, factor, 0.0)
			assert.LessOrEqual(t, factor, 100.0)
		}

		assert.GreaterOrEqual(t, result.Score, 0.0)
		assert.LessOrEqual(t, result.Score, 100.0)
		// Integer-valued score
		assert.Equal(t, result.Score, float64(int(result.Score)))
	})

	t.Run("recommendations are deterministic", func(t *testing.T) {
		p := testProfile(1)
		u := testUser(1, 52.52, 13.405)

		first := scorer.Score(p, p, u, u, 50)
		second := scorer.Score(p, p, u, u, 50)

		assert.Equal(t, first.Recommendations, second.Recommendations)
		assert.NotEmpty(t, first.Recommendations)
		assert.Equal(t, first.Score, second.Score)
	})
}
