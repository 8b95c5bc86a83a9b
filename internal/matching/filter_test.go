package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/peerlink/peerlink-backend/internal/profile"
)

func birthDate(age int) *time.Time {
	t := time.Now().AddDate(-age, 0, -1)
	return &t
}

func poolOf(profiles ...*profile.MemberProfile) []*profile.MemberProfile {
	return profiles
}

func TestFilterCandidates(t *testing.T) {
	seeker := testProfile(1)
	seekerUser := testUser(1, 52.52, 13.405)

	t.Run("excludes the seeker and unavailable profiles", func(t *testing.T) {
		self := testProfile(1)
		hidden := testProfile(2)
		hidden.AvailableForMatching = false
		visible := testProfile(3)

		eligible := FilterCandidates(seeker, seekerUser, poolOf(self, hidden, visible), nil, &MatchFilters{})

		assert.Len(t, eligible, 1)
		assert.Equal(t, int64(3), eligible[0].UserID)
	})

	t.Run("excludes blocked peers", func(t *testing.T) {
		blocker := testProfile(1)
		blocker.Connections = []profile.Connection{
			{PeerUserID: 2, Type: profile.ConnectionRequested, Status: profile.StatusBlocked},
			{PeerUserID: 3, Type: profile.ConnectionMatched, Status: profile.StatusActive},
		}

		eligible := FilterCandidates(blocker, seekerUser, poolOf(testProfile(2), testProfile(3)), nil, &MatchFilters{})

		assert.Len(t, eligible, 1)
		assert.Equal(t, int64(3), eligible[0].UserID)
	})

	t.Run("excludes caller supplied ids", func(t *testing.T) {
		eligible := FilterCandidates(seeker, seekerUser, poolOf(testProfile(2), testProfile(3)), nil,
			&MatchFilters{ExcludeUserIDs: []int64{2}})

		assert.Len(t, eligible, 1)
		assert.Equal(t, int64(3), eligible[0].UserID)
	})

	t.Run("skill category filter", func(t *testing.T) {
		crafts := testProfile(2)
		farming := testProfile(3)
		farming.Skills = profile.Skills{{Name: "Cattle Farming", Level: profile.LevelAdvanced, Category: "agriculture"}}

		eligible := FilterCandidates(seeker, seekerUser, poolOf(crafts, farming), nil,
			&MatchFilters{SkillCategories: []string{"Agriculture"}})

		assert.Len(t, eligible, 1)
		assert.Equal(t, int64(3), eligible[0].UserID)
	})

	t.Run("skill level filter", func(t *testing.T) {
		advanced := testProfile(2)
		novice := testProfile(3)
		novice.Skills = profile.Skills{{Name: "Pottery", Level: profile.LevelBeginner, Category: "crafts"}}

		eligible := FilterCandidates(seeker, seekerUser, poolOf(advanced, novice), nil,
			&MatchFilters{SkillLevels: []string{profile.LevelAdvanced, profile.LevelExpert}})

		assert.Len(t, eligible, 1)
		assert.Equal(t, int64(2), eligible[0].UserID)
	})

	t.Run("meeting type filter", func(t *testing.T) {
		videoOnly := testProfile(2)
		videoOnly.Availability.PreferredMeetingTypes = []string{"video-call"}
		inPerson := testProfile(3)
		inPerson.Availability.PreferredMeetingTypes = []string{"in-person"}

		eligible := FilterCandidates(seeker, seekerUser, poolOf(videoOnly, inPerson), nil,
			&MatchFilters{AvailabilityTypes: []string{"in-person"}})

		assert.Len(t, eligible, 1)
		assert.Equal(t, int64(3), eligible[0].UserID)
	})

	t.Run("age filter applies only when derivable", func(t *testing.T) {
		young := testProfile(2)
		old := testProfile(3)
		unknown := testProfile(4)

		users := map[int64]*profile.User{
			2: {ID: 2, BirthDate: birthDate(22)},
			3: {ID: 3, BirthDate: birthDate(58)},
			4: {ID: 4}, // no birth date on record
		}

		eligible := FilterCandidates(seeker, seekerUser, poolOf(young, old, unknown), users,
			&MatchFilters{MinAge: 18, MaxAge: 35})

		ids := []int64{}
		for _, p := range eligible {
			ids = append(ids, p.UserID)
		}
		assert.Equal(t, []int64{2, 4}, ids)
	})

	t.Run("missing user record stays eligible under demographic filters", func(t *testing.T) {
		known := testProfile(2)
		unrecorded := testProfile(3)

		// Only candidate 2 has a user record; 3 has no demographics at all
		users := map[int64]*profile.User{
			2: {ID: 2, BirthDate: birthDate(22)},
		}

		eligible := FilterCandidates(seeker, seekerUser, poolOf(known, unrecorded), users,
			&MatchFilters{MinAge: 18, MaxAge: 35, GenderPreference: []string{"woman"}})

		ids := []int64{}
		for _, p := range eligible {
			ids = append(ids, p.UserID)
		}
		assert.Equal(t, []int64{2, 3}, ids)
	})

	t.Run("gender preference applies only when on record", func(t *testing.T) {
		woman := "woman"
		man := "man"

		matching := testProfile(2)
		mismatched := testProfile(3)
		undisclosed := testProfile(4)

		users := map[int64]*profile.User{
			2: {ID: 2, Gender: &woman},
			3: {ID: 3, Gender: &man},
			4: {ID: 4},
		}

		eligible := FilterCandidates(seeker, seekerUser, poolOf(matching, mismatched, undisclosed), users,
			&MatchFilters{GenderPreference: []string{"Woman"}})

		ids := []int64{}
		for _, p := range eligible {
			ids = append(ids, p.UserID)
		}
		assert.Equal(t, []int64{2, 4}, ids)
	})

	t.Run("distance cutoff only when both sides expose location", func(t *testing.T) {
		near := testProfile(2)
		far := testProfile(3)
		nowhere := testProfile(4)

		users := map[int64]*profile.User{
			2: testUser(2, 52.53, 13.41),  // ~1 km away
			3: testUser(3, 48.8566, 2.3522), // Paris, ~880 km away
			4: {ID: 4},                      // no coordinates
		}

		eligible := FilterCandidates(seeker, seekerUser, poolOf(near, far, nowhere), users,
			&MatchFilters{MaxDistanceKm: 50})

		ids := []int64{}
		for _, p := range eligible {
			ids = append(ids, p.UserID)
		}
		assert.Equal(t, []int64{2, 4}, ids)
	})

	t.Run("mutual interest requirement", func(t *testing.T) {
		demanding := testProfile(1)
		demanding.Preferences.RequireMutualInterests = true
		demanding.Preferences.MinimumSharedInterests = 1

		shares := testProfile(2)
		doesNot := testProfile(3)
		doesNot.Interests = profile.Interests{{Name: "Opera", Category: "arts", Intensity: profile.IntensityCasual}}

		eligible := FilterCandidates(demanding, seekerUser, poolOf(shares, doesNot), nil, &MatchFilters{})

		assert.Len(t, eligible, 1)
		assert.Equal(t, int64(2), eligible[0].UserID)
	})

	t.Run("preserves pool order", func(t *testing.T) {
		eligible := FilterCandidates(seeker, seekerUser,
			poolOf(testProfile(5), testProfile(2), testProfile(9)), nil, &MatchFilters{})

		ids := []int64{}
		for _, p := range eligible {
			ids = append(ids, p.UserID)
		}
		assert.Equal(t, []int64{5, 2, 9}, ids)
	})
}
