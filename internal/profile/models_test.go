package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestUserAge(t *testing.T) {
	t.Run("nil without a birth date", func(t *testing.T) {
		u := &User{ID: 1}
		assert.Nil(t, u.Age())
	})

	t.Run("counts completed years only", func(t *testing.T) {
		birth := time.Now().AddDate(-30, 0, -1)
		u := &User{ID: 1, BirthDate: &birth}
		age := u.Age()
		require.NotNil(t, age)
		assert.Equal(t, 30, *age)
	})

	t.Run("birthday not yet reached this year", func(t *testing.T) {
		birth := time.Now().AddDate(-30, 0, 30)
		u := &User{ID: 1, BirthDate: &birth}
		age := u.Age()
		require.NotNil(t, age)
		assert.Equal(t, 29, *age)
	})
}

func TestUserHasLocation(t *testing.T) {
	lat, lon := 52.52, 13.405

	assert.False(t, (*User)(nil).HasLocation())
	assert.False(t, (&User{}).HasLocation())
	assert.False(t, (&User{Latitude: &lat}).HasLocation())
	assert.True(t, (&User{Latitude: &lat, Longitude: &lon}).HasLocation())
}

func TestBlockedPeers(t *testing.T) {
	p := &MemberProfile{
		UserID: 1,
		Connections: []Connection{
			{PeerUserID: 2, Status: StatusActive},
			{PeerUserID: 3, Status: StatusBlocked},
			{PeerUserID: 4, Status: StatusInactive},
			{PeerUserID: 5, Status: StatusBlocked},
		},
	}

	blocked := p.BlockedPeers()
	assert.Len(t, blocked, 2)
	assert.True(t, blocked[3])
	assert.True(t, blocked[5])
	assert.False(t, blocked[2])
}

func TestYearsExperience(t *testing.T) {
	t.Run("zero without skills", func(t *testing.T) {
		assert.Zero(t, (&MemberProfile{}).YearsExperience())
	})

	t.Run("takes the largest across skills", func(t *testing.T) {
		p := &MemberProfile{
			Skills: Skills{
				{Name: "welding", YearsExperience: intPtr(3)},
				{Name: "carpentry", YearsExperience: intPtr(12)},
				{Name: "plumbing"},
			},
		}
		assert.Equal(t, 12, p.YearsExperience())
	})
}

func TestJSONBScan(t *testing.T) {
	t.Run("skills round trip through the driver value", func(t *testing.T) {
		original := Skills{
			{Name: "beekeeping", Level: LevelAdvanced, CanTeach: true, Category: "agriculture", YearsExperience: intPtr(7)},
		}

		value, err := original.Value()
		require.NoError(t, err)

		var scanned Skills
		require.NoError(t, scanned.Scan(value))
		assert.Equal(t, original, scanned)
	})

	t.Run("nil column leaves the destination untouched", func(t *testing.T) {
		var prefs PreferencesJSON
		require.NoError(t, prefs.Scan(nil))
		assert.Zero(t, prefs.MaxDistanceKm)
	})

	t.Run("availability scans from raw bytes", func(t *testing.T) {
		raw := []byte(`{"timezone":"Europe/Berlin","response_time":"within-day","preferred_meeting_types":["video-call"]}`)
		var availability AvailabilityJSON
		require.NoError(t, availability.Scan(raw))
		assert.Equal(t, "Europe/Berlin", availability.Timezone)
		assert.Equal(t, ResponseWithinDay, availability.ResponseTime)
		assert.Equal(t, []string{"video-call"}, availability.PreferredMeetingTypes)
	})
}
