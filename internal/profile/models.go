// internal/profile/models.go

package profile

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Skill levels
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
	LevelExpert       = "expert"
)

// Interest intensities
const (
	IntensityCasual     = "casual"
	IntensityModerate   = "moderate"
	IntensityPassionate = "passionate"
)

// Response time classes, fastest first
const (
	ResponseImmediate  = "immediate"
	ResponseWithinHour = "within-hour"
	ResponseWithinDay  = "within-day"
	ResponseWithinWeek = "within-week"
)

// Communication styles
const (
	StyleFormal       = "formal"
	StyleProfessional = "professional"
	StyleFriendly     = "friendly"
	StyleCasual       = "casual"
)

// Connection types
const (
	ConnectionMatched   = "matched"
	ConnectionRequested = "requested"
	ConnectionMutual    = "mutual"
)

// Connection statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusBlocked  = "blocked"
)

// Skill is something a member can do, teach, or wants to learn.
// A skill may be both teachable and sought at once; those serve different peers.
type Skill struct {
	Name            string `json:"name"`
	Level           string `json:"level"` // beginner, intermediate, advanced, expert
	CanTeach        bool   `json:"can_teach"`
	WantsToLearn    bool   `json:"wants_to_learn"`
	Category        string `json:"category"`
	YearsExperience *int   `json:"years_experience,omitempty"`
}

// Interest is a topic a member cares about
type Interest struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Intensity string `json:"intensity"` // casual, moderate, passionate
}

// TimeSlot is a recurring weekly availability window.
// start < end is enforced by the profile write path, not re-checked here.
type TimeSlot struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Availability describes when and how a member prefers to meet
type Availability struct {
	TimeSlots             []TimeSlot `json:"time_slots"`
	Timezone              string     `json:"timezone"`
	PreferredMeetingTypes []string   `json:"preferred_meeting_types"`
	ResponseTime          string     `json:"response_time"` // immediate, within-hour, within-day, within-week
}

// AgeRange bounds a demographic preference
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// MatchingPreferences holds a member's constraints on who to be matched with
type MatchingPreferences struct {
	MaxDistanceKm          float64  `json:"max_distance_km"`
	PreferredSkillLevels   []string `json:"preferred_skill_levels,omitempty"`
	PriorityCategories     []string `json:"priority_categories,omitempty"`
	ExcludeCategories      []string `json:"exclude_categories,omitempty"`
	AgeRange               *AgeRange `json:"age_range,omitempty"`
	GenderPreference       []string `json:"gender_preference,omitempty"`
	RequireMutualInterests bool     `json:"require_mutual_interests"`
	MinimumSharedInterests int      `json:"minimum_shared_interests"`
}

// Connection is one entry in a member's connection ledger. Each side of a
// relationship keeps its own entry; the relation is asymmetric by design so
// one-sided blocking works without touching the peer's row.
type Connection struct {
	PeerUserID       int64     `json:"peer_user_id" db:"peer_user_id"`
	Type             string    `json:"type" db:"type"`     // matched, requested, mutual
	Status           string    `json:"status" db:"status"` // active, inactive, blocked
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	LastInteraction  time.Time `json:"last_interaction" db:"last_interaction"`
	InteractionCount int       `json:"interaction_count" db:"interaction_count"`
}

// MemberProfile is the matching-relevant view of a member. At most one per user.
type MemberProfile struct {
	ID                   int64               `json:"id" db:"id"`
	UserID               int64               `json:"user_id" db:"user_id"`
	Skills               Skills              `json:"skills" db:"skills"`
	Interests            Interests           `json:"interests" db:"interests"`
	Availability         AvailabilityJSON    `json:"availability" db:"availability"`
	Preferences          PreferencesJSON     `json:"matching_preferences" db:"matching_preferences"`
	CommunicationStyle   string              `json:"communication_style" db:"communication_style"`
	AvailableForMatching bool                `json:"is_available_for_matching" db:"is_available_for_matching"`
	LastActive           time.Time           `json:"last_active" db:"last_active"`
	CreatedAt            time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at" db:"updated_at"`

	// Loaded separately from member_connections; only filled for the seeker
	Connections []Connection `json:"connections,omitempty"`
}

// User is the identity/location record associated with a profile
type User struct {
	ID          int64      `json:"id" db:"id"`
	Username    string     `json:"username" db:"username"`
	DisplayName string     `json:"display_name" db:"display_name"`
	BirthDate   *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	Gender      *string    `json:"gender,omitempty" db:"gender"`
	Latitude    *float64   `json:"latitude,omitempty" db:"latitude"`
	Longitude   *float64   `json:"longitude,omitempty" db:"longitude"`
}

// Age returns the user's age in years, if a birth date is on record
func (u *User) Age() *int {
	if u.BirthDate == nil {
		return nil
	}
	now := time.Now()
	age := now.Year() - u.BirthDate.Year()
	if now.YearDay() < u.BirthDate.YearDay() {
		age--
	}
	return &age
}

// HasLocation reports whether the user exposes coordinates
func (u *User) HasLocation() bool {
	return u != nil && u.Latitude != nil && u.Longitude != nil
}

// BlockedPeers returns the peer IDs this profile has blocked
func (p *MemberProfile) BlockedPeers() map[int64]bool {
	blocked := make(map[int64]bool)
	for _, conn := range p.Connections {
		if conn.Status == StatusBlocked {
			blocked[conn.PeerUserID] = true
		}
	}
	return blocked
}

// YearsExperience returns the largest years-of-experience across the
// profile's skills, used as the member's overall experience signal.
func (p *MemberProfile) YearsExperience() int {
	years := 0
	for _, skill := range p.Skills {
		if skill.YearsExperience != nil && *skill.YearsExperience > years {
			years = *skill.YearsExperience
		}
	}
	return years
}

// JSONB wrapper types so sqlx can scan nested structs straight from postgres

// Skills is a JSONB-backed slice of Skill
type Skills []Skill

func (s *Skills) Scan(value interface{}) error { return scanJSON(value, s) }
func (s Skills) Value() (driver.Value, error)  { return json.Marshal(s) }

// Interests is a JSONB-backed slice of Interest
type Interests []Interest

func (i *Interests) Scan(value interface{}) error { return scanJSON(value, i) }
func (i Interests) Value() (driver.Value, error)  { return json.Marshal(i) }

// AvailabilityJSON is a JSONB-backed Availability
type AvailabilityJSON Availability

func (a *AvailabilityJSON) Scan(value interface{}) error { return scanJSON(value, a) }
func (a AvailabilityJSON) Value() (driver.Value, error)  { return json.Marshal(a) }

// PreferencesJSON is a JSONB-backed MatchingPreferences
type PreferencesJSON MatchingPreferences

func (p *PreferencesJSON) Scan(value interface{}) error { return scanJSON(value, p) }
func (p PreferencesJSON) Value() (driver.Value, error)  { return json.Marshal(p) }

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	if bytes, ok := value.([]byte); ok {
		return json.Unmarshal(bytes, dest)
	}
	return nil
}
