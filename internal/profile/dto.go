// internal/profile/dto.go
package profile

// DTOs for API requests/responses

type SkillDTO struct {
	Name            string `json:"name" validate:"required,max=100"`
	Level           string `json:"level" validate:"required,oneof=beginner intermediate advanced expert"`
	CanTeach        bool   `json:"can_teach"`
	WantsToLearn    bool   `json:"wants_to_learn"`
	Category        string `json:"category" validate:"required,max=100"`
	YearsExperience *int   `json:"years_experience,omitempty" validate:"omitempty,min=0,max=80"`
}

type InterestDTO struct {
	Name      string `json:"name" validate:"required,max=100"`
	Category  string `json:"category" validate:"required,max=100"`
	Intensity string `json:"intensity" validate:"required,oneof=casual moderate passionate"`
}

type TimeSlotDTO struct {
	Day       string `json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required,gtfield=StartTime"`
}

type AvailabilityDTO struct {
	TimeSlots             []TimeSlotDTO `json:"time_slots" validate:"dive"`
	Timezone              string        `json:"timezone" validate:"required"`
	PreferredMeetingTypes []string      `json:"preferred_meeting_types" validate:"dive,oneof=video-call in-person phone-call chat"`
	ResponseTime          string        `json:"response_time" validate:"required,oneof=immediate within-hour within-day within-week"`
}

type PreferencesDTO struct {
	MaxDistanceKm          float64   `json:"max_distance_km" validate:"gte=0,lte=20000"`
	PreferredSkillLevels   []string  `json:"preferred_skill_levels,omitempty" validate:"dive,oneof=beginner intermediate advanced expert"`
	PriorityCategories     []string  `json:"priority_categories,omitempty"`
	ExcludeCategories      []string  `json:"exclude_categories,omitempty"`
	AgeRange               *AgeRange `json:"age_range,omitempty"`
	GenderPreference       []string  `json:"gender_preference,omitempty"`
	RequireMutualInterests bool      `json:"require_mutual_interests"`
	MinimumSharedInterests int       `json:"minimum_shared_interests" validate:"gte=0,lte=50"`
}

type UpsertProfileDTO struct {
	Skills               []SkillDTO      `json:"skills" validate:"dive"`
	Interests            []InterestDTO   `json:"interests" validate:"dive"`
	Availability         AvailabilityDTO `json:"availability"`
	Preferences          PreferencesDTO  `json:"matching_preferences"`
	CommunicationStyle   string          `json:"communication_style" validate:"required,oneof=formal professional friendly casual"`
	AvailableForMatching bool            `json:"is_available_for_matching"`
}
