// internal/matching/dto.go
package matching

// DTOs for API requests/responses

// MatchFilters narrows the candidate pool before scoring. All fields are
// optional; zero values mean "no constraint". Validated before any scoring
// work begins.
type MatchFilters struct {
	SkillCategories     []string `json:"skill_categories,omitempty"`
	InterestCategories  []string `json:"interest_categories,omitempty"`
	SkillLevels         []string `json:"skill_levels,omitempty" validate:"dive,oneof=beginner intermediate advanced expert"`
	AvailabilityTypes   []string `json:"availability_types,omitempty" validate:"dive,oneof=video-call in-person phone-call chat"`
	MinAge              int      `json:"min_age,omitempty" validate:"gte=0,lte=150"`
	MaxAge              int      `json:"max_age,omitempty" validate:"gte=0,lte=150"`
	GenderPreference    []string `json:"gender_preference,omitempty"`
	CommunicationStyles []string `json:"communication_styles,omitempty" validate:"dive,oneof=formal professional friendly casual"`
	ExcludeUserIDs      []int64  `json:"exclude_user_ids,omitempty"`
	MaxDistanceKm       float64  `json:"max_distance_km,omitempty" validate:"gte=0,lte=20000"`
	MinScore            float64  `json:"min_score,omitempty" validate:"gte=0,lte=100"`
	Limit               int      `json:"limit,omitempty" validate:"gte=0,lte=100"`
}

// RecordConnectionDTO records an accepted or requested connection
type RecordConnectionDTO struct {
	TargetUserID int64  `json:"target_user_id" validate:"required,gt=0"`
	Type         string `json:"type" validate:"required,oneof=matched requested mutual"`
}
