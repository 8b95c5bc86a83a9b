package matching

import (
	"time"
)

// Score methods: which path produced a candidate's score
const (
	MethodDeterministic = "deterministic"
	MethodAssisted      = "assisted"
)

// CompatibilityFactors is the per-factor breakdown behind a score, each 0..100
type CompatibilityFactors struct {
	SkillsAlignment       float64 `json:"skills_alignment"`
	InterestsAlignment    float64 `json:"interests_alignment"`
	AvailabilityMatch     float64 `json:"availability_match"`
	LocationCompatibility float64 `json:"location_compatibility"`
	CommunicationStyle    float64 `json:"communication_style"`
	ExperienceLevel       float64 `json:"experience_level"`
}

// CompatibilityResult is the full outcome of scoring one candidate against a
// seeker. Ephemeral; produced fresh per request and never persisted, because
// preferences and pool membership can change between calls.
type CompatibilityResult struct {
	CandidateID     int64                `json:"candidate_id"`
	Score           float64              `json:"score"` // 0..100, integer-valued
	Factors         CompatibilityFactors `json:"factors"`
	Reasoning       string               `json:"reasoning"`
	Recommendations []string             `json:"recommendations"`
	DistanceKm      *float64             `json:"distance_km,omitempty"`
}

// CandidateSummary is the public view of a matched member
type CandidateSummary struct {
	UserID             int64     `json:"user_id"`
	Username           string    `json:"username"`
	DisplayName        string    `json:"display_name"`
	CommunicationStyle string    `json:"communication_style"`
	LastActive         time.Time `json:"last_active"`
}

// RankedMatch is one entry of a ranked match list
type RankedMatch struct {
	Candidate       CandidateSummary     `json:"candidate"`
	Score           float64              `json:"score"`
	Factors         CompatibilityFactors `json:"factors"`
	Reasoning       string               `json:"reasoning"`
	Recommendations []string             `json:"recommendations"`
	DistanceKm      *float64             `json:"distance_km,omitempty"`
	Method          string               `json:"method"` // deterministic or assisted
}

// MatchResult is the full response of a ranking request
type MatchResult struct {
	Matches       []*RankedMatch `json:"matches"`
	TotalEligible int            `json:"total_eligible"`
	Degraded      int            `json:"degraded"` // entries scored by the deterministic fallback
}
