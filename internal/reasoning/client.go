// internal/reasoning/client.go
// HTTP client for the external reasoning service used for assisted
// compatibility scoring. Every failure mode here (unreachable, non-2xx,
// unparsable body, timeout, open breaker) surfaces as an error; the
// matching orchestrator owns the deterministic fallback.

package reasoning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

var (
	ErrServiceUnavailable = errors.New("reasoning service unavailable")
	ErrBadResponse        = errors.New("reasoning service returned an unexpected response")
)

// maxErrorBodySize caps how much of an error response body is read back
const maxErrorBodySize = 8 * 1024

// ProfileSummary is the subset of a member profile sent to the reasoning
// service. It deliberately excludes identity details beyond the user ID.
type ProfileSummary struct {
	UserID             int64        `json:"user_id"`
	Skills             []SkillInfo  `json:"skills"`
	Interests          []TopicInfo  `json:"interests"`
	CommunicationStyle string       `json:"communication_style"`
	ResponseTime       string       `json:"response_time"`
	MeetingTypes       []string     `json:"meeting_types"`
	DistanceKm         *float64     `json:"distance_km,omitempty"`
}

// SkillInfo is one skill in a profile summary
type SkillInfo struct {
	Name         string `json:"name"`
	Level        string `json:"level"`
	Category     string `json:"category"`
	CanTeach     bool   `json:"can_teach"`
	WantsToLearn bool   `json:"wants_to_learn"`
}

// TopicInfo is one interest in a profile summary
type TopicInfo struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Intensity string `json:"intensity"`
}

// FactorScores carries the per-factor breakdown returned by the service
type FactorScores struct {
	SkillsAlignment       float64 `json:"skills_alignment"`
	InterestsAlignment    float64 `json:"interests_alignment"`
	AvailabilityMatch     float64 `json:"availability_match"`
	LocationCompatibility float64 `json:"location_compatibility"`
	CommunicationStyle    float64 `json:"communication_style"`
	ExperienceLevel       float64 `json:"experience_level"`
}

// RateResult is the parsed, clamped response from the reasoning service
type RateResult struct {
	Score           float64      `json:"score"`
	Factors         FactorScores `json:"factors"`
	Reasoning       string       `json:"reasoning"`
	Recommendations []string     `json:"recommendations"`
}

// Client rates the compatibility of a seeker/candidate pair
type Client interface {
	Rate(ctx context.Context, seeker, candidate *ProfileSummary) (*RateResult, error)
}

// HTTPClient talks to the reasoning service over HTTP with circuit-breaker
// protection so a dead service stops costing a full timeout per candidate.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*RateResult]
}

// NewHTTPClient creates a reasoning client. The timeout is a per-request
// backstop; callers pass tighter deadlines through context.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	settings := gobreaker.Settings{
		Name:    "reasoning-service",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}

	return &HTTPClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    gobreaker.NewCircuitBreaker[*RateResult](settings),
	}
}

type rateRequest struct {
	Seeker    *ProfileSummary `json:"seeker"`
	Candidate *ProfileSummary `json:"candidate"`
}

// Rate asks the service to score a pair and parses the structured result
func (c *HTTPClient) Rate(ctx context.Context, seeker, candidate *ProfileSummary) (*RateResult, error) {
	result, err := c.breaker.Execute(func() (*RateResult, error) {
		return c.rate(ctx, seeker, candidate)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit open", ErrServiceUnavailable)
		}
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) rate(ctx context.Context, seeker, candidate *ProfileSummary) (*RateResult, error) {
	body, err := json.Marshal(&rateRequest{Seeker: seeker, Candidate: candidate})
	if err != nil {
		return nil, fmt.Errorf("marshal rate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/rate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build rate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody := readBodyForError(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrBadResponse, resp.StatusCode, errBody)
	}

	var result RateResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	result.clamp()
	return &result, nil
}

// clamp forces every numeric field into [0,100]; missing fields already
// decoded to zero
func (r *RateResult) clamp() {
	r.Score = clamp01(r.Score)
	r.Factors.SkillsAlignment = clamp01(r.Factors.SkillsAlignment)
	r.Factors.InterestsAlignment = clamp01(r.Factors.InterestsAlignment)
	r.Factors.AvailabilityMatch = clamp01(r.Factors.AvailabilityMatch)
	r.Factors.LocationCompatibility = clamp01(r.Factors.LocationCompatibility)
	r.Factors.CommunicationStyle = clamp01(r.Factors.CommunicationStyle)
	r.Factors.ExperienceLevel = clamp01(r.Factors.ExperienceLevel)
	if r.Recommendations == nil {
		r.Recommendations = []string{}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// readBodyForError reads a bounded amount of the response body for diagnostics
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	return body
}
