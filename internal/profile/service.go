// internal/profile/service.go

package profile

import (
	"context"
)

// Service exposes profile reads and writes to the HTTP layer
type Service interface {
	GetByUserID(ctx context.Context, userID int64) (*MemberProfile, error)
	Upsert(ctx context.Context, userID int64, dto *UpsertProfileDTO) (*MemberProfile, error)
}

type service struct {
	store Store
}

// NewService creates a profile service over the given store
func NewService(store Store) Service {
	return &service{store: store}
}

func (s *service) GetByUserID(ctx context.Context, userID int64) (*MemberProfile, error) {
	return s.store.GetProfileByUserID(ctx, userID)
}

func (s *service) Upsert(ctx context.Context, userID int64, dto *UpsertProfileDTO) (*MemberProfile, error) {
	p := &MemberProfile{
		UserID:               userID,
		Skills:               make(Skills, 0, len(dto.Skills)),
		Interests:            make(Interests, 0, len(dto.Interests)),
		CommunicationStyle:   dto.CommunicationStyle,
		AvailableForMatching: dto.AvailableForMatching,
	}

	for _, skill := range dto.Skills {
		p.Skills = append(p.Skills, Skill{
			Name:            skill.Name,
			Level:           skill.Level,
			CanTeach:        skill.CanTeach,
			WantsToLearn:    skill.WantsToLearn,
			Category:        skill.Category,
			YearsExperience: skill.YearsExperience,
		})
	}

	for _, interest := range dto.Interests {
		p.Interests = append(p.Interests, Interest{
			Name:      interest.Name,
			Category:  interest.Category,
			Intensity: interest.Intensity,
		})
	}

	slots := make([]TimeSlot, 0, len(dto.Availability.TimeSlots))
	for _, slot := range dto.Availability.TimeSlots {
		slots = append(slots, TimeSlot{
			Day:       slot.Day,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		})
	}

	p.Availability = AvailabilityJSON{
		TimeSlots:             slots,
		Timezone:              dto.Availability.Timezone,
		PreferredMeetingTypes: dto.Availability.PreferredMeetingTypes,
		ResponseTime:          dto.Availability.ResponseTime,
	}

	p.Preferences = PreferencesJSON{
		MaxDistanceKm:          dto.Preferences.MaxDistanceKm,
		PreferredSkillLevels:   dto.Preferences.PreferredSkillLevels,
		PriorityCategories:     dto.Preferences.PriorityCategories,
		ExcludeCategories:      dto.Preferences.ExcludeCategories,
		AgeRange:               dto.Preferences.AgeRange,
		GenderPreference:       dto.Preferences.GenderPreference,
		RequireMutualInterests: dto.Preferences.RequireMutualInterests,
		MinimumSharedInterests: dto.Preferences.MinimumSharedInterests,
	}

	if err := s.store.UpsertProfile(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}
