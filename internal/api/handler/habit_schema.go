package handler

import (
	"github.com/habitcoach/coaching-system/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type saveHabitsRequest struct {
	Date           string `json:"date"             validate:"required,datetime=2006-01-02"`
	WeightCheck    string `json:"weight_check"     validate:"omitempty,oneof=yes no"`
	MorningRitual  string `json:"morning_ritual"   validate:"omitempty,oneof=yes no"`
	Workout        string `json:"workout"          validate:"omitempty,oneof=yes no"`
	Meal10am       string `json:"meal_10am"`
	HungerTimes    string `json:"hunger_times"`
	OutdoorTime    string `json:"outdoor_time"`
	EnergyLevel2pm int    `json:"energy_level_2pm" validate:"min=0,max=10"`
	Meal6pm        string `json:"meal_6pm"`
	EnergyLevel8pm int    `json:"energy_level_8pm" validate:"min=0,max=10"`
	WimHof         string `json:"wim_hof"          validate:"omitempty,oneof=yes no"`
	TrackedSleep   string `json:"tracked_sleep"    validate:"omitempty,oneof=yes no"`
	DayDescription string `json:"day_description"`
}

func (r saveHabitsRequest) toDomain(userID string) domain.DailyHabits {
	return domain.DailyHabits{
		UserID:         userID,
		Date:           r.Date,
		WeightCheck:    domain.Answer(r.WeightCheck),
		MorningRitual:  domain.Answer(r.MorningRitual),
		Workout:        domain.Answer(r.Workout),
		Meal10am:       r.Meal10am,
		HungerTimes:    r.HungerTimes,
		OutdoorTime:    r.OutdoorTime,
		EnergyLevel2pm: r.EnergyLevel2pm,
		Meal6pm:        r.Meal6pm,
		EnergyLevel8pm: r.EnergyLevel8pm,
		WimHof:         domain.Answer(r.WimHof),
		TrackedSleep:   domain.Answer(r.TrackedSleep),
		DayDescription: r.DayDescription,
	}
}

type habitPageResponse struct {
	Data    []*domain.DailyHabits `json:"data"`
	Total   int                   `json:"total"`
	Page    int                   `json:"page"`
	Limit   int                   `json:"limit"`
	HasMore bool                  `json:"has_more"`
}
