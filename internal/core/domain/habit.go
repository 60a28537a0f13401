package domain

import (
	"fmt"
	"time"
)

// Answer is the tri-state value of a yes/no habit question. The empty
// string means the question was not answered.
type Answer string

const (
	AnswerYes   Answer = "yes"
	AnswerNo    Answer = "no"
	AnswerUnset Answer = ""
)

// Valid reports whether a is one of the three allowed states.
func (a Answer) Valid() bool {
	return a == AnswerYes || a == AnswerNo || a == AnswerUnset
}

// DailyHabits is one client's habit entry for a single calendar date.
// Its ID is derived from (UserID, Date), so saving the same date twice
// overwrites rather than duplicates.
type DailyHabits struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Date           string    `json:"date"` // YYYY-MM-DD
	WeightCheck    Answer    `json:"weight_check"`
	MorningRitual  Answer    `json:"morning_ritual"`
	Workout        Answer    `json:"workout"`
	Meal10am       string    `json:"meal_10am"`
	HungerTimes    string    `json:"hunger_times"`
	OutdoorTime    string    `json:"outdoor_time"`
	EnergyLevel2pm int       `json:"energy_level_2pm"`
	Meal6pm        string    `json:"meal_6pm"`
	EnergyLevel8pm int       `json:"energy_level_8pm"`
	WimHof         Answer    `json:"wim_hof"`
	TrackedSleep   Answer    `json:"tracked_sleep"`
	DayDescription string    `json:"day_description"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	// LastEditedBy is set only when the writer is not the entry's
	// owner, i.e. an admin edited on behalf of the client.
	LastEditedBy string `json:"last_edited_by,omitempty"`
}

// HabitID derives the deterministic record identifier for a
// (user, date) pair.
func HabitID(userID, date string) string {
	return fmt.Sprintf("habit-%s-%s", userID, date)
}

// Validate checks the fields the store refuses to persist: a malformed
// date or an energy level outside 0–10 (0 means unset).
func (h *DailyHabits) Validate() error {
	if h.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if _, err := time.Parse("2006-01-02", h.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	for _, lvl := range []int{h.EnergyLevel2pm, h.EnergyLevel8pm} {
		if lvl < 0 || lvl > 10 {
			return fmt.Errorf("%w: energy level must be between 0 and 10", ErrValidation)
		}
	}
	for _, a := range []Answer{h.WeightCheck, h.MorningRitual, h.Workout, h.WimHof, h.TrackedSleep} {
		if !a.Valid() {
			return fmt.Errorf("%w: answers must be yes, no or empty", ErrValidation)
		}
	}
	return nil
}
