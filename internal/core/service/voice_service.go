package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/habitcoach/coaching-system/internal/api/metrics"
	"github.com/habitcoach/coaching-system/internal/core/domain"
	"github.com/habitcoach/coaching-system/internal/core/ports"
)

// VoiceService is the voice-to-habit pipeline. The primary extraction
// path delegates to an external language service; when it fails the
// keyword fallback keeps the feature degraded rather than broken. Only
// surviving, user-reviewed updates are merged into a habit entry.
type VoiceService struct {
	transcriber ports.Transcriber
	extractor   ports.Extractor
	cache       ports.ExtractionCache
	habits      ports.HabitService
	log         zerolog.Logger
}

// NewVoiceService builds a VoiceService. cache may be nil, in which
// case every transcript hits the external service.
func NewVoiceService(
	transcriber ports.Transcriber,
	extractor ports.Extractor,
	cache ports.ExtractionCache,
	habits ports.HabitService,
	log zerolog.Logger,
) *VoiceService {
	return &VoiceService{
		transcriber: transcriber,
		extractor:   extractor,
		cache:       cache,
		habits:      habits,
		log:         log,
	}
}

// Transcribe converts recorded audio to text.
func (s *VoiceService) Transcribe(ctx context.Context, audio []byte, fileName string) (*ports.Transcription, error) {
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: empty recording", domain.ErrValidation)
	}
	out, err := s.transcriber.Transcribe(ctx, audio, fileName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}
	return out, nil
}

// Extract proposes habit updates for a transcript. Cache first, then
// the language service, then the keyword fallback.
func (s *VoiceService) Extract(ctx context.Context, transcript string) ([]ports.HabitUpdate, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, fmt.Errorf("%w: empty transcript", domain.ErrValidation)
	}

	if s.cache != nil {
		if updates, ok, err := s.cache.Get(ctx, transcript); err != nil {
			s.log.Warn().Err(err).Msg("extraction cache lookup failed")
		} else if ok {
			metrics.VoiceExtractionsTotal.WithLabelValues("cache").Inc()
			return updates, nil
		}
	}

	// A transcript with nothing recognizable yields an empty list,
	// never an error; the user still gets the review step.
	updates, err := s.extractor.Extract(ctx, transcript)
	path := "ai"
	if err != nil {
		s.log.Warn().Err(err).Msg("language extraction failed, falling back to keyword matching")
		updates = keywordAnalysis(transcript)
		path = "fallback"
	}
	if updates == nil {
		updates = []ports.HabitUpdate{}
	}
	metrics.VoiceExtractionsTotal.WithLabelValues(path).Inc()

	if s.cache != nil && path == "ai" {
		if err := s.cache.Set(ctx, transcript, updates); err != nil {
			s.log.Warn().Err(err).Msg("extraction cache store failed")
		}
	}
	return updates, nil
}

// Apply merges user-approved updates into the target habit entry,
// field by field, last write per field wins. Energy values are
// coerced to integers; updates that cannot be coerced are skipped.
func (s *VoiceService) Apply(ctx context.Context, in ports.ApplyUpdatesInput) (*domain.DailyHabits, error) {
	existing, err := s.habits.ByDate(ctx, in.ActorID, in.TargetUserID, in.Date)
	if err != nil {
		return nil, err
	}

	habit := domain.DailyHabits{UserID: in.TargetUserID, Date: in.Date}
	if existing != nil {
		habit = *existing
	}

	for _, u := range in.Updates {
		if !applyUpdate(&habit, u) {
			s.log.Warn().Str("field", u.Field).Msg("skipping uncoercible voice update")
		}
	}

	return s.habits.Save(ctx, ports.SaveHabitsInput{
		ActorID:      in.ActorID,
		TargetUserID: in.TargetUserID,
		Habits:       habit,
	})
}

// applyUpdate writes one update into the entry; false means the value
// could not be coerced to the field's type.
func applyUpdate(h *domain.DailyHabits, u ports.HabitUpdate) bool {
	switch u.Field {
	case "weight_check":
		return setAnswer(&h.WeightCheck, u.Value)
	case "morning_ritual":
		return setAnswer(&h.MorningRitual, u.Value)
	case "workout":
		return setAnswer(&h.Workout, u.Value)
	case "wim_hof":
		return setAnswer(&h.WimHof, u.Value)
	case "tracked_sleep":
		return setAnswer(&h.TrackedSleep, u.Value)
	case "meal_10am":
		return setString(&h.Meal10am, u.Value)
	case "meal_6pm":
		return setString(&h.Meal6pm, u.Value)
	case "hunger_times":
		return setString(&h.HungerTimes, u.Value)
	case "outdoor_time":
		return setString(&h.OutdoorTime, u.Value)
	case "day_description":
		return setString(&h.DayDescription, u.Value)
	case "energy_level_2pm":
		return setEnergy(&h.EnergyLevel2pm, u.Value)
	case "energy_level_8pm":
		return setEnergy(&h.EnergyLevel8pm, u.Value)
	default:
		return false
	}
}

func setAnswer(dst *domain.Answer, v any) bool {
	if v == nil {
		*dst = domain.AnswerUnset
		return true
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	a := domain.Answer(strings.ToLower(s))
	if !a.Valid() {
		return false
	}
	*dst = a
	return true
}

func setString(dst *string, v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	*dst = s
	return true
}

// setEnergy coerces JSON numbers and numeric strings to an int level.
func setEnergy(dst *int, v any) bool {
	var level int
	switch n := v.(type) {
	case float64:
		level = int(n)
	case int:
		level = n
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return false
		}
		level = parsed
	default:
		return false
	}
	if level < 0 || level > 10 {
		return false
	}
	*dst = level
	return true
}
