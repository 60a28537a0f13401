package ports

import (
	"context"

	"github.com/habitcoach/coaching-system/internal/core/domain"
)

// Confidence grades attached to extracted habit updates.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// HabitUpdate is one proposed field change extracted from an
// utterance. The user reviews, edits or discards these before they
// are applied.
type HabitUpdate struct {
	Field        string `json:"field"`
	Value        any    `json:"value"`
	Confidence   string `json:"confidence"`
	OriginalText string `json:"original_text"`
}

// Transcription is the result of the external speech-to-text call.
type Transcription struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Transcriber converts recorded audio to text via an external service.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, fileName string) (*Transcription, error)
}

// Extractor turns a transcript into proposed habit updates via an
// external language-understanding service.
type Extractor interface {
	Extract(ctx context.Context, transcript string) ([]HabitUpdate, error)
}

// ExtractionCache memoizes extraction results per transcript so
// re-submitting the same recording skips the external call.
type ExtractionCache interface {
	Get(ctx context.Context, transcript string) ([]HabitUpdate, bool, error)
	Set(ctx context.Context, transcript string, updates []HabitUpdate) error
}

// ApplyUpdatesInput carries the user-approved updates to merge into a
// habit entry.
type ApplyUpdatesInput struct {
	ActorID      string
	TargetUserID string
	Date         string
	Updates      []HabitUpdate
}

// VoiceService is the voice-to-habit pipeline: transcribe, extract
// (with keyword fallback), and apply reviewed updates.
type VoiceService interface {
	Transcribe(ctx context.Context, audio []byte, fileName string) (*Transcription, error)
	Extract(ctx context.Context, transcript string) ([]HabitUpdate, error)
	Apply(ctx context.Context, in ApplyUpdatesInput) (*domain.DailyHabits, error)
}
