package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/habitcoach/coaching-system/internal/core/ports"
)

// extractionPrompt describes the habit schema to the language service.
// The response must be a JSON array of field updates.
const extractionPrompt = `Analyze this voice input for a diabetes management habit tracker and extract specific habit information.

Voice input: %q

Habit fields and their types:
- weight_check: "yes" | "no" | null (did they check their weight?)
- morning_ritual: "yes" | "no" | null (did they complete the morning routine?)
- workout: "yes" | "no" | null (did they complete their workout?)
- meal_10am: string (what they ate at 10am)
- hunger_times: string (when they felt hungry, e.g. "noon and 7pm")
- outdoor_time: string (time spent outside, e.g. "30 minute walk")
- energy_level_2pm: number 0-10 (energy level at 2pm)
- meal_6pm: string (what they ate at 6pm)
- energy_level_8pm: number 0-10 (energy level at 8pm)
- wim_hof: "yes" | "no" | null (did they do Wim Hof breathing before bed?)
- tracked_sleep: "yes" | "no" | null (did they track their sleep?)
- day_description: string (general description of their day)

Extract only information clearly mentioned. Return a JSON array:
[{"field": "...", "value": ..., "confidence": "high|medium|low", "original_text": "..."}]`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type extractionRequest struct {
	Messages []chatMessage `json:"messages"`
}

type extractionResponse struct {
	Completion string `json:"completion"`
}

// ExtractorClient calls the external language-understanding service.
type ExtractorClient struct {
	endpoint string
	client   *http.Client
}

// NewExtractorClient builds a client for the given endpoint. A default
// timeout is applied when none is provided.
func NewExtractorClient(endpoint string, timeout time.Duration) *ExtractorClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ExtractorClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Extract sends the transcript plus schema description and parses the
// returned update tuples. Tuples missing a required attribute are
// discarded.
func (e *ExtractorClient) Extract(ctx context.Context, transcript string) ([]ports.HabitUpdate, error) {
	payload, err := json.Marshal(extractionRequest{
		Messages: []chatMessage{
			{Role: "system", Content: "You are a helpful assistant that extracts habit information from voice input. Always respond with valid JSON only."},
			{Role: "user", Content: fmt.Sprintf(extractionPrompt, transcript)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("extract: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("extract: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extract: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("extract: read response: %w", err)
	}
	var envelope extractionResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("extract: decode envelope: %w", err)
	}

	var tuples []struct {
		Field        string          `json:"field"`
		Value        json.RawMessage `json:"value"`
		Confidence   string          `json:"confidence"`
		OriginalText string          `json:"original_text"`
	}
	if err := json.Unmarshal([]byte(envelope.Completion), &tuples); err != nil {
		return nil, fmt.Errorf("extract: decode completion: %w", err)
	}

	// An absent value discards the tuple; an explicit null survives,
	// it is the valid "unset" state of the yes/no fields.
	updates := make([]ports.HabitUpdate, 0, len(tuples))
	for _, tp := range tuples {
		if tp.Field == "" || len(tp.Value) == 0 || tp.Confidence == "" || tp.OriginalText == "" {
			continue
		}
		var v any
		if err := json.Unmarshal(tp.Value, &v); err != nil {
			continue
		}
		updates = append(updates, ports.HabitUpdate{
			Field:        tp.Field,
			Value:        v,
			Confidence:   tp.Confidence,
			OriginalText: tp.OriginalText,
		})
	}
	return updates, nil
}
