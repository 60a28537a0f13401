// Package voice holds the HTTP clients for the external
// speech-to-text and language-understanding services. Both are
// best-effort dependencies: calls carry explicit timeouts and honor
// context cancellation so a dismissed recording stops the request
// mid-flight.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/habitcoach/coaching-system/internal/core/ports"
)

const defaultTimeout = 15 * time.Second

// TranscriberClient calls the external speech-to-text endpoint with a
// multipart audio upload.
type TranscriberClient struct {
	endpoint string
	client   *http.Client
}

// NewTranscriberClient builds a client for the given endpoint. A
// default timeout is applied when none is provided.
func NewTranscriberClient(endpoint string, timeout time.Duration) *TranscriberClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &TranscriberClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Transcribe uploads audio and returns the recognized text.
func (t *TranscriberClient) Transcribe(ctx context.Context, audio []byte, fileName string) (*ports.Transcription, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("audio", fileName)
	if err != nil {
		return nil, fmt.Errorf("transcribe: build form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("transcribe: write audio: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("transcribe: close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("transcribe: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transcribe: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("transcribe: read response: %w", err)
	}
	var out ports.Transcription
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("transcribe: decode response: %w", err)
	}
	return &out, nil
}
