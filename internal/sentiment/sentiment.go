// Package sentiment classifies free text as POSITIVE or NEGATIVE by
// calling an external pre-trained model. The model itself is an opaque
// collaborator behind the Annotator interface.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// MaxInputChars is how much of the text is sent to the classifier.
const MaxInputChars = 1500

// Labels returned by the classifier.
const (
	LabelPositive = "POSITIVE"
	LabelNegative = "NEGATIVE"
)

// Result is a classification outcome. Score is in [0,1].
type Result struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Annotator classifies text. Implementations must be safe for
// concurrent use.
type Annotator interface {
	Annotate(ctx context.Context, text string) (Result, error)
}

// Truncate cuts text to MaxInputChars characters.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxInputChars {
		return text
	}
	return string(runes[:MaxInputChars])
}

const (
	clientTimeout         = 30 * time.Second
	dialTimeout           = 10 * time.Second
	tlsHandshakeTimeout   = 10 * time.Second
	responseHeaderTimeout = 15 * time.Second
)

// HTTPAnnotator calls an inference endpoint speaking the Hugging Face
// text-classification protocol: POST {"inputs": text} returning
// [[{"label": ..., "score": ...}, ...]] sorted by score.
type HTTPAnnotator struct {
	endpoint string
	token    string
	client   *http.Client
}

func NewHTTPAnnotator(endpoint, token string) *HTTPAnnotator {
	return &HTTPAnnotator{
		endpoint: endpoint,
		token:    token,
		client: &http.Client{
			Timeout: clientTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   dialTimeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   tlsHandshakeTimeout,
				ResponseHeaderTimeout: responseHeaderTimeout,
				MaxIdleConns:          10,
				IdleConnTimeout:       90 * time.Second,
			},
		},
	}
}

var _ Annotator = (*HTTPAnnotator)(nil)

var errEmptyResponse = errors.New("classifier returned no candidates")

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

// Annotate sends the (truncated) text to the endpoint and returns the
// top-scoring label.
func (a *HTTPAnnotator) Annotate(ctx context.Context, text string) (Result, error) {
	body, err := json.Marshal(inferenceRequest{Inputs: Truncate(text)})
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("call classifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, fmt.Errorf("classifier returned %d: %s", resp.StatusCode, b)
	}

	var candidates [][]Result
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return Result{}, fmt.Errorf("decode classifier response: %w", err)
	}
	if len(candidates) == 0 || len(candidates[0]) == 0 {
		return Result{}, errEmptyResponse
	}

	best := candidates[0][0]
	for _, c := range candidates[0][1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best, nil
}
