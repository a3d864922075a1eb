package trivia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Spok95/pocket-bot/internal/infra/metrics"
)

// Коды response_code Open Trivia DB.
const (
	codeSuccess     = 0
	codeNoResults   = 1
	codeRateLimited = 5
)

// StatusError не-2xx ответ сервера.
type StatusError struct{ Code int }

func (e *StatusError) Error() string { return fmt.Sprintf("trivia: http status %d", e.Code) }

// APIError ненулевой response_code в теле.
type APIError struct{ Code int }

func (e *APIError) Error() string {
	switch e.Code {
	case codeNoResults:
		return "trivia: not enough questions for query"
	case codeRateLimited:
		return "trivia: rate limited"
	}
	return fmt.Sprintf("trivia: api response code %d", e.Code)
}

type Query struct {
	Amount     int
	Category   int
	Difficulty string
	Type       string // "multiple" по умолчанию
}

type Client struct {
	base string
	http *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

type apiResponse struct {
	ResponseCode int        `json:"response_code"`
	Results      []Question `json:"results"`
}

// Questions GET {base}/api.php?amount=&category=&difficulty=&type=
func (c *Client) Questions(ctx context.Context, q Query) ([]Question, error) {
	if q.Type == "" {
		q.Type = "multiple"
	}
	params := url.Values{}
	params.Set("amount", strconv.Itoa(q.Amount))
	if q.Category > 0 {
		params.Set("category", strconv.Itoa(q.Category))
	}
	if q.Difficulty != "" {
		params.Set("difficulty", q.Difficulty)
	}
	params.Set("type", q.Type)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api.php?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.TriviaRequest("http_error")
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.TriviaRequest("http_error")
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.TriviaRequest("decode_error")
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if body.ResponseCode != codeSuccess {
		metrics.TriviaRequest("api_error")
		return nil, &APIError{Code: body.ResponseCode}
	}

	out := make([]Question, 0, len(body.Results))
	for _, r := range body.Results {
		out = append(out, r.unescape())
	}
	if len(out) == 0 {
		metrics.TriviaRequest("empty")
	} else {
		metrics.TriviaRequest("ok")
	}
	return out, nil
}
