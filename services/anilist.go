// Package services provides external service integrations.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"anicatalog/models"
)

// maxResponseBytes bounds how much of a response body is read
const maxResponseBytes = 8 << 20

// AniListService handles interactions with the AniList GraphQL API
type AniListService struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewAniListService creates a new AniList service instance.
// An empty endpoint falls back to AniListEndpoint.
func NewAniListService(endpoint string, timeout time.Duration, logger *zap.Logger) *AniListService {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = AniListEndpoint
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AniListService{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// Query posts one query+variables pair and decodes the data payload into out.
// It makes exactly one attempt; failures are *NetworkError, *QueryError or *DecodeError.
func (s *AniListService) Query(ctx context.Context, query string, variables map[string]any, out any) error {
	if variables == nil {
		variables = map[string]any{}
	}
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.logger.Warn("Failed to close response body", zap.Error(err))
		}
	}()

	s.logger.Debug("AniList request finished",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NetworkError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &NetworkError{StatusCode: resp.StatusCode, Status: resp.Status, Err: err}
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return &DecodeError{Err: err}
	}
	if len(envelope.Errors) > 0 {
		first := envelope.Errors[0]
		return &QueryError{Message: first.Message, Status: first.Status}
	}
	if len(envelope.Data) == 0 || bytes.Equal(envelope.Data, []byte("null")) {
		return &DecodeError{Err: errors.New("response has no data")}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// Browse fetches the home page aggregate
func (s *AniListService) Browse(ctx context.Context, vars BrowseVariables) (*models.BrowseData, error) {
	var data struct {
		Trending page `json:"trending"`
		Seasonal page `json:"seasonal"`
		TopRated page `json:"topRated"`
		Upcoming page `json:"upcoming"`
	}
	if err := s.Query(ctx, BrowseQuery, vars.asMap(), &data); err != nil {
		return nil, err
	}
	return &models.BrowseData{
		Trending: data.Trending.summaries(),
		Seasonal: data.Seasonal.summaries(),
		TopRated: data.TopRated.summaries(),
		Upcoming: data.Upcoming.summaries(),
	}, nil
}

// GetMedia fetches the detail projection of one media entry
func (s *AniListService) GetMedia(ctx context.Context, id int) (*models.MediaDetail, error) {
	var data struct {
		Media *aniListMedia `json:"Media"`
	}
	if err := s.Query(ctx, DetailQuery, map[string]any{"id": id}, &data); err != nil {
		return nil, err
	}
	if data.Media == nil {
		return nil, &DecodeError{Err: fmt.Errorf("media %d missing from response", id)}
	}
	return data.Media.toDetail(), nil
}

// Search runs a text search and returns hits in API order
func (s *AniListService) Search(ctx context.Context, term string, perPage int) ([]models.SearchHit, error) {
	var data struct {
		Page struct {
			Media []models.SearchHit `json:"media"`
		} `json:"Page"`
	}
	vars := map[string]any{"search": term, "perPage": perPage}
	if err := s.Query(ctx, SearchQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.Page.Media == nil {
		return []models.SearchHit{}, nil
	}
	return data.Page.Media, nil
}
