package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/yigit/semesterhub/internal/app/models/dto"
	"github.com/yigit/semesterhub/internal/pkg/apperrors"
	"github.com/yigit/semesterhub/internal/pkg/metrics"
	"github.com/yigit/semesterhub/internal/pkg/validation"
)

// Context types the AI service can answer from
const (
	ContextSyllabus = "syllabus"
	ContextQuestion = "question"
)

// Probe failure messages returned by Models and Health
const (
	ModelsUnavailableMessage = "Failed to fetch models"
	HealthUnavailableMessage = "AI engine health check failed"
)

// upstream bodies larger than this are truncated before being echoed back
const maxUpstreamBody = 64 * 1024

// ChatConfig configures the AI service client
type ChatConfig struct {
	BaseURL      string
	Model        string
	Temperature  float64
	AskTimeout   time.Duration
	ProbeTimeout time.Duration
}

// ChatService forwards questions to the AI service
type ChatService interface {
	// Ask returns a *apperrors.ValidationError for bad input and an
	// *apperrors.UpstreamError when the AI service fails.
	Ask(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error)
	Models(ctx context.Context) (json.RawMessage, error)
	Health(ctx context.Context) (json.RawMessage, error)
}

type chatServiceImpl struct {
	config ChatConfig
	client *http.Client
	logger zerolog.Logger
}

// NewChatService creates a new ChatService. A nil client uses a fresh
// http.Client; per-call timeouts come from config.
func NewChatService(config ChatConfig, client *http.Client, logger zerolog.Logger) ChatService {
	if client == nil {
		client = &http.Client{}
	}
	if config.Model == "" {
		config.Model = "phi:latest"
	}
	if config.AskTimeout <= 0 {
		config.AskTimeout = 30 * time.Second
	}
	if config.ProbeTimeout <= 0 {
		config.ProbeTimeout = 10 * time.Second
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &chatServiceImpl{config: config, client: client, logger: logger}
}

type upstreamChatRequest struct {
	Question    string  `json:"question"`
	ContextType string  `json:"context_type"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
}

type upstreamChatResponse struct {
	Answer            string   `json:"answer"`
	ModelUsed         string   `json:"model_used"`
	ResponseTime      *float64 `json:"response_time"`
	ContextChunksUsed int      `json:"context_chunks_used"`
}

func validateChatRequest(req *dto.ChatRequest) error {
	verr := validation.RequireText("question", req.Question)
	if verr == nil && utf8.RuneCountInString(req.Question) > validation.QuestionMaxLength {
		verr = apperrors.NewValidationError("question",
			fmt.Sprintf("The question field must not be greater than %d characters.", validation.QuestionMaxLength))
	}
	if verr == nil {
		verr = &apperrors.ValidationError{}
	}

	req.ContextType = strings.TrimSpace(req.ContextType)
	switch req.ContextType {
	case "":
		req.ContextType = ContextSyllabus
	case ContextSyllabus, ContextQuestion:
	default:
		verr.Add("context_type", "The selected context type is invalid.")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// Ask validates the question and forwards it to POST {base}/chat
func (s *chatServiceImpl) Ask(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error) {
	if err := validateChatRequest(&req); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(upstreamChatRequest{
		Question:    req.Question,
		ContextType: req.ContextType,
		Model:       s.config.Model,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.AskTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		metrics.RecordUpstream("chat", metrics.OutcomeTransport)
		s.logger.Error().Err(err).Str("question", req.Question).Stack().Msg("Chat request to AI service failed")
		return nil, &apperrors.UpstreamError{Message: dto.ChatUnavailableMessage, Details: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		metrics.RecordUpstream("chat", metrics.OutcomeTransport)
		s.logger.Error().Err(err).Str("question", req.Question).Msg("Failed to read AI service response")
		return nil, &apperrors.UpstreamError{Message: dto.ChatUnavailableMessage, Details: err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordUpstream("chat", metrics.OutcomeUpstreamFail)
		s.logger.Error().
			Int("status", resp.StatusCode).
			Str("response", string(body)).
			Str("question", req.Question).
			Msg("AI service returned an error")
		return nil, &apperrors.UpstreamError{Message: dto.ChatUnavailableMessage, Details: string(body), StatusCode: resp.StatusCode}
	}

	var decoded upstreamChatResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		metrics.RecordUpstream("chat", metrics.OutcomeUpstreamFail)
		s.logger.Error().Err(err).Str("response", string(body)).Msg("AI service returned malformed JSON")
		return nil, &apperrors.UpstreamError{Message: dto.ChatUnavailableMessage, Details: err.Error(), StatusCode: resp.StatusCode, Err: err}
	}
	metrics.RecordUpstream("chat", metrics.OutcomeSuccess)

	result := &dto.ChatResponse{
		Success:           true,
		Answer:            decoded.Answer,
		ModelUsed:         decoded.ModelUsed,
		ContextChunksUsed: decoded.ContextChunksUsed,
	}
	if result.ModelUsed == "" {
		result.ModelUsed = s.config.Model
	}
	if decoded.ResponseTime != nil {
		result.ResponseTimeMS = int64(math.Round(*decoded.ResponseTime * 1000))
	}
	return result, nil
}

// Models passes through GET {base}/models
func (s *chatServiceImpl) Models(ctx context.Context) (json.RawMessage, error) {
	return s.probe(ctx, "models", ModelsUnavailableMessage)
}

// Health passes through GET {base}/health
func (s *chatServiceImpl) Health(ctx context.Context) (json.RawMessage, error) {
	return s.probe(ctx, "health", HealthUnavailableMessage)
}

func (s *chatServiceImpl) probe(ctx context.Context, endpoint, failure string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.ProbeTimeout)
	defer cancel()

	fail := func(err error, status int, details string) error {
		outcome := metrics.OutcomeUpstreamFail
		if err != nil {
			outcome = metrics.OutcomeTransport
		}
		metrics.RecordUpstream(endpoint, outcome)
		s.logger.Error().Err(err).Int("status", status).Str("endpoint", endpoint).Msg("AI service probe failed")
		return &apperrors.UpstreamError{Message: failure, Details: details, StatusCode: status, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.BaseURL+"/"+endpoint, nil)
	if err != nil {
		return nil, fail(err, 0, err.Error())
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fail(err, 0, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return nil, fail(err, resp.StatusCode, err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fail(nil, resp.StatusCode, string(body))
	}
	if !json.Valid(body) {
		return nil, fail(errors.New("invalid JSON from AI service"), resp.StatusCode, string(body))
	}

	metrics.RecordUpstream(endpoint, metrics.OutcomeSuccess)
	return json.RawMessage(body), nil
}
