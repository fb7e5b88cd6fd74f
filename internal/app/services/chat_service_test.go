package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/semesterhub/internal/app/models/dto"
	"github.com/yigit/semesterhub/internal/pkg/apperrors"
)

func newChatUpstream(t *testing.T, handler http.HandlerFunc) (ChatService, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	service := NewChatService(ChatConfig{
		BaseURL:      server.URL + "/",
		Model:        "phi:latest",
		Temperature:  0.7,
		AskTimeout:   200 * time.Millisecond,
		ProbeTimeout: 200 * time.Millisecond,
	}, server.Client(), zerolog.Nop())
	return service, &calls
}

func TestChatService_Ask(t *testing.T) {
	var received upstreamChatRequest
	service, _ := newChatUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer":"Normalization, SQL and transactions.","model_used":"","response_time":1.8404,"context_chunks_used":4}`))
	})

	resp, err := service.Ask(context.Background(), dto.ChatRequest{Question: "What topics are covered in DBMS?"})
	require.NoError(t, err)

	assert.Equal(t, "syllabus", received.ContextType)
	assert.Equal(t, "phi:latest", received.Model)
	assert.Equal(t, 0.7, received.Temperature)

	assert.True(t, resp.Success)
	assert.Equal(t, "Normalization, SQL and transactions.", resp.Answer)
	assert.Equal(t, "phi:latest", resp.ModelUsed, "missing model_used falls back to the configured model")
	assert.Equal(t, int64(1840), resp.ResponseTimeMS)
	assert.Equal(t, 4, resp.ContextChunksUsed)
}

func TestChatService_AskValidation(t *testing.T) {
	service, calls := newChatUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name  string
		req   dto.ChatRequest
		field string
	}{
		{name: "empty question", req: dto.ChatRequest{Question: ""}, field: "question"},
		{name: "blank question", req: dto.ChatRequest{Question: "   "}, field: "question"},
		{name: "too long", req: dto.ChatRequest{Question: strings.Repeat("a", 1001)}, field: "question"},
		{name: "unknown context", req: dto.ChatRequest{Question: "hi", ContextType: "notes"}, field: "context_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Ask(context.Background(), tt.req)
			var verr *apperrors.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}
	assert.Zero(t, atomic.LoadInt32(calls), "invalid questions never reach the AI service")
}

func TestChatService_AskUpstreamError(t *testing.T) {
	service, _ := newChatUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`model not loaded`))
	})

	_, err := service.Ask(context.Background(), dto.ChatRequest{Question: "hello", ContextType: "question"})
	var uerr *apperrors.UpstreamError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, dto.ChatUnavailableMessage, uerr.Message)
	assert.Equal(t, "model not loaded", uerr.Details)
	assert.Equal(t, http.StatusServiceUnavailable, uerr.StatusCode)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestChatService_AskTimeout(t *testing.T) {
	service, _ := newChatUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})

	start := time.Now()
	_, err := service.Ask(context.Background(), dto.ChatRequest{Question: "hello"})
	assert.Less(t, time.Since(start), 2*time.Second)

	var uerr *apperrors.UpstreamError
	require.True(t, errors.As(err, &uerr))
	assert.NotEmpty(t, uerr.Details)
}

func TestChatService_AskMalformedJSON(t *testing.T) {
	service, _ := newChatUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := service.Ask(context.Background(), dto.ChatRequest{Question: "hello"})
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestChatService_Probes(t *testing.T) {
	service, _ := newChatUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/models":
			_, _ = w.Write([]byte(`{"models":["phi:latest","llama3"]}`))
		case "/health":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"status":"down"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	models, err := service.Models(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"models":["phi:latest","llama3"]}`, string(models))

	_, err = service.Health(ctx)
	var uerr *apperrors.UpstreamError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, HealthUnavailableMessage, uerr.Message)
	assert.Equal(t, http.StatusInternalServerError, uerr.StatusCode)
}

func TestChatService_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	service := NewChatService(ChatConfig{BaseURL: url}, nil, zerolog.Nop())

	_, err := service.Models(context.Background())
	var uerr *apperrors.UpstreamError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, ModelsUnavailableMessage, uerr.Message)

	_, err = service.Ask(context.Background(), dto.ChatRequest{Question: "hello"})
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, dto.ChatUnavailableMessage, uerr.Message)
}
