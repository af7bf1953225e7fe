package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noperator/heph/pkg/command"
	"github.com/noperator/heph/pkg/config"
	"github.com/noperator/heph/pkg/logging"
)

const chatResponse = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o-mini",
  "choices": [{
    "index": 0,
    "message": {"role": "assistant", "content": "%s", "refusal": null},
    "finish_reason": "stop",
    "logprobs": null
  }],
  "usage": {"prompt_tokens": 1000000, "completion_tokens": 1000000, "total_tokens": 2000000}
}`

const modelsResponse = `{"object": "list", "data": [{"id": "gpt-4o-mini", "object": "model", "created": 1, "owned_by": "openai"}]}`

type recordedRequest struct {
	path string
	auth string
	body map[string]any
}

func newTestServer(t *testing.T, status int, body string, record *recordedRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if record != nil {
			record.path = r.URL.Path
			record.auth = r.Header.Get("Authorization")
			raw, _ := io.ReadAll(r.Body)
			if len(raw) > 0 {
				_ = json.Unmarshal(raw, &record.body)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClient(srvURL string) *Client {
	cfg := config.DefaultConfig()
	cfg.APIToken = "sk-test"
	cfg.Model = "gpt-4o-mini"
	cfg.BaseURL = srvURL

	client := NewClient(cfg)
	client.SetLogger(logging.Discard())
	return client
}

func TestClient_Answer(t *testing.T) {
	t.Parallel()

	var rec recordedRequest
	srv := newTestServer(t, http.StatusOK, fmtResponse("Use ls -la"), &rec)

	answer, err := testClient(srv.URL).Answer(context.Background(), "list files", command.ResponseText)
	require.NoError(t, err)

	assert.Equal(t, "Use ls -la", answer.Text)
	assert.Equal(t, "gpt-4o-mini", answer.Model)
	assert.Equal(t, "stop", answer.FinishReason)

	assert.Equal(t, "/chat/completions", rec.path)
	assert.Equal(t, "Bearer sk-test", rec.auth)
	assert.Equal(t, "gpt-4o-mini", rec.body["model"])
	assert.EqualValues(t, 1000, rec.body["max_tokens"])
	assert.EqualValues(t, 0, rec.body["temperature"])
	assert.EqualValues(t, 1, rec.body["top_p"])

	messages, ok := rec.body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	user := messages[1].(map[string]any)
	assert.Contains(t, user["content"], "list files")
}

func TestClient_AnswerTracksUsage(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, http.StatusOK, fmtResponse("ok"), nil)
	client := testClient(srv.URL)

	answer, err := client.Answer(context.Background(), "q", command.ResponseCode)
	require.NoError(t, err)
	assert.Equal(t, "code", answer.Usage.ResponseType)
	assert.InDelta(t, 0.75, answer.Usage.TotalCostUSD, 1e-9)

	_, err = client.Answer(context.Background(), "q", command.ResponseDefault)
	require.NoError(t, err)

	stats := client.GetTokenStats()
	assert.EqualValues(t, 2, stats.CallCount)
	assert.EqualValues(t, 4000000, stats.TotalTokens)
	assert.InDelta(t, 1.5, stats.TotalCostUSD, 1e-9)
}

func TestClient_AnswerEmptyContent(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, http.StatusOK, fmtResponse(""), nil)
	_, err := testClient(srv.URL).Answer(context.Background(), "q", command.ResponseText)
	require.ErrorIs(t, err, ErrServiceDown)
}

func TestClient_ErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrInvalidToken},
		{"rate limited", http.StatusTooManyRequests, ErrDependencyBusy},
		{"server error", http.StatusInternalServerError, ErrServiceDown},
		{"bad request", http.StatusBadRequest, ErrServiceDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := newTestServer(t, tt.status, `{"error": {"message": "nope", "type": "test_error"}}`, nil)
			client := testClient(srv.URL)

			_, err := client.Answer(context.Background(), "q", command.ResponseText)
			assert.ErrorIs(t, err, tt.want)

			err = client.CheckValidity(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_CheckValidity(t *testing.T) {
	t.Parallel()

	var rec recordedRequest
	srv := newTestServer(t, http.StatusOK, modelsResponse, &rec)

	require.NoError(t, testClient(srv.URL).CheckValidity(context.Background()))
	assert.Equal(t, "/models", rec.path)
}

func TestClient_CanceledContext(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, http.StatusOK, modelsResponse, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := testClient(srv.URL).CheckValidity(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrServiceDown)
}

func TestGetModelPricing(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.150, GetModelPricing("gpt-4o-mini-2024-07-18").InputPerMillion)
	assert.Equal(t, 2.500, GetModelPricing("openai/gpt-4o").InputPerMillion)
	assert.Equal(t, 0.500, GetModelPricing("gpt-3.5-turbo").InputPerMillion)
	assert.Nil(t, GetModelPricing("llama3"))

	usage := TokenUsage{Model: "llama3", PromptTokens: 10}
	usage.CalculateCost()
	assert.Zero(t, usage.TotalCostUSD)
}

func fmtResponse(content string) string {
	quoted, _ := json.Marshal(content)
	return fmt.Sprintf(chatResponse, quoted[1:len(quoted)-1])
}
