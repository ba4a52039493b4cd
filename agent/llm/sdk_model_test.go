package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/appointment-assistant/agent/contract"
	"github.com/tanpawarit/appointment-assistant/agent/tool"
)

type capturedRequest struct {
	Model      string           `json:"model"`
	MaxTokens  int              `json:"max_tokens"`
	ToolChoice any              `json:"tool_choice"`
	Tools      []map[string]any `json:"tools"`
	Messages   []map[string]any `json:"messages"`
}

func newCompletionServer(t *testing.T, status int, body string) (*httptest.Server, func() []capturedRequest) {
	t.Helper()

	var (
		mu   sync.Mutex
		reqs []capturedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req capturedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		mu.Lock()
		reqs = append(reqs, req)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedRequest(nil), reqs...)
	}
}

func sdkConfig(baseURL string) Config {
	return Config{
		BaseURL:            baseURL,
		APIKey:             "test-key",
		Model:              "gpt-3.5-turbo",
		MaxCompletionToken: 500,
		Temperature:        -1,
		Timeout:            5 * time.Second,
		Driver:             DriverSDK,
	}
}

func TestSDKChatModelToolCalls(t *testing.T) {
	t.Parallel()

	srv, captured := newCompletionServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "gpt-4o-mini",
		"choices": [{
			"index": 0,
			"finish_reason": "tool_calls",
			"message": {
				"role": "assistant",
				"content": null,
				"tool_calls": [{
					"id": "call_1",
					"type": "function",
					"function": {"name": "register_user", "arguments": "{\"name\":\"Ann\",\"date_of_birth\":\"1990-01-01\"}"}
				}]
			}
		}]
	}`)

	chatModel, err := sdkConfig(srv.URL).NewChatModel(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bound, err := chatModel.WithTools(tool.Infos())
	if err != nil {
		t.Fatalf("bind tools: %v", err)
	}

	out, err := bound.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("you book appointments"),
		schema.UserMessage("register Ann born 1990-01-01"),
	}, einomodel.WithModel("gpt-4o-mini"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(out.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(out.ToolCalls))
	}
	if out.ToolCalls[0].ID != "call_1" || out.ToolCalls[0].Function.Name != tool.ToolRegisterUser {
		t.Fatalf("unexpected tool call: %+v", out.ToolCalls[0])
	}

	reqs := captured()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if reqs[0].Model != "gpt-4o-mini" {
		t.Fatalf("per-call model not applied: %s", reqs[0].Model)
	}
	if reqs[0].MaxTokens != 500 {
		t.Fatalf("unexpected max_tokens: %d", reqs[0].MaxTokens)
	}
	if reqs[0].ToolChoice != "auto" {
		t.Fatalf("unexpected tool_choice: %v", reqs[0].ToolChoice)
	}
	if len(reqs[0].Tools) != 4 {
		t.Fatalf("expected 4 tools, got %d", len(reqs[0].Tools))
	}
}

func TestSDKChatModelReplaysToolTranscript(t *testing.T) {
	t.Parallel()

	srv, captured := newCompletionServer(t, http.StatusOK, `{
		"id": "chatcmpl-2",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "gpt-3.5-turbo",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "You are registered."}}]
	}`)

	chatModel, err := NewSDKChatModel(sdkConfig(srv.URL).ClientConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := schema.ToolCall{ID: "call_9", Function: schema.FunctionCall{Name: "register_user", Arguments: "{}"}}
	out, err := chatModel.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("sys"),
		schema.UserMessage("hi"),
		schema.AssistantMessage("", []schema.ToolCall{call}),
		schema.ToolMessage(`{"user_id":1,"status":"new"}`, "call_9"),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out.Content != "You are registered." {
		t.Fatalf("unexpected content: %q", out.Content)
	}

	reqs := captured()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	msgs := reqs[0].Messages
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}
	if msgs[3]["role"] != "tool" || msgs[3]["tool_call_id"] != "call_9" {
		t.Fatalf("unexpected tool message: %v", msgs[3])
	}
	if len(reqs[0].Tools) != 0 {
		t.Fatalf("unbound model must not send tools: %v", reqs[0].Tools)
	}
}

func TestSDKChatModelUpstreamFailure(t *testing.T) {
	t.Parallel()

	srv, _ := newCompletionServer(t, http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`)

	chatModel, err := NewSDKChatModel(sdkConfig(srv.URL).ClientConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := chatModel.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")}); err == nil {
		t.Fatal("expected upstream error")
	}
}

func TestSDKChatModelRejectsUnknownTool(t *testing.T) {
	t.Parallel()

	chatModel, err := NewSDKChatModel(sdkConfig("http://127.0.0.1:1").ClientConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = chatModel.WithTools([]*schema.ToolInfo{{Name: "launch_rockets"}})
	if err == nil {
		t.Fatal("expected error for tool outside the catalog")
	}
}

func TestNewChatModelWithoutKey(t *testing.T) {
	t.Parallel()

	cfg := sdkConfig("http://127.0.0.1:1")
	cfg.APIKey = "  "
	if _, err := cfg.NewChatModel(context.Background()); !errors.Is(err, contractx.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cfg := sdkConfig("")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Driver = "langchain"
	if err := cfg.Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	cfg = sdkConfig("")
	cfg.Timeout = 0
	if err := cfg.Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClientConfigTemperature(t *testing.T) {
	t.Parallel()

	cfg := sdkConfig("")
	if got := cfg.ClientConfig(); got.Temperature != nil {
		t.Fatalf("negative temperature should be unset, got %v", *got.Temperature)
	}
	cfg.Temperature = 0.2
	got := cfg.ClientConfig()
	if got.Temperature == nil || *got.Temperature != 0.2 {
		t.Fatalf("unexpected temperature: %v", got.Temperature)
	}
	if got.BaseURL != "" || got.Model != "gpt-3.5-turbo" || *got.MaxCompletionToken != 500 {
		t.Fatalf("unexpected client config: %+v", got)
	}
}
