package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"travel-assistant-be/pkg/llm"
)

// captureServer records the last request body and answers with a
// minimal valid chat response.
func captureServer(t *testing.T, body *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"ok"},"done":true}`))
	}))
}

func optionsOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	opts, ok := body["options"].(map[string]any)
	if !ok {
		t.Fatalf("request has no options object: %v", body)
	}
	return opts
}

func TestChatSendsPinnedZeroTemperature(t *testing.T) {
	var body map[string]any
	server := captureServer(t, &body)
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "llama3")
	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}},
		llm.WithTemperature(0.0), llm.WithMaxTokens(10))
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	opts := optionsOf(t, body)
	temp, present := opts["temperature"]
	if !present {
		t.Fatal("temperature missing from payload, want explicit 0")
	}
	if temp.(float64) != 0 {
		t.Errorf("temperature = %v, want 0", temp)
	}
	if opts["num_predict"].(float64) != 10 {
		t.Errorf("num_predict = %v, want 10", opts["num_predict"])
	}
	if _, present := opts["top_p"]; present {
		t.Errorf("top_p = %v, want omitted when not set", opts["top_p"])
	}
}

func TestChatDefaultsTemperatureWhenUnset(t *testing.T) {
	var body map[string]any
	server := captureServer(t, &body)
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "llama3")
	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	opts := optionsOf(t, body)
	if temp := opts["temperature"].(float64); temp != 0.7 {
		t.Errorf("temperature = %v, want default 0.7", temp)
	}
}

func TestChatSendsTopP(t *testing.T) {
	var body map[string]any
	server := captureServer(t, &body)
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "llama3")
	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}},
		llm.WithTopP(0.95))
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	opts := optionsOf(t, body)
	if topP := opts["top_p"].(float64); topP != 0.95 {
		t.Errorf("top_p = %v, want 0.95", topP)
	}
}
