package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// OpenAIProvider implements EmbeddingProvider against an OpenAI-compatible
// embeddings endpoint (api.openai.com or any server speaking the same API).
type OpenAIProvider struct {
	BaseURL    string
	APIKey     string
	Model      string
	Client     *http.Client
	MaxRetries int
}

func NewOpenAIProvider(apiKey, baseURL, model string) EmbeddingProvider {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "text-embedding-ada-002"
	}
	return &OpenAIProvider{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Model:      model,
		Client:     &http.Client{Timeout: 30 * time.Second},
		MaxRetries: 3,
	}
}

type openAIEmbeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type openAIEmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *OpenAIProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	// TaskType is not part of the OpenAI API; kept for interface compatibility

	reqBody := openAIEmbeddingRequest{
		Model: p.Model,
		Input: text,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/embeddings", p.BaseURL)

	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+p.APIKey)

		resp, err := p.Client.Do(req)
		if err != nil {
			lastErr = err
			if err := sleepCtx(ctx, retryDelay(attempt)); err != nil {
				return nil, err
			}
			continue
		}

		// Retry on rate limiting and server errors, respecting Retry-After
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			delay := retryDelay(attempt)
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil {
					delay = time.Duration(secs) * time.Second
				}
			}
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("openai embedding error: status %d, body: %s", resp.StatusCode, string(body))
			if err := sleepCtx(ctx, delay); err != nil {
				return nil, err
			}
			continue
		}

		bodyBytes, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("openai embedding error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
		}

		var openAIResp openAIEmbeddingResponse
		if err := json.Unmarshal(bodyBytes, &openAIResp); err != nil {
			return nil, err
		}
		if openAIResp.Error != nil {
			return nil, fmt.Errorf("openai embedding error: %s", openAIResp.Error.Message)
		}
		if len(openAIResp.Data) == 0 {
			return nil, fmt.Errorf("openai embedding: empty data in response")
		}

		return &EmbeddingResponse{
			Embedding: EmbeddingResponseEmbedding{
				Values: openAIResp.Data[0].Embedding,
			},
		}, nil
	}

	return nil, fmt.Errorf("openai embedding failed after %d retries: %w", p.MaxRetries, lastErr)
}

func retryDelay(attempt int) time.Duration {
	return time.Duration(1<<attempt) * 500 * time.Millisecond
}

// sleepCtx waits for the delay unless the context ends first.
func sleepCtx(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
