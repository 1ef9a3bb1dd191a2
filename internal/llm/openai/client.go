package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/contare/payslip-reconciler/internal/entity"
	"github.com/contare/payslip-reconciler/internal/llm"
)

// ExtractEvents implements llm.EventExtractor over text-only chat/completions
// with a JSON-object response format. The model never sees the whole
// document, only the single block deterministic extraction failed on.
func (c *Client) ExtractEvents(ctx context.Context, req llm.ExtractRequest) ([]entity.PayEvent, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"block", req.BlockIndex,
		"text_len", len(req.BlockText),
	)

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": buildUserPrompt(req)},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(llm.BuildEventsJSONSchema())},
		},
	}

	raw, err := c.postCompletion(ctx, body, rid, req.BlockIndex)
	if err != nil {
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, raw, err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return nil, raw, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return nil, raw, fmt.Errorf("no choices in openai response")
	}
	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))

	if err := llm.ValidateEvents(content); err != nil {
		cleaned, touched, sErr := llm.SanitizeEventsJSON(content)
		if sErr != nil {
			c.logger.Error("llm.extract.sanitize_failed",
				"req_id", rid, "error", sErr,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return nil, content, fmt.Errorf("sanitize failed: %w", sErr)
		}
		if vErr := llm.ValidateEvents(cleaned); vErr != nil {
			c.logger.Error("llm.extract.schema_validation_failed",
				"req_id", rid, "error", vErr,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return nil, content, fmt.Errorf("schema validation failed: %w", vErr)
		}
		c.logger.Warn("llm.extract.sanitize_applied", "req_id", rid, "touched", touched)
		content = cleaned
	}

	events, err := llm.DecodeEvents(content)
	if err != nil {
		return nil, content, err
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"block", req.BlockIndex,
		"events", len(events),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return events, content, nil
}

// postCompletion posts one chat/completions request and returns the raw
// response body. On a non-2xx status the body comes back too so the caller
// can keep it for the verification trail.
func (c *Client) postCompletion(ctx context.Context, body any, rid string, block int) ([]byte, error) {
	start := time.Now()

	bs, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode completion request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	c.logger.Info("llm.fallback.request",
		"req_id", rid,
		"block", block,
		"content_length", len(bs),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send completion request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("llm.fallback.body_close_error", "req_id", rid, "error", err)
		}
	}()

	raw, _ := io.ReadAll(resp.Body)

	c.logger.Info("llm.fallback.response",
		"req_id", rid,
		"block", block,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return raw, fmt.Errorf("non-2xx status: %d", resp.StatusCode)
	}
	return raw, nil
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
