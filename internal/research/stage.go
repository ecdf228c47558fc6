package research

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/prsolans/agreement-mapper/pkg/anthropic"
)

// Per-stage sampling temperatures. Factual extraction stages run cold,
// synthesis stages warmer.
const (
	tempProfile       = 0.3
	tempPriorities    = 0.3
	tempUnits         = 0.4
	tempLandscape     = 0.4
	tempMatrix        = 0.4
	tempOpportunities = 0.5
	tempQuestions     = 0.6
	tempSummary       = 0.7
)

// usageCounter accumulates token usage across concurrently running stages.
type usageCounter struct {
	mu sync.Mutex
	u  anthropic.TokenUsage
}

func (c *usageCounter) add(u anthropic.TokenUsage) {
	c.mu.Lock()
	c.u.Add(u)
	c.mu.Unlock()
}

func (c *usageCounter) snapshot() anthropic.TokenUsage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.u
}

func (c *usageCounter) total() int {
	return c.snapshot().Total()
}

// completeJSON runs one LLM call and unmarshals the response into out,
// stripping markdown fences first. Token usage is accumulated on the
// pipeline and the stage is reported on the progress channel.
func (p *Pipeline) completeJSON(ctx context.Context, stage, system, prompt string, temperature float64, maxTokens int64, state RunState, out any) error {
	p.emit(stage, "running", state)

	if maxTokens <= 0 {
		maxTokens = p.cfg.Anthropic.MaxTokens
	}

	resp, err := p.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       p.cfg.Anthropic.Model,
		MaxTokens:   maxTokens,
		System:      system,
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: &temperature,
	})
	if err != nil {
		return eris.Wrapf(err, "research: %s stage", stage)
	}

	p.usage.add(resp.Usage)
	resp.Usage.LogCost(p.cfg.Anthropic.Model, stage)

	cleaned := cleanJSON(resp.Text())
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		zap.L().Debug("research: unparseable stage output",
			zap.String("stage", stage),
			zap.String("text", truncate(cleaned, 500)),
		)
		return eris.Wrapf(err, "research: parsing %s response", stage)
	}

	p.emit(stage, "complete", state)
	return nil
}

// cleanJSON strips markdown fences and extracts the outermost JSON value.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}
	text = strings.TrimSpace(text)

	// Models sometimes preface the payload with prose. Slice to the
	// outermost object or array, whichever starts first.
	objStart := strings.Index(text, "{")
	arrStart := strings.Index(text, "[")

	if arrStart >= 0 && (objStart < 0 || arrStart < objStart) {
		if end := strings.LastIndex(text, "]"); end > arrStart {
			text = text[arrStart : end+1]
		}
	} else if objStart >= 0 {
		if end := strings.LastIndex(text, "}"); end > objStart {
			text = text[objStart : end+1]
		}
	}

	return strings.TrimSpace(text)
}

// decodeList decodes an LLM response that may be a bare array, an object
// wrapping the array under one of the given keys, or a single bare element.
// Wrapper keys are tried in order.
func decodeList[T any](raw json.RawMessage, keys ...string) ([]T, error) {
	raw = json.RawMessage(strings.TrimSpace(string(raw)))
	if len(raw) == 0 {
		return nil, nil
	}

	if raw[0] == '{' {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, eris.Wrap(err, "research: decoding list wrapper")
		}
		for _, key := range keys {
			inner, ok := wrapper[key]
			if !ok {
				continue
			}
			var items []T
			if err := json.Unmarshal(inner, &items); err == nil {
				return items, nil
			}
			// The key held a single element instead of an array.
			var one T
			if err := json.Unmarshal(inner, &one); err == nil {
				return []T{one}, nil
			}
		}
		// No wrapper key matched. Treat the object as a single element.
		var one T
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, eris.Wrap(err, "research: decoding list element")
		}
		return []T{one}, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, eris.Wrap(err, "research: decoding list")
	}
	return items, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
