// Package caption extracts the structured caption payload embedded in the
// backend's free-text captioning response.
//
// The captioning endpoint returns model output as raw text that usually, but
// not always, wraps a JSON object in a markdown code fence. Parse strips the
// fence defensively, decodes the object, and validates that every caption
// tier and the analysis labels are present; partial or malformed structures
// are never surfaced as partial successes.
package caption

import (
	"encoding/json"
	"fmt"
	"strings"

	"karigari/internal/apierr"
)

// Captions holds the three length tiers the backend produces.
type Captions struct {
	Short  string `json:"short"`
	Medium string `json:"medium"`
	Long   string `json:"long"`
}

// Analysis carries the label sequence attached to a caption payload.
type Analysis struct {
	Labels []string `json:"labels"`
}

// Bundle is a fully validated caption payload.
type Bundle struct {
	Captions Captions `json:"captions"`
	Analysis Analysis `json:"analysis"`
}

// Parse decodes raw model output into a Bundle. Every failure is classified
// as a parse error.
func Parse(raw string) (Bundle, error) {
	var bundle Bundle
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Bundle{}, parseError("caption payload is empty")
	}

	payload := struct {
		Captions *Captions `json:"captions"`
		Analysis *Analysis `json:"analysis"`
	}{}
	if err := json.Unmarshal([]byte(sanitizePayload(trimmed)), &payload); err != nil {
		return Bundle{}, parseError(fmt.Sprintf("caption payload is not valid JSON: %v", err))
	}

	if payload.Captions == nil {
		return Bundle{}, parseError("caption payload missing captions object")
	}
	for tier, value := range map[string]string{
		"short":  payload.Captions.Short,
		"medium": payload.Captions.Medium,
		"long":   payload.Captions.Long,
	} {
		if strings.TrimSpace(value) == "" {
			return Bundle{}, parseError("caption payload missing " + tier + " caption")
		}
	}
	if payload.Analysis == nil || payload.Analysis.Labels == nil {
		return Bundle{}, parseError("caption payload missing analysis labels")
	}

	bundle.Captions = *payload.Captions
	bundle.Analysis = *payload.Analysis
	return bundle, nil
}

func parseError(message string) error {
	return apierr.New(apierr.KindParse, message)
}

// sanitizePayload strips a wrapping markdown code fence when present and
// falls back to the outermost JSON object otherwise. Fences are optional;
// plain JSON passes through untouched.
func sanitizePayload(content string) string {
	trimmed := strings.TrimSpace(stripCodeFence(content))
	if trimmed == "" {
		return trimmed
	}
	if trimmed[0] == '{' {
		return trimmed
	}
	if start := strings.Index(trimmed, "{"); start >= 0 {
		if end := strings.LastIndex(trimmed, "}"); end > start {
			return strings.TrimSpace(trimmed[start : end+1])
		}
	}
	return trimmed
}

func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := trimmed[3:]
	body = strings.TrimLeft(body, " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = body[4:]
		body = strings.TrimLeft(body, " \t\r\n")
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}
