package caption_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"karigari/internal/apierr"
	"karigari/internal/caption"
)

const fencedPayload = "```json\n{\"captions\":{\"short\":\"a\",\"medium\":\"b\",\"long\":\"c\"},\"analysis\":{\"labels\":[\"x\",\"y\"]}}\n```"

func TestParseFencedPayload(t *testing.T) {
	bundle, err := caption.Parse(fencedPayload)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if bundle.Captions.Short != "a" || bundle.Captions.Medium != "b" || bundle.Captions.Long != "c" {
		t.Fatalf("unexpected captions: %#v", bundle.Captions)
	}
	if !reflect.DeepEqual(bundle.Analysis.Labels, []string{"x", "y"}) {
		t.Fatalf("unexpected labels: %#v", bundle.Analysis.Labels)
	}
}

func TestParseToleratesMissingFence(t *testing.T) {
	raw := `{"captions":{"short":"a","medium":"b","long":"c"},"analysis":{"labels":[]}}`
	bundle, err := caption.Parse(raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if bundle.Captions.Long != "c" {
		t.Fatalf("unexpected captions: %#v", bundle.Captions)
	}
	if len(bundle.Analysis.Labels) != 0 {
		t.Fatalf("expected empty label list, got %#v", bundle.Analysis.Labels)
	}
}

func TestParseToleratesSurroundingProse(t *testing.T) {
	raw := "Here is your caption!\n```json\n{\"captions\":{\"short\":\"a\",\"medium\":\"b\",\"long\":\"c\"},\"analysis\":{\"labels\":[\"x\"]}}\n```\nEnjoy."
	if _, err := caption.Parse(raw); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
}

func TestParseRoundTripPreservesTiersAndLabels(t *testing.T) {
	bundle, err := caption.Parse(fencedPayload)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	encoded, err := json.Marshal(bundle)
	if err != nil {
		t.Fatalf("marshal bundle: %v", err)
	}
	var decoded caption.Bundle
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal bundle: %v", err)
	}
	if !reflect.DeepEqual(bundle, decoded) {
		t.Fatalf("round trip mismatch: %#v vs %#v", bundle, decoded)
	}
}

func TestParseFailures(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", "   "},
		{"not json", "the model refused to answer"},
		{"missing captions", `{"analysis":{"labels":["x"]}}`},
		{"missing medium tier", `{"captions":{"short":"a","long":"c"},"analysis":{"labels":["x"]}}`},
		{"missing labels", `{"captions":{"short":"a","medium":"b","long":"c"}}`},
		{"null labels", `{"captions":{"short":"a","medium":"b","long":"c"},"analysis":{}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := caption.Parse(tc.raw)
			if err == nil {
				t.Fatal("expected parse failure")
			}
			if !errors.Is(err, &apierr.Error{Kind: apierr.KindParse}) {
				t.Fatalf("expected parse kind, got %v", err)
			}
		})
	}
}
