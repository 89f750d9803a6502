package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// WriteClip decodes a base64 audio payload into dir and returns the clip
// path. A data-URI prefix, if present, is stripped before decoding.
func WriteClip(dir, payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", errors.New("media: empty audio payload")
	}
	if idx := strings.Index(payload, "base64,"); strings.HasPrefix(payload, "data:") && idx >= 0 {
		payload = payload[idx+len("base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some encoders omit padding.
		data, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return "", fmt.Errorf("media: decode audio payload: %w", err)
		}
	}
	if len(data) == 0 {
		return "", errors.New("media: decoded audio payload is empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("media: ensure clip directory: %w", err)
	}
	path := filepath.Join(dir, "story-"+uuid.NewString()+".mp3")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("media: write clip: %w", err)
	}
	return path, nil
}
