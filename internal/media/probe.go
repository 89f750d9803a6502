package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ProbeDuration executes ffprobe against the clip and returns its duration in
// seconds.
func ProbeDuration(ctx context.Context, binary, path string) (float64, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, errors.New("media probe: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("media probe: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return parseProbeDuration(output)
}

func parseProbeDuration(output []byte) (float64, error) {
	var result struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(output, &result); err != nil {
		return 0, fmt.Errorf("media probe: parse output: %w", err)
	}
	raw := strings.TrimSpace(result.Format.Duration)
	if raw == "" {
		return 0, errors.New("media probe: no duration reported")
	}
	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("media probe: parse duration %q: %w", raw, err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("media probe: non-positive duration %v", duration)
	}
	return duration, nil
}
