package extraction

import (
	"encoding/json"
	"os"

	"compliance-backend/internal/shared/telemetry"
)

const (
	StatusNotStarted = "not_started"
	StatusRunning    = "running"
	StatusCompleted  = "completed"
)

// readStatusArtifact reads the progress file written by the external
// extractor. A missing or malformed artifact is not an error: the process
// may legitimately not have written it yet, so it degrades to not_started.
func readStatusArtifact(path string) map[string]any {
	data, err := os.ReadFile(path)
	if err != nil {
		return map[string]any{"status": StatusNotStarted}
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		telemetry.Warn("extraction.status.malformed", map[string]any{
			"path":  path,
			"error": err.Error(),
		})
		return map[string]any{"status": StatusNotStarted}
	}
	if payload == nil {
		payload = map[string]any{}
	}
	if _, ok := payload["status"]; !ok {
		payload["status"] = StatusNotStarted
	}
	return payload
}

func statusValue(payload map[string]any) string {
	if s, ok := payload["status"].(string); ok {
		return s
	}
	return StatusNotStarted
}
