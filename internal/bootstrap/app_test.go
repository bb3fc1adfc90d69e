package bootstrap

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"compliance-backend/internal/shared/auth"
	"compliance-backend/internal/shared/config"
)

func setupApp(t *testing.T) (*App, string) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	app, err := Build(config.Config{
		Env:          "dev",
		Port:         "8080",
		DataDir:      t.TempDir(),
		ExtractorBin: "doc-extractor",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	token, err := auth.SignJWT(auth.Claims{Sub: "reviewer-1", Role: auth.RoleAdmin})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return app, token
}

func do(t *testing.T, app *App, token, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	return resp
}

func TestBuildDevModeServesHealth(t *testing.T) {
	app, _ := setupApp(t)
	if app.DB != nil {
		t.Fatal("dev build without DATABASE_URL should not hold a DB handle")
	}

	resp := do(t, app, "", http.MethodGet, "/health", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("health = %d", resp.Code)
	}
}

func TestAPIRequiresAuth(t *testing.T) {
	app, _ := setupApp(t)
	resp := do(t, app, "", http.MethodGet, "/api/v1/submissions", "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestReviewFlowEndToEnd(t *testing.T) {
	app, token := setupApp(t)

	artifact := `{
		"submissionId": "SUB-100",
		"siteId": "SITE-1",
		"submissionType": "initial",
		"evaluationCompleted": true,
		"items": [
			{"requirement": "R1", "tier": "TIER_1_BINARY", "outcome": "PASS"},
			{"requirement": "R2", "tier": "TIER_2", "outcome": "PARTIAL"},
			{"requirement": "R3", "tier": "TIER_2", "outcome": "FAIL"},
			{"requirement": "R4", "tier": "TIER_3", "outcome": "REQUIRES_JUDGMENT"}
		]
	}`

	resp := do(t, app, token, http.MethodPost, "/api/v1/submissions/import", artifact)
	if resp.Code != http.StatusCreated {
		t.Fatalf("import = %d: %s", resp.Code, resp.Body.String())
	}

	resp = do(t, app, token, http.MethodPost, "/api/v1/submissions/import", artifact)
	if resp.Code != http.StatusConflict {
		t.Fatalf("duplicate import = %d, want 409", resp.Code)
	}

	resp = do(t, app, token, http.MethodGet, "/api/v1/submissions/SUB-100/assessments", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("assessments = %d: %s", resp.Code, resp.Body.String())
	}
	var assessments []struct {
		ID   string `json:"assessmentId"`
		Tier string `json:"tier"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &assessments); err != nil {
		t.Fatalf("decode assessments: %v", err)
	}
	if len(assessments) != 4 {
		t.Fatalf("assessments = %d, want 4", len(assessments))
	}

	resp = do(t, app, token, http.MethodPatch, "/api/v1/assessments/"+assessments[1].ID+"/status", `{"status": "accepted"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("status update = %d: %s", resp.Code, resp.Body.String())
	}

	resp = do(t, app, token, http.MethodGet, "/api/v1/submissions/SUB-100/progress", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("progress = %d: %s", resp.Code, resp.Body.String())
	}
	var progress struct {
		ProgressPercent int `json:"progressPercent"`
		StatusBreakdown struct {
			Accepted int `json:"accepted"`
		} `json:"statusBreakdown"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &progress); err != nil {
		t.Fatalf("decode progress: %v", err)
	}
	if progress.ProgressPercent != 25 {
		t.Errorf("progressPercent = %d, want 25", progress.ProgressPercent)
	}
	if progress.StatusBreakdown.Accepted != 1 {
		t.Errorf("accepted = %d, want 1", progress.StatusBreakdown.Accepted)
	}

	resp = do(t, app, token, http.MethodPost, "/api/v1/assessments/"+assessments[0].ID+"/validation", `{"classification": "TRUE_POSITIVE"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("validation save = %d: %s", resp.Code, resp.Body.String())
	}

	resp = do(t, app, token, http.MethodGet, "/api/v1/submissions/SUB-100/validation-stats", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("stats = %d: %s", resp.Code, resp.Body.String())
	}
	var stats struct {
		Counts struct {
			Total int `json:"total"`
		} `json:"counts"`
		Tier1 struct {
			Counts struct {
				TruePositive int `json:"truePositive"`
			} `json:"counts"`
		} `json:"tier1"`
		ProgressPercent int `json:"progressPercent"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Counts.Total != 1 || stats.Tier1.Counts.TruePositive != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ProgressPercent != 25 {
		t.Errorf("validation progress = %d, want 25", stats.ProgressPercent)
	}

	resp = do(t, app, token, http.MethodDelete, "/api/v1/submissions/SUB-100", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("delete = %d: %s", resp.Code, resp.Body.String())
	}
	resp = do(t, app, token, http.MethodPost, "/api/v1/submissions/import", artifact)
	if resp.Code != http.StatusCreated {
		t.Fatalf("re-import after delete = %d: %s", resp.Code, resp.Body.String())
	}
}

func TestProjectLifecycleEndToEnd(t *testing.T) {
	app, token := setupApp(t)

	resp := do(t, app, token, http.MethodPost, "/api/v1/projects", `{"siteId": "SITE-1", "applicant": "Acme Clinical"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create project = %d: %s", resp.Code, resp.Body.String())
	}
	var project struct {
		ID     string `json:"projectId"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &project); err != nil {
		t.Fatalf("decode project: %v", err)
	}
	if project.Status != "created" {
		t.Errorf("status = %q, want created", project.Status)
	}

	// No uploaded files yet: new-mode extraction has nothing to do.
	resp = do(t, app, token, http.MethodPost, "/api/v1/projects/"+project.ID+"/extract", "")
	if resp.Code != http.StatusConflict {
		t.Fatalf("extract with no files = %d, want 409: %s", resp.Code, resp.Body.String())
	}

	resp = do(t, app, token, http.MethodGet, "/api/v1/projects/"+project.ID+"/extract/status", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("extract status = %d: %s", resp.Code, resp.Body.String())
	}
	var status struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Status != "not_started" {
		t.Errorf("status = %q, want not_started", status.Status)
	}

	// Immediate re-poll trips the per-project limiter.
	resp = do(t, app, token, http.MethodGet, "/api/v1/projects/"+project.ID+"/extract/status", "")
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("second poll = %d, want 429", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Errorf("429 must carry Retry-After")
	}
}
