package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"evaltrack/internal/app/server"
	"evaltrack/internal/domain/scoring"
	"evaltrack/internal/platform/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error any             `json:"error"`
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	return config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		TokenTTL:           time.Hour,
		Environment:        "test",
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		EmailFrom:          "no-reply@test.local",
		RunMigrations:      true,
		MigrationsDir:      "../../../../migrations",
		RunSeed:            true,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
		MetricsEnabled:     true,
	}
}

func TestEvaluationJourney(t *testing.T) {
	cfg := testConfig(t)

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	employeeEmail := fmt.Sprintf("journey-%d@example.com", time.Now().UnixNano())
	employeeID := createEmployee(t, client, ts.URL, token, employeeEmail)
	staffToken := login(t, client, ts.URL, employeeEmail, "Password123")

	periodID := findPeriod(t, client, ts.URL, token, "Q1")

	// Criterion weights must sum to exactly 100.
	badForm := formBody("Unbalanced form", 60, 30)
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/forms", token, "", badForm, http.StatusBadRequest)

	formID := createForm(t, client, ts.URL, token)

	submitBody := map[string]any{
		"userId":   employeeID,
		"formId":   formID,
		"periodId": periodID,
		"comments": "Strong quarter",
		"scores": map[string]any{
			"quality":  4,
			"teamwork": "5",
		},
	}

	// Admins correct evaluations but do not submit them.
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/evaluations", token, "", submitBody, http.StatusForbidden)

	idemKey := fmt.Sprintf("journey-%d", time.Now().UnixNano())
	evaluationID := submitEvaluation(t, client, ts.URL, staffToken, idemKey, submitBody)

	// Reading the evaluation back must return the exact per-criterion
	// breakdown computed at submission.
	stored := getEvaluation(t, client, ts.URL, token, evaluationID)
	wantScores := map[string]scoring.CriterionScore{
		"quality":  {Score: 4, MaxScore: 5, Weight: 60, Points: 48},
		"teamwork": {Score: 5, MaxScore: 5, Weight: 40, Points: 40},
	}
	if !reflect.DeepEqual(stored.Scores, wantScores) {
		t.Fatalf("expected persisted scores %+v, got %+v", wantScores, stored.Scores)
	}
	if stored.TotalPoints != 88 || stored.AveragePoints != 44 {
		t.Fatalf("expected totals 88/44, got %v/%v", stored.TotalPoints, stored.AveragePoints)
	}

	// Replaying the same key and payload returns the stored response.
	replayID := submitEvaluation(t, client, ts.URL, staffToken, idemKey, submitBody)
	if replayID != evaluationID {
		t.Fatalf("expected replay to return evaluation %s, got %s", evaluationID, replayID)
	}

	// The same key with a different payload is a conflict.
	conflictBody := map[string]any{
		"userId": employeeID,
		"formId": formID,
		"scores": map[string]any{"quality": 1, "teamwork": 1},
	}
	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/evaluations", staffToken, idemKey, conflictBody, http.StatusConflict)

	updated := updateEvaluation(t, client, ts.URL, token, evaluationID, map[string]any{
		"scores": map[string]any{"quality": 5, "teamwork": 5},
	})
	if updated.AveragePoints <= 0 {
		t.Fatalf("expected positive average after update, got %v", updated.AveragePoints)
	}
	wantUpdated := map[string]scoring.CriterionScore{
		"quality":  {Score: 5, MaxScore: 5, Weight: 60, Points: 60},
		"teamwork": {Score: 5, MaxScore: 5, Weight: 40, Points: 40},
	}
	if !reflect.DeepEqual(updated.Scores, wantUpdated) {
		t.Fatalf("expected corrected scores %+v, got %+v", wantUpdated, updated.Scores)
	}

	quarterly := getQuarterly(t, client, ts.URL, token, employeeID)
	var q1 *periodScore
	for i := range quarterly {
		if quarterly[i].Period == "Q1" {
			q1 = &quarterly[i]
		}
	}
	if q1 == nil {
		t.Fatal("expected Q1 bucket in quarterly report")
	}
	if q1.AvgScore <= 0 {
		t.Fatalf("expected Q1 average above zero, got %v", q1.AvgScore)
	}

	dashboard := getDashboard(t, client, ts.URL, token, employeeID)
	if dashboard.TotalEvaluations != 1 {
		t.Fatalf("expected 1 evaluation on dashboard, got %d", dashboard.TotalEvaluations)
	}
	if dashboard.OverallAvg <= 0 {
		t.Fatalf("expected positive overall average, got %v", dashboard.OverallAvg)
	}
}

func TestInvalidScoresRejected(t *testing.T) {
	cfg := testConfig(t)

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	employeeEmail := fmt.Sprintf("scores-%d@example.com", time.Now().UnixNano())
	employeeID := createEmployee(t, client, ts.URL, token, employeeEmail)
	staffToken := login(t, client, ts.URL, employeeEmail, "Password123")
	formID := createForm(t, client, ts.URL, token)

	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/evaluations", staffToken, "", map[string]any{
		"userId": employeeID,
		"formId": formID,
		"scores": map[string]any{"quality": "not-a-number", "teamwork": 3},
	}, http.StatusBadRequest)

	doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/evaluations", staffToken, "", map[string]any{
		"userId": employeeID,
		"formId": formID,
		"scores": map[string]any{},
	}, http.StatusBadRequest)
}

type periodScore struct {
	Period   string  `json:"period"`
	AvgScore float64 `json:"avgScore"`
}

type dashboardView struct {
	TotalEvaluations int           `json:"totalEvaluations"`
	OverallAvg       float64       `json:"overallAvg"`
	Periods          []periodScore `json:"periods"`
}

type evaluationView struct {
	ID            string                            `json:"id"`
	UserID        string                            `json:"userId"`
	Scores        map[string]scoring.CriterionScore `json:"scores"`
	TotalPoints   float64                           `json:"totalPoints"`
	AveragePoints float64                           `json:"averagePoints"`
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", "", "", map[string]any{
		"email":    email,
		"password": password,
	}, http.StatusOK)
	var payload map[string]any
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatal("expected token")
	}
	return token
}

func createEmployee(t *testing.T, client *http.Client, baseURL, token, email string) string {
	t.Helper()
	env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/users", token, "", map[string]any{
		"name":     "Journey Tester",
		"email":    email,
		"password": "Password123",
		"jobTitle": "Engineer",
		"role":     "staff",
	}, http.StatusCreated)
	var payload map[string]string
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("failed to decode user response: %v", err)
	}
	if payload["id"] == "" {
		t.Fatal("expected user id")
	}
	return payload["id"]
}

func findPeriod(t *testing.T, client *http.Client, baseURL, token, name string) string {
	t.Helper()
	env := doJSON(t, client, http.MethodGet, baseURL+"/api/v1/periods", token, "", nil, http.StatusOK)
	var list []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("failed to decode periods response: %v", err)
	}
	for _, period := range list {
		if period.Name == name {
			return period.ID
		}
	}
	t.Fatalf("seeded period %q not found", name)
	return ""
}

func formBody(title string, qualityWeight, teamworkWeight float64) map[string]any {
	return map[string]any{
		"title":    title,
		"formType": "peer_evaluation",
		"status":   "active",
		"weight":   100,
		"sections": []map[string]any{
			{
				"name": "Delivery",
				"criteria": []map[string]any{
					{"id": "quality", "label": "Quality of work", "maxScore": 5, "weight": qualityWeight},
				},
			},
			{
				"name": "Collaboration",
				"criteria": []map[string]any{
					{"id": "teamwork", "label": "Teamwork", "maxScore": 5, "weight": teamworkWeight},
				},
			},
		},
		"ratingScale": []map[string]any{
			{"label": "Poor", "value": 1},
			{"label": "Excellent", "value": 5},
		},
	}
}

func createForm(t *testing.T, client *http.Client, baseURL, token string) string {
	t.Helper()
	env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/forms", token, "",
		formBody(fmt.Sprintf("Quarterly review %d", time.Now().UnixNano()), 60, 40), http.StatusCreated)
	var payload map[string]string
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("failed to decode form response: %v", err)
	}
	if payload["id"] == "" {
		t.Fatal("expected form id")
	}
	return payload["id"]
}

func submitEvaluation(t *testing.T, client *http.Client, baseURL, token, idemKey string, body map[string]any) string {
	t.Helper()
	env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/evaluations", token, idemKey, body, http.StatusCreated)
	var payload map[string]any
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("failed to decode submit response: %v", err)
	}
	id, _ := payload["evaluationId"].(string)
	if id == "" {
		t.Fatal("expected evaluation id")
	}
	return id
}

func getEvaluation(t *testing.T, client *http.Client, baseURL, token, evaluationID string) evaluationView {
	t.Helper()
	env := doJSON(t, client, http.MethodGet, baseURL+"/api/v1/evaluations/"+evaluationID, token, "", nil, http.StatusOK)
	var view evaluationView
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("failed to decode evaluation response: %v", err)
	}
	return view
}

func updateEvaluation(t *testing.T, client *http.Client, baseURL, token, evaluationID string, body map[string]any) evaluationView {
	t.Helper()
	env := doJSON(t, client, http.MethodPut, baseURL+"/api/v1/evaluations/"+evaluationID, token, "", body, http.StatusOK)
	var view evaluationView
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("failed to decode update response: %v", err)
	}
	return view
}

func getQuarterly(t *testing.T, client *http.Client, baseURL, token, userID string) []periodScore {
	t.Helper()
	env := doJSON(t, client, http.MethodGet, baseURL+"/api/v1/evaluations/quarterly/"+userID, token, "", nil, http.StatusOK)
	var list []periodScore
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("failed to decode quarterly response: %v", err)
	}
	return list
}

func getDashboard(t *testing.T, client *http.Client, baseURL, token, userID string) dashboardView {
	t.Helper()
	env := doJSON(t, client, http.MethodGet, baseURL+"/api/v1/evaluations/dashboard/"+userID, token, "", nil, http.StatusOK)
	var view dashboardView
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("failed to decode dashboard response: %v", err)
	}
	return view
}

func doJSON(t *testing.T, client *http.Client, method, url, token, idemKey string, body any, want int) envelope {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if idemKey != "" {
		req.Header.Set("Idempotency-Key", idemKey)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if resp.StatusCode != want {
		t.Fatalf("%s %s: expected status %d, got %d: %s", method, url, want, resp.StatusCode, string(raw))
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}
