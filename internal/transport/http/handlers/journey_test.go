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
	"testing"
	"time"

	"workforce/internal/app/server"
	"workforce/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  any             `json:"errors"`
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
		JWTTTL:             time.Hour,
		DataEncryptionKey:  "0123456789abcdef0123456789abcdef",
		Environment:        "test",
		FrontendURL:        "http://localhost:5173",
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		EmailFrom:          "no-reply@test.local",
		RunMigrations:      true,
		RunSeed:            true,
		MigrationsDir:      "../../../../migrations",
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
		CacheTTL:           time.Minute,
		TierRecalcPeriod:   "last_quarter",
	}
}

func startApp(t *testing.T) (*httptest.Server, config.Config) {
	t.Helper()
	cfg := testConfig(t)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	t.Cleanup(app.Close)
	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return ts, cfg
}

func call(t *testing.T, ts *httptest.Server, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal %s %s: %v", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.URL+"/api/v1"+path, reader)
	if err != nil {
		t.Fatalf("build %s %s: %v", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s %s: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func expectStatus(t *testing.T, want int, got int, env envelope, what string) {
	t.Helper()
	if got != want {
		t.Fatalf("%s: expected %d, got %d (%s %v)", what, want, got, env.Message, env.Errors)
	}
}

func decodeData(t *testing.T, env envelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v (%s)", err, string(env.Data))
	}
}

func login(t *testing.T, ts *httptest.Server, email, password string) string {
	t.Helper()
	status, env := call(t, ts, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password})
	expectStatus(t, http.StatusOK, status, env, "login")
	var out struct {
		Token string `json:"token"`
	}
	decodeData(t, env, &out)
	if out.Token == "" {
		t.Fatal("expected token")
	}
	return out.Token
}

type provisioned struct {
	FreelancerCode    string `json:"freelancerId"`
	Email             string `json:"email"`
	TemporaryPassword string `json:"temporaryPassword"`
}

type freelancerView struct {
	ID           string `json:"id"`
	CurrentTier  string `json:"currentTier"`
	CurrentGrade string `json:"currentGrade"`
}

// onboard submits and approves an application and returns the new profile.
func onboard(t *testing.T, ts *httptest.Server, adminToken, prefix string) (provisioned, freelancerView) {
	t.Helper()
	email := fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
	status, env := call(t, ts, http.MethodPost, "/applications", "", map[string]any{
		"email":     email,
		"firstName": "Journey",
		"lastName":  "Tester",
		"phone":     "+15550100",
		"city":      "Lisbon",
		"country":   "Portugal",
	})
	expectStatus(t, http.StatusCreated, status, env, "submit application")
	var submitted struct {
		ApplicationID string `json:"applicationId"`
	}
	decodeData(t, env, &submitted)

	status, env = call(t, ts, http.MethodPost, "/applications", "", map[string]any{
		"email": email, "firstName": "Journey", "lastName": "Tester", "phone": "+15550100", "city": "Lisbon", "country": "Portugal",
	})
	expectStatus(t, http.StatusBadRequest, status, env, "duplicate application")

	status, env = call(t, ts, http.MethodPost, "/applications/"+submitted.ApplicationID+"/approve", adminToken, nil)
	expectStatus(t, http.StatusOK, status, env, "approve application")
	var out provisioned
	decodeData(t, env, &out)
	if out.FreelancerCode == "" || out.TemporaryPassword == "" {
		t.Fatalf("expected provisioned credentials, got %+v", out)
	}

	status, env = call(t, ts, http.MethodPost, "/applications/"+submitted.ApplicationID+"/approve", adminToken, nil)
	expectStatus(t, http.StatusBadRequest, status, env, "second approval")

	status, env = call(t, ts, http.MethodGet, "/freelancers/"+out.FreelancerCode, adminToken, nil)
	expectStatus(t, http.StatusOK, status, env, "get freelancer")
	var profile freelancerView
	decodeData(t, env, &profile)
	if profile.CurrentTier != "BRONZE" || profile.CurrentGrade != "C" {
		t.Fatalf("expected BRONZE/C for a new freelancer, got %s/%s", profile.CurrentTier, profile.CurrentGrade)
	}
	return out, profile
}

func TestApplicationToPaymentJourney(t *testing.T) {
	ts, cfg := startApp(t)
	adminToken := login(t, ts, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	creds, profile := onboard(t, ts, adminToken, "journey")

	today := time.Now().UTC()
	todayStr := today.Format("2006-01-02")

	status, env := call(t, ts, http.MethodPost, "/projects", adminToken, map[string]any{
		"name":                 "Journey Project",
		"freelancersRequired":  2,
		"startDate":            today.AddDate(0, -1, 0).Format("2006-01-02"),
		"paymentModel":         "HOURLY",
		"hourlyRateAnnotation": "10",
	})
	expectStatus(t, http.StatusCreated, status, env, "create project")
	var proj struct {
		ID string `json:"id"`
	}
	decodeData(t, env, &proj)

	status, env = call(t, ts, http.MethodPost, "/projects/"+proj.ID+"/assign", adminToken, map[string]any{
		"freelancerId": profile.ID,
		"startDate":    today.AddDate(0, 0, -7).Format("2006-01-02"),
	})
	expectStatus(t, http.StatusCreated, status, env, "assign freelancer")

	status, env = call(t, ts, http.MethodPost, "/projects/"+proj.ID+"/assign", adminToken, map[string]any{
		"freelancerId": profile.ID,
		"startDate":    todayStr,
	})
	expectStatus(t, http.StatusBadRequest, status, env, "duplicate assignment")

	status, env = call(t, ts, http.MethodPost, "/performance", adminToken, map[string]any{"freelancerId": profile.ID})
	expectStatus(t, http.StatusBadRequest, status, env, "performance without record type")

	var recordIDs []string
	for i := 0; i < 3; i++ {
		status, env = call(t, ts, http.MethodPost, "/performance", adminToken, map[string]any{
			"freelancerId":      profile.ID,
			"projectId":         proj.ID,
			"recordType":        "DAILY",
			"recordDate":        todayStr,
			"hoursWorked":       8,
			"comResponsibility": 5,
			"qualAccuracy":      5,
		})
		expectStatus(t, http.StatusCreated, status, env, "create performance record")
		var rec struct {
			ID           string   `json:"id"`
			OverallScore *float64 `json:"overallScore"`
		}
		decodeData(t, env, &rec)
		if rec.OverallScore == nil || *rec.OverallScore != 5 {
			t.Fatalf("expected overall score 5, got %v", rec.OverallScore)
		}
		recordIDs = append(recordIDs, rec.ID)
	}

	// A partial update keeps the stored sub-scores and recomputes the totals.
	status, env = call(t, ts, http.MethodPut, "/performance/"+recordIDs[0], adminToken, map[string]any{"qualSpeed": 3})
	expectStatus(t, http.StatusOK, status, env, "update performance record")
	var updated struct {
		ComResponsibility *float64 `json:"comResponsibility"`
		QualTotal         *float64 `json:"qualTotal"`
		OverallScore      *float64 `json:"overallScore"`
	}
	decodeData(t, env, &updated)
	if updated.ComResponsibility == nil || *updated.ComResponsibility != 5 {
		t.Fatalf("expected comResponsibility to be preserved, got %v", updated.ComResponsibility)
	}
	if updated.QualTotal == nil || *updated.QualTotal != 4 || updated.OverallScore == nil || *updated.OverallScore != 4.5 {
		t.Fatalf("expected qualTotal 4 and overall 4.5, got %v / %v", updated.QualTotal, updated.OverallScore)
	}
	status, env = call(t, ts, http.MethodPut, "/performance/"+recordIDs[0], adminToken, map[string]any{"qualSpeed": 5})
	expectStatus(t, http.StatusOK, status, env, "restore performance record")

	status, env = call(t, ts, http.MethodPost, "/tiering/calculate/"+profile.ID+"?period=last_month", adminToken, nil)
	expectStatus(t, http.StatusOK, status, env, "calculate tier")
	var calc struct {
		Recommended struct {
			Tier  string `json:"tier"`
			Grade string `json:"grade"`
		} `json:"recommended"`
		Changed bool `json:"changed"`
	}
	decodeData(t, env, &calc)
	if calc.Recommended.Tier != "PLATINUM" || calc.Recommended.Grade != "A" || !calc.Changed {
		t.Fatalf("expected PLATINUM/A change, got %+v", calc)
	}

	status, env = call(t, ts, http.MethodGet, "/freelancers/"+profile.ID, adminToken, nil)
	expectStatus(t, http.StatusOK, status, env, "reload freelancer")
	var reloaded freelancerView
	decodeData(t, env, &reloaded)
	if reloaded.CurrentTier != "BRONZE" {
		t.Fatalf("calculate must not mutate the freelancer, got %s", reloaded.CurrentTier)
	}

	status, env = call(t, ts, http.MethodPut, "/tiering/apply/"+profile.ID, adminToken, map[string]string{"tier": "DIAMOND", "grade": "A"})
	expectStatus(t, http.StatusBadRequest, status, env, "apply invalid tier")

	status, env = call(t, ts, http.MethodPut, "/tiering/apply/"+profile.ID, adminToken, map[string]string{"tier": "PLATINUM", "grade": "A"})
	expectStatus(t, http.StatusOK, status, env, "apply tier")

	periodStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, -1)
	status, env = call(t, ts, http.MethodPost, "/payments/calculate", adminToken, map[string]string{
		"freelancerId": profile.ID,
		"periodStart":  periodStart.Format("2006-01-02"),
		"periodEnd":    periodEnd.Format("2006-01-02"),
	})
	expectStatus(t, http.StatusOK, status, env, "calculate payment")
	var payCalc struct {
		LineItems []struct {
			ProjectID   *string `json:"projectId"`
			Description string  `json:"description"`
			HoursWorked float64 `json:"hoursWorked"`
			Rate        string  `json:"rate"`
			RateType    string  `json:"rateType"`
			Amount      string  `json:"amount"`
		} `json:"lineItems"`
		TotalAmount string `json:"totalAmount"`
	}
	decodeData(t, env, &payCalc)
	if len(payCalc.LineItems) != 3 || payCalc.TotalAmount != "240" {
		t.Fatalf("expected 3 line items totalling 240, got %d / %s", len(payCalc.LineItems), payCalc.TotalAmount)
	}

	lineItems := make([]map[string]any, 0, len(payCalc.LineItems))
	for _, item := range payCalc.LineItems {
		lineItems = append(lineItems, map[string]any{
			"projectId":   proj.ID,
			"description": item.Description,
			"workDate":    todayStr,
			"hoursWorked": item.HoursWorked,
			"rate":        item.Rate,
			"rateType":    item.RateType,
			"amount":      item.Amount,
		})
	}
	createBody := map[string]any{
		"freelancerId": profile.ID,
		"month":        int(today.Month()),
		"year":         today.Year(),
		"periodStart":  periodStart.Format("2006-01-02"),
		"periodEnd":    periodEnd.Format("2006-01-02"),
		"lineItems":    lineItems,
	}
	status, env = call(t, ts, http.MethodPost, "/payments", adminToken, createBody)
	expectStatus(t, http.StatusCreated, status, env, "create payment")
	var payment struct {
		TotalAmount string `json:"totalAmount"`
	}
	decodeData(t, env, &payment)
	if payment.TotalAmount != "240" {
		t.Fatalf("expected stored total 240, got %s", payment.TotalAmount)
	}

	status, env = call(t, ts, http.MethodPost, "/payments", adminToken, createBody)
	expectStatus(t, http.StatusBadRequest, status, env, "duplicate payment period")

	lastYear := periodStart.AddDate(-1, 0, 0)
	status, env = call(t, ts, http.MethodPost, "/payments/calculate", adminToken, map[string]string{
		"freelancerId": profile.ID,
		"periodStart":  lastYear.Format("2006-01-02"),
		"periodEnd":    lastYear.AddDate(0, 1, -1).Format("2006-01-02"),
	})
	expectStatus(t, http.StatusOK, status, env, "calculate empty period")
	decodeData(t, env, &payCalc)
	if len(payCalc.LineItems) != 0 || payCalc.TotalAmount != "0" {
		t.Fatalf("expected an empty calculation, got %d / %s", len(payCalc.LineItems), payCalc.TotalAmount)
	}

	freelancerToken := login(t, ts, creds.Email, creds.TemporaryPassword)
	status, env = call(t, ts, http.MethodGet, "/portal/profile", freelancerToken, nil)
	expectStatus(t, http.StatusOK, status, env, "portal profile")
	var own freelancerView
	decodeData(t, env, &own)
	if own.ID != profile.ID || own.CurrentTier != "PLATINUM" {
		t.Fatalf("expected own PLATINUM profile, got %+v", own)
	}

	status, env = call(t, ts, http.MethodPost, "/tiering/calculate/"+profile.ID, freelancerToken, nil)
	expectStatus(t, http.StatusForbidden, status, env, "freelancer calling tiering")
}

func TestTieringNoDataAndDryRunBulk(t *testing.T) {
	ts, cfg := startApp(t)
	adminToken := login(t, ts, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	_, profile := onboard(t, ts, adminToken, "nodata")

	status, env := call(t, ts, http.MethodPost, "/tiering/calculate/"+profile.ID, adminToken, nil)
	expectStatus(t, http.StatusBadRequest, status, env, "calculate without records")
	if env.Message != "No performance records found for this freelancer" {
		t.Fatalf("unexpected message %q", env.Message)
	}

	status, env = call(t, ts, http.MethodPost, "/tiering/calculate-all", adminToken, map[string]any{"autoApply": false})
	expectStatus(t, http.StatusOK, status, env, "bulk dry run")
	var bulk struct {
		Summary struct {
			Total   int `json:"total"`
			Updated int `json:"updated"`
			Skipped int `json:"skipped"`
		} `json:"summary"`
		Results []struct {
			FreelancerID string `json:"freelancerId"`
			Status       string `json:"status"`
		} `json:"results"`
	}
	decodeData(t, env, &bulk)
	if bulk.Summary.Updated != 0 {
		t.Fatalf("dry run must not update, got %d", bulk.Summary.Updated)
	}
	if bulk.Summary.Total != len(bulk.Results) || bulk.Summary.Skipped < 1 {
		t.Fatalf("unexpected summary %+v", bulk.Summary)
	}

	status, env = call(t, ts, http.MethodGet, "/freelancers/"+profile.ID, adminToken, nil)
	expectStatus(t, http.StatusOK, status, env, "reload freelancer")
	var reloaded freelancerView
	decodeData(t, env, &reloaded)
	if reloaded.CurrentTier != "BRONZE" || reloaded.CurrentGrade != "C" {
		t.Fatalf("dry run mutated freelancer: %s/%s", reloaded.CurrentTier, reloaded.CurrentGrade)
	}

	status, env = call(t, ts, http.MethodPost, "/applications/00000000-0000-0000-0000-000000000000/approve", adminToken, nil)
	expectStatus(t, http.StatusNotFound, status, env, "approve unknown application")

	status, env = call(t, ts, http.MethodPost, "/tiering/calculate-all", "", map[string]any{"autoApply": false})
	expectStatus(t, http.StatusUnauthorized, status, env, "anonymous bulk")
}
