package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"refik/internal/services"

	"github.com/gin-gonic/gin"
)

type stubRunner struct {
	sum  services.Summary
	err  error
	runs int
}

func (s *stubRunner) Run(ctx context.Context) (services.Summary, error) {
	s.runs++
	return s.sum, s.err
}

func triggerRouter(runner *stubRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/jobs/send-reminders", TriggerReminders(runner))
	return router
}

func TestTriggerRemindersReportsCounts(t *testing.T) {
	runner := &stubRunner{sum: services.Summary{Sent: 3, Failed: 1}}
	router := triggerRouter(runner)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jobs/send-reminders", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Success bool `json:"success"`
		Sent    int  `json:"sent"`
		Failed  int  `json:"failed"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !body.Success || body.Sent != 3 || body.Failed != 1 {
		t.Fatalf("body = %+v", body)
	}
	if runner.runs != 1 {
		t.Fatalf("runner invoked %d times, want 1", runner.runs)
	}
}

func TestTriggerRemindersUpstreamFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("connection refused")}
	router := triggerRouter(runner)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jobs/send-reminders", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if _, ok := body["error"]; !ok {
		t.Fatalf("response must carry an error field: %v", body)
	}
}

func TestTriggerRemindersJobToken(t *testing.T) {
	t.Setenv("REMINDER_JOB_TOKEN", "gizli")
	runner := &stubRunner{}
	router := triggerRouter(runner)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jobs/send-reminders", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want 401", w.Code)
	}
	if runner.runs != 0 {
		t.Fatal("runner must not run without a valid token")
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/jobs/send-reminders", nil)
	req.Header.Set("X-Job-Token", "gizli")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status with token = %d, want 200", w.Code)
	}
}
