package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jfaurel/email-agent/internal/http/middleware"
	"github.com/jfaurel/email-agent/internal/model"
	"github.com/jfaurel/email-agent/internal/repository"
	"github.com/jfaurel/email-agent/internal/service/analyzer"
	"github.com/jmoiron/sqlx"
	echo "github.com/labstack/echo/v4"
)

type stubClients struct {
	client *model.Client
}

func (s *stubClients) GetByID(_ context.Context, id string) (*model.Client, error) {
	if s.client != nil && s.client.ClientID == id {
		return s.client, nil
	}
	return nil, nil
}
func (s *stubClients) List(context.Context) ([]model.Client, error) { return nil, nil }
func (s *stubClients) Create(context.Context, model.Client) error   { return nil }
func (s *stubClients) SetFlag(context.Context, string, string, bool) (bool, error) {
	return false, nil
}
func (s *stubClients) UpdateConfig(context.Context, string, string) (bool, error) {
	return false, nil
}
func (s *stubClients) IncrementCalls(context.Context, *sqlx.Tx, string) error { return nil }
func (s *stubClients) Stats(context.Context) (repository.ClientStats, error) {
	return repository.ClientStats{}, nil
}

type stubStore struct {
	entries []model.EmailLog
}

func (s *stubStore) CommitSuccess(_ context.Context, _ string, e model.EmailLog) error {
	s.entries = append(s.entries, e)
	return nil
}
func (s *stubStore) RecordFailure(_ context.Context, e model.EmailLog) error {
	s.entries = append(s.entries, e)
	return nil
}

type stubLLM struct {
	responses []string
	n         int
}

func (s *stubLLM) Generate(context.Context, string) (string, error) {
	r := s.responses[s.n]
	s.n++
	return r, nil
}

func newAnalyzeServer(clients *stubClients, store *stubStore, llmStub *stubLLM) *echo.Echo {
	e := echo.New()
	svc := analyzer.New(store, llmStub)
	api := e.Group("/api", middleware.ClientGateMiddleware(clients))
	api.POST("/analyze-email", analyzeEmailHandler(svc))
	return e
}

func activeClient() *model.Client {
	return &model.Client{
		ClientID:      "c-1",
		IsActive:      true,
		DraftMode:     true,
		APICallsCount: 0,
		APICallsLimit: 10,
	}
}

func TestAnalyzeEmail_OK(t *testing.T) {
	store := &stubStore{}
	e := newAnalyzeServer(
		&stubClients{client: activeClient()},
		store,
		&stubLLM{responses: []string{"INFORMATION", "Bonjour."}},
	)

	body := `{"from":"a@b.com","subject":"Need pricing","body":"..."}`
	req := httptest.NewRequest(http.MethodPost, "/api/analyze-email", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Client-ID", "c-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res["email_type"] != "INFORMATION" {
		t.Errorf("email_type = %v", res["email_type"])
	}
	if res["email_response"] != "Bonjour." {
		t.Errorf("email_response = %v", res["email_response"])
	}
	if res["draft_mode"] != true {
		t.Errorf("draft_mode = %v, want client flag echoed", res["draft_mode"])
	}
	if res["quote_data"] != nil {
		t.Errorf("quote_data = %v, want null", res["quote_data"])
	}
	if len(store.entries) != 1 || !store.entries[0].Success {
		t.Errorf("audit entries = %+v", store.entries)
	}
}

func TestAnalyzeEmail_MissingFields(t *testing.T) {
	e := newAnalyzeServer(&stubClients{client: activeClient()}, &stubStore{}, &stubLLM{})

	body := `{"from":"a@b.com","subject":"Need pricing"}`
	req := httptest.NewRequest(http.MethodPost, "/api/analyze-email", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Client-ID", "c-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeEmail_UnknownClient(t *testing.T) {
	e := newAnalyzeServer(&stubClients{}, &stubStore{}, &stubLLM{})

	req := httptest.NewRequest(http.MethodPost, "/api/analyze-email", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Client-ID", "ghost")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestToggleClient_RejectsUnknownField(t *testing.T) {
	e := echo.New()
	e.POST("/admin/clients/:id/toggle", toggleClientHandler(&rejectingClients{}))

	body := `{"field":"api_calls_limit","value":true}`
	req := httptest.NewRequest(http.MethodPost, "/admin/clients/c-1/toggle", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for non-togglable field", rec.Code)
	}
}

// rejectingClients mimics the real repository's whitelist behavior.
type rejectingClients struct{ stubClients }

func (r *rejectingClients) SetFlag(_ context.Context, _, field string, _ bool) (bool, error) {
	if field != "is_active" && field != "draft_mode" {
		return false, repository.ErrInvalidField
	}
	return true, nil
}
