package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jfaurel/email-agent/internal/model"
	"github.com/jfaurel/email-agent/internal/repository"
)

// fakeLLM replays canned responses in call order.
type fakeLLM struct {
	responses []string
	errs      []error
	prompts   []string
}

func (f *fakeLLM) Generate(_ context.Context, prompt string) (string, error) {
	i := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", errors.New("unexpected call")
}

// fakeStore records bookkeeping writes in memory.
type fakeStore struct {
	committed []model.EmailLog
	failures  []model.EmailLog
	commitErr error
}

func (f *fakeStore) CommitSuccess(_ context.Context, _ string, e model.EmailLog) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed = append(f.committed, e)
	return nil
}

func (f *fakeStore) RecordFailure(_ context.Context, e model.EmailLog) error {
	f.failures = append(f.failures, e)
	return nil
}

func (f *fakeStore) rows() int { return len(f.committed) + len(f.failures) }

func testClient() *model.Client {
	return &model.Client{
		ClientID:      "c-1",
		CompanyName:   "Acme",
		ConfigJSON:    `{"companyName":"Acme","phone":"0102030405"}`,
		IsActive:      true,
		DraftMode:     true,
		APICallsCount: 1,
		APICallsLimit: 10,
		CreatedAt:     time.Now(),
	}
}

func testEmail() model.InboundEmail {
	return model.InboundEmail{From: "a@b.com", Subject: "Need pricing", Body: "..."}
}

func TestAnalyze_Information(t *testing.T) {
	llm := &fakeLLM{responses: []string{"INFORMATION", "Bonjour, voici les informations."}}
	store := &fakeStore{}
	svc := New(store, llm)

	res, err := svc.Analyze(context.Background(), testClient(), testEmail())
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if res.EmailType != "INFORMATION" {
		t.Errorf("email_type = %q", res.EmailType)
	}
	if res.EmailResponse != "Bonjour, voici les informations." {
		t.Errorf("email_response = %q", res.EmailResponse)
	}
	if res.QuoteData != nil {
		t.Errorf("quote_data = %+v, want nil", res.QuoteData)
	}
	if !res.DraftMode {
		t.Error("draft_mode not propagated from client")
	}
	if res.RequestID == "" {
		t.Error("request_id empty")
	}

	if store.rows() != 1 {
		t.Fatalf("log rows = %d, want 1", store.rows())
	}
	entry := store.committed[0]
	if !entry.Success || entry.EmailType != "INFORMATION" || entry.QuoteGenerated {
		t.Errorf("committed entry = %+v", entry)
	}
	if entry.RequestID != res.RequestID {
		t.Error("log row not correlated with result request_id")
	}
}

func TestAnalyze_DevisWithQuote(t *testing.T) {
	gen := `Thanks! ---SEPARATION--- {"items":[{"total":100}],"subtotal":100,"tva":20,"total":120}`
	llm := &fakeLLM{responses: []string{"DEVIS", gen}}
	store := &fakeStore{}
	svc := New(store, llm)

	res, err := svc.Analyze(context.Background(), testClient(), testEmail())
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if res.EmailResponse != "Thanks!" {
		t.Errorf("email_response = %q", res.EmailResponse)
	}
	if res.QuoteData == nil || res.QuoteData.Total != 120 {
		t.Fatalf("quote_data = %+v", res.QuoteData)
	}
	if !store.committed[0].QuoteGenerated {
		t.Error("log row should mark quote_generated")
	}

	// second call must carry the delimiter instruction
	if !strings.Contains(llm.prompts[1], "---SEPARATION---") {
		t.Error("generation prompt missing delimiter instruction")
	}
}

func TestAnalyze_DevisParseFailureIsNonFatal(t *testing.T) {
	llm := &fakeLLM{responses: []string{"DEVIS", "Reply only, the model forgot the JSON"}}
	store := &fakeStore{}
	svc := New(store, llm)

	res, err := svc.Analyze(context.Background(), testClient(), testEmail())
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if res.QuoteData != nil {
		t.Errorf("quote_data = %+v, want nil", res.QuoteData)
	}
	if res.EmailResponse != "Reply only, the model forgot the JSON" {
		t.Errorf("email_response = %q", res.EmailResponse)
	}
	if store.committed[0].QuoteGenerated {
		t.Error("quote_generated should be false")
	}
}

func TestAnalyze_UnknownTagPassesThrough(t *testing.T) {
	llm := &fakeLLM{responses: []string{"SPAM", "Réponse générique."}}
	store := &fakeStore{}
	svc := New(store, llm)

	res, err := svc.Analyze(context.Background(), testClient(), testEmail())
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if res.EmailType != "SPAM" {
		t.Errorf("email_type = %q, want pass-through tag", res.EmailType)
	}
	if res.QuoteData != nil {
		t.Error("unknown tag must not trigger quote parsing")
	}
}

func TestAnalyze_ClassifyFailureLogsAndErrors(t *testing.T) {
	llm := &fakeLLM{errs: []error{errors.New("upstream 502")}}
	store := &fakeStore{}
	svc := New(store, llm)

	_, err := svc.Analyze(context.Background(), testClient(), testEmail())
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("Analyze() error = %v, want ErrGeneration", err)
	}

	if store.rows() != 1 {
		t.Fatalf("log rows = %d, want exactly 1", store.rows())
	}
	entry := store.failures[0]
	if entry.Success {
		t.Error("failure entry marked success")
	}
	if entry.EmailType != "" {
		t.Errorf("email_type = %q, want empty (classification never completed)", entry.EmailType)
	}
	if !strings.Contains(entry.ResponseGenerated, "upstream 502") {
		t.Errorf("stored text = %q, want error message", entry.ResponseGenerated)
	}
}

func TestAnalyze_GenerateFailureLogsAndErrors(t *testing.T) {
	llm := &fakeLLM{
		responses: []string{"INFORMATION"},
		errs:      []error{nil, errors.New("timeout")},
	}
	store := &fakeStore{}
	svc := New(store, llm)

	_, err := svc.Analyze(context.Background(), testClient(), testEmail())
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("Analyze() error = %v, want ErrGeneration", err)
	}
	if store.rows() != 1 {
		t.Fatalf("log rows = %d, want exactly 1", store.rows())
	}
}

func TestAnalyze_QuotaRaceSurfaces(t *testing.T) {
	llm := &fakeLLM{responses: []string{"INFORMATION", "ok"}}
	store := &fakeStore{commitErr: repository.ErrQuotaExceeded}
	svc := New(store, llm)

	_, err := svc.Analyze(context.Background(), testClient(), testEmail())
	if !errors.Is(err, repository.ErrQuotaExceeded) {
		t.Fatalf("Analyze() error = %v, want ErrQuotaExceeded", err)
	}

	// The lost race still leaves exactly one audit row, as a failure.
	if store.rows() != 1 {
		t.Fatalf("log rows = %d, want exactly 1", store.rows())
	}
	entry := store.failures[0]
	if entry.Success {
		t.Error("raced attempt recorded as success")
	}
	if entry.EmailType != "INFORMATION" {
		t.Errorf("email_type = %q, want type from the completed pipeline", entry.EmailType)
	}
}

func TestAnalyze_CommitDBErrorStillLogs(t *testing.T) {
	llm := &fakeLLM{responses: []string{"INFORMATION", "ok"}}
	store := &fakeStore{commitErr: errors.New("mysql gone away")}
	svc := New(store, llm)

	_, err := svc.Analyze(context.Background(), testClient(), testEmail())
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("Analyze() error = %v, want ErrGeneration", err)
	}
	if store.rows() != 1 {
		t.Fatalf("log rows = %d, want exactly 1", store.rows())
	}
	if !strings.Contains(store.failures[0].ResponseGenerated, "mysql gone away") {
		t.Errorf("stored text = %q, want commit error message", store.failures[0].ResponseGenerated)
	}
}
