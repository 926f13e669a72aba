// Package analyzer runs the classify-then-generate pipeline over one inbound
// email and does the bookkeeping around it: quota increment and audit log in
// a single transaction on success, a failure log row otherwise.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jfaurel/email-agent/internal/llm"
	"github.com/jfaurel/email-agent/internal/logger"
	"github.com/jfaurel/email-agent/internal/metrics"
	"github.com/jfaurel/email-agent/internal/model"
	"github.com/jfaurel/email-agent/internal/prompt"
	"github.com/jfaurel/email-agent/internal/quote"
	"github.com/jfaurel/email-agent/internal/repository"
	"github.com/jfaurel/email-agent/internal/util"
	"go.uber.org/zap"
)

// ErrGeneration wraps any model-call failure; the handler maps it to 500.
var ErrGeneration = errors.New("generation failed")

// Result is the pipeline output returned to the caller.
type Result struct {
	RequestID     string       `json:"request_id"`
	EmailType     string       `json:"email_type"`
	DraftMode     bool         `json:"draft_mode"`
	EmailResponse string       `json:"email_response"`
	QuoteData     *quote.Quote `json:"quote_data"`
}

type Service struct {
	store repository.AnalysisStore
	llm   llm.Client
	now   func() time.Time
}

func New(store repository.AnalysisStore, llmClient llm.Client) *Service {
	return &Service{
		store: store,
		llm:   llmClient,
		now:   time.Now,
	}
}

// Analyze classifies the email, generates the reply (and, for DEVIS, the
// structured quote), then commits the quota increment and the audit row
// together. Every attempt past the gate leaves exactly one log row.
func (s *Service) Analyze(ctx context.Context, client *model.Client, email model.InboundEmail) (*Result, error) {
	reqID := util.NewRequestID()
	log := logger.Log.With(
		zap.String("request_id", reqID),
		zap.String("client_id", client.ClientID),
	)

	result, err := s.runPipeline(ctx, client, email, log)
	if err != nil {
		s.recordFailure(client.ClientID, reqID, email, "", err, log)
		metrics.EmailsTotal.WithLabelValues("", "failure").Inc()
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	result.RequestID = reqID
	result.DraftMode = client.DraftMode

	if err := s.store.CommitSuccess(ctx, client.ClientID, model.EmailLog{
		RequestID:         reqID,
		ClientID:          client.ClientID,
		EmailFrom:         email.From,
		EmailSubject:      email.Subject,
		EmailType:         result.EmailType,
		ResponseGenerated: util.Truncate(result.EmailResponse, util.AuditResponseMax),
		QuoteGenerated:    result.QuoteData != nil,
		Success:           true,
	}); err != nil {
		// Quota raced past the limit between the gate and the commit, or
		// the DB failed after a successful generation. Either way the
		// counter must stay consistent with the audit trail, so the call
		// fails rather than returning an uncommitted result. The attempt
		// still gets its one log row, recorded as a failure.
		s.recordFailure(client.ClientID, reqID, email, result.EmailType, err, log)
		metrics.EmailsTotal.WithLabelValues(result.EmailType, "failure").Inc()
		if errors.Is(err, repository.ErrQuotaExceeded) {
			return nil, err
		}
		log.Error("commit analyze result", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	metrics.EmailsTotal.WithLabelValues(result.EmailType, "success").Inc()
	return result, nil
}

func (s *Service) runPipeline(ctx context.Context, client *model.Client, email model.InboundEmail, log *zap.Logger) (*Result, error) {
	cfg := client.Config()

	start := s.now()
	rawType, err := s.llm.Generate(ctx, prompt.Classification(email))
	metrics.LLMRequestDuration.WithLabelValues("classify").Observe(s.now().Sub(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	// The tag is used verbatim; unknown tags reach the builder's
	// catch-all branch instead of failing the request.
	emailType := model.ParseEmailType(rawType)
	isQuote := emailType == model.TypeDevis

	system := prompt.System(emailType, cfg, s.now())
	genPrompt := prompt.Generation(system, email, isQuote)

	start = s.now()
	output, err := s.llm.Generate(ctx, genPrompt)
	metrics.LLMRequestDuration.WithLabelValues("generate").Observe(s.now().Sub(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	result := &Result{EmailType: emailType.String()}

	if isQuote {
		reply, q, perr := quote.Parse(output)
		result.EmailResponse = reply
		result.QuoteData = q
		if perr != nil {
			// Parse failure is non-fatal: reply ships, quote stays null.
			log.Warn("quote parse failed", zap.String("error", perr.Error()))
			metrics.QuoteParseFailures.Inc()
		} else if !q.ChecksOut() {
			log.Warn("quote arithmetic mismatch", zap.String("devis_number", q.DevisNumber))
			metrics.QuoteArithmeticMismatch.Inc()
		}
	} else {
		result.EmailResponse = output
	}

	return result, nil
}

// recordFailure writes the audit row for a failed run. Best effort: a
// log-write failure must not mask the pipeline error. emailType is empty
// when classification never completed.
func (s *Service) recordFailure(clientID, reqID string, email model.InboundEmail, emailType string, cause error, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.store.RecordFailure(ctx, model.EmailLog{
		RequestID:         reqID,
		ClientID:          clientID,
		EmailFrom:         email.From,
		EmailSubject:      email.Subject,
		EmailType:         emailType,
		ResponseGenerated: util.Truncate(cause.Error(), util.AuditResponseMax),
		Success:           false,
	}); err != nil {
		log.Error("write failure log", zap.Error(err))
	}
}
