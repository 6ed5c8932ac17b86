// Package compare runs one shopping-list price comparison end to end.
package compare

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pricecheck/internal/domain"
	domcompare "github.com/kailas-cloud/pricecheck/internal/domain/compare"
	"github.com/kailas-cloud/pricecheck/internal/domain/envelope"
	"github.com/kailas-cloud/pricecheck/internal/domain/evidence"
	logpkg "github.com/kailas-cloud/pricecheck/internal/logger"
	"github.com/kailas-cloud/pricecheck/internal/metrics"
	"github.com/kailas-cloud/pricecheck/internal/usecase/normalize"
	"github.com/kailas-cloud/pricecheck/internal/usecase/prompt"
	"github.com/kailas-cloud/pricecheck/internal/usecase/query"
)

// DefaultModelTimeout bounds a single model call.
const DefaultModelTimeout = 90 * time.Second

// UnusableOutputMessage is returned when the model output holds no store list.
const UnusableOutputMessage = "The model response did not contain a usable store list. " +
	"Try again, widen the search radius or specify brands."

// Input is a raw compare request.
type Input struct {
	Address  string
	RadiusKM float64
	ListText string
	UseWeb   bool
	Provider string
}

// Config tunes orchestration.
type Config struct {
	Query        query.Limits
	ModelTimeout time.Duration
}

// Service orchestrates query building, evidence gathering, prompting, model
// invocation, normalization and validation.
type Service struct {
	gatherer  Gatherer
	providers Providers
	assembler Assembler
	validator Validator
	cfg       Config
}

// New creates a compare service. gatherer may be nil when web search is not configured.
func New(gatherer Gatherer, providers Providers, assembler Assembler, validator Validator, cfg Config) *Service {
	if cfg.ModelTimeout <= 0 {
		cfg.ModelTimeout = DefaultModelTimeout
	}
	return &Service{
		gatherer:  gatherer,
		providers: providers,
		assembler: assembler,
		validator: validator,
		cfg:       cfg,
	}
}

// Compare runs the pipeline. Input problems and data-quality outcomes are returned
// as envelopes; hard external failures and unparseable model output are errors.
func (s *Service) Compare(ctx context.Context, in Input) (envelope.Envelope, error) {
	env, err := s.compare(ctx, in)
	if err != nil {
		metrics.CompareOutcomesTotal.WithLabelValues(string(envelope.StatusError)).Inc()
		return envelope.Envelope{}, err
	}
	metrics.CompareOutcomesTotal.WithLabelValues(string(env.Status)).Inc()
	return env, nil
}

func (s *Service) compare(ctx context.Context, in Input) (envelope.Envelope, error) {
	req, needed := domcompare.New(in.Address, in.RadiusKM, in.ListText, in.UseWeb, in.Provider)
	if len(needed) > 0 {
		return envelope.NeedInput(needed), nil
	}

	ctx, logger := logpkg.With(ctx, zap.String("run_id", uuid.NewString()))

	generator, err := s.providers.Get(req.Provider())
	if err != nil {
		return envelope.Envelope{}, fmt.Errorf("select provider: %w", err)
	}

	docs, err := s.evidence(ctx, &req)
	if err != nil {
		return envelope.Envelope{}, err
	}

	p := s.assembler.Assemble(prompt.Input{
		Address:  req.Address(),
		RadiusKM: req.RadiusKM(),
		ListText: req.ListText(),
		Evidence: docs,
	})
	logger.Debug("prompt assembled",
		zap.Int("evidence_docs", len(docs)),
		zap.Int("system_chars", len(p.System)),
		zap.Int("user_chars", len(p.User)),
	)

	gen, err := s.generate(ctx, generator, p)
	if err != nil {
		return envelope.Envelope{}, err
	}

	out, err := normalize.Normalize(gen.Text)
	if err != nil {
		return envelope.Envelope{}, fmt.Errorf("normalize: %w", err)
	}
	if out.Status == envelope.StatusNoResults {
		msg := out.Message
		if msg == "" {
			msg = UnusableOutputMessage
		}
		logger.Info("model output had no usable results")
		return envelope.NoResults(msg, out.Raw), nil
	}

	env := s.validator.Validate(out.Stores)
	logger.Info("compare completed",
		zap.String("status", string(env.Status)),
		zap.Int("candidate_stores", len(out.Stores)),
		zap.Int("stores", len(env.Results)),
	)
	return env, nil
}

func (s *Service) evidence(ctx context.Context, req *domcompare.Request) ([]evidence.Document, error) {
	if !req.UseWeb() {
		return nil, nil
	}
	if s.gatherer == nil {
		return nil, fmt.Errorf("%w: web search is not configured", domain.ErrMissingCredentials)
	}

	queries := query.Build(req.ListText(), query.LocationHint(req.Address()), s.cfg.Query)
	docs, err := s.gatherer.Gather(ctx, queries)
	if err != nil {
		return nil, fmt.Errorf("gather evidence: %w", err)
	}
	return docs, nil
}

func (s *Service) generate(ctx context.Context, g domain.Generator, p domain.Prompt) (domain.Generation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ModelTimeout)
	defer cancel()

	gen, err := g.Generate(ctx, p)
	if err != nil {
		return domain.Generation{}, fmt.Errorf("model: %w", err)
	}
	return gen, nil
}
