// Package cardlookup answers card lookups. The card index is built from the
// data set on first use and shared by every later lookup.
package cardlookup

//go:generate mockgen -destination=mock/mock_service.go -package=cardlookupmock github.com/KirkDiggler/xwing-api/internal/orchestrators/cardlookup Service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/KirkDiggler/xwing-api/internal/clients/xwingdata"
	"github.com/KirkDiggler/xwing-api/internal/entities/xwing"
	"github.com/KirkDiggler/xwing-api/internal/errors"
	"github.com/KirkDiggler/xwing-api/internal/lookup"
	"github.com/KirkDiggler/xwing-api/internal/markup"
	"github.com/KirkDiggler/xwing-api/internal/pkg/idgen"
	"github.com/KirkDiggler/xwing-api/internal/pkg/logger"
	"github.com/KirkDiggler/xwing-api/internal/repositories/dataset"
)

const (
	// MaxResultsLimit caps the configurable result limit
	MaxResultsLimit = 50

	indexKey = "index"
)

// Service defines the interface for card lookups
type Service interface {
	// Lookup resolves a query and renders the matching cards
	// Returns errors.InvalidArgument for malformed queries; the message is
	// meant to be shown to the user as is
	// Returns errors.Unavailable or errors.NotFound when the data set
	// cannot be loaded, errors.DataLoss when it is inconsistent
	Lookup(ctx context.Context, input *LookupInput) (*LookupOutput, error)

	// Warm builds the card index ahead of the first lookup
	Warm(ctx context.Context) error
}

// Config holds the dependencies for the card lookup orchestrator
type Config struct {
	DataClient xwingdata.Client
	// DatasetRepo caches the data set between restarts; optional
	DatasetRepo dataset.Repository
	Printer     markup.Printer
	Logger      *zap.Logger
	// IDGenerator tags each lookup for log correlation; defaults to UUIDs
	IDGenerator idgen.Generator
	// MaxResults is the most cards one lookup renders; 0 means 10
	MaxResults int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if c.DataClient == nil {
		vb.RequiredField("DataClient")
	}
	if c.Printer == nil {
		vb.RequiredField("Printer")
	}
	errors.ValidateRange("MaxResults", c.MaxResults, 0, MaxResultsLimit, vb)

	return vb.Build()
}

type orchestrator struct {
	dataClient  xwingdata.Client
	datasetRepo dataset.Repository
	renderer    *lookup.Renderer
	printer     markup.Printer
	logger      *zap.Logger
	idGen       idgen.Generator
	maxResults  int

	builds  singleflight.Group
	mu      sync.RWMutex
	matcher *lookup.Matcher
}

// NewOrchestrator creates a new card lookup orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	idGen := cfg.IDGenerator
	if idGen == nil {
		idGen = idgen.NewUUID("lookup")
	}
	maxResults := cfg.MaxResults
	if maxResults == 0 {
		maxResults = lookup.DefaultMaxResults
	}

	return &orchestrator{
		dataClient:  cfg.DataClient,
		datasetRepo: cfg.DatasetRepo,
		renderer:    lookup.NewRenderer(cfg.Printer),
		printer:     cfg.Printer,
		logger:      logger.OrNop(cfg.Logger),
		idGen:       idGen,
		maxResults:  maxResults,
	}, nil
}

func (o *orchestrator) Lookup(ctx context.Context, input *LookupInput) (*LookupOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	start := time.Now()
	requestID := o.idGen.Generate()
	log := o.logger.With(
		zap.String("request_id", requestID),
		zap.String("query", input.Query))

	matcher, err := o.loadMatcher(ctx)
	if err != nil {
		log.Error("card index unavailable", zap.Error(err))
		return nil, err
	}

	cards, err := matcher.Lookup(input.Query)
	if err != nil {
		log.Debug("rejected query", zap.Error(err))
		return nil, err
	}

	result := lookup.HandleLookup(cards, o.renderer, o.maxResults)

	log.Info("card lookup",
		zap.Int("matched", result.Matched),
		zap.Bool("too_many", result.TooMany),
		zap.Duration("duration", time.Since(start)))

	return &LookupOutput{
		RequestID: requestID,
		Lines:     result.Lines,
		Matched:   result.Matched,
		TooMany:   result.TooMany,
	}, nil
}

func (o *orchestrator) Warm(ctx context.Context) error {
	_, err := o.loadMatcher(ctx)
	return err
}

// loadMatcher returns the shared matcher, building the index on first use.
// Concurrent first callers share one build; a failed build is retried by
// the next caller.
func (o *orchestrator) loadMatcher(ctx context.Context) (*lookup.Matcher, error) {
	o.mu.RLock()
	matcher := o.matcher
	o.mu.RUnlock()
	if matcher != nil {
		return matcher, nil
	}

	// the build outlives a caller that gives up waiting on it
	buildCtx := context.WithoutCancel(ctx)
	result := o.builds.DoChan(indexKey, func() (interface{}, error) {
		o.mu.RLock()
		built := o.matcher
		o.mu.RUnlock()
		if built != nil {
			return built, nil
		}

		m, err := o.buildMatcher(buildCtx)
		if err != nil {
			return nil, err
		}

		o.mu.Lock()
		o.matcher = m
		o.mu.Unlock()
		return m, nil
	})

	select {
	case <-ctx.Done():
		return nil, errors.WrapWithCode(ctx.Err(), errors.CodeUnavailable, "card index still loading")
	case res := <-result:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*lookup.Matcher), nil
	}
}

func (o *orchestrator) buildMatcher(ctx context.Context) (*lookup.Matcher, error) {
	start := time.Now()

	ds, err := o.loadDataset(ctx)
	if err != nil {
		return nil, err
	}

	index, err := lookup.NewIndex(ds, lookup.WithLogger(o.logger))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build card index")
	}

	o.logger.Info("card index ready",
		zap.String("source", o.dataClient.Source()),
		zap.Int("cards", index.Len()),
		zap.Duration("duration", time.Since(start)))

	return lookup.NewMatcher(index, o.printer), nil
}

// loadDataset prefers the cached copy and falls back to the client, writing
// a fresh download back to the cache. Cache failures are logged, never
// fatal.
func (o *orchestrator) loadDataset(ctx context.Context) (*xwing.Dataset, error) {
	source := o.dataClient.Source()

	if o.datasetRepo != nil {
		out, err := o.datasetRepo.Get(ctx, dataset.GetInput{Source: source})
		switch {
		case err == nil:
			o.logger.Debug("using cached dataset",
				zap.String("source", source),
				zap.Time("stored_at", out.StoredAt))
			return out.Dataset, nil
		case errors.IsNotFound(err):
			o.logger.Debug("dataset not cached", zap.String("source", source))
		default:
			o.logger.Warn("dataset cache read failed", zap.String("source", source), zap.Error(err))
		}
	}

	ds, err := o.dataClient.FetchDataset(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load dataset")
	}

	if o.datasetRepo != nil {
		if _, err := o.datasetRepo.Put(ctx, dataset.PutInput{Source: source, Dataset: ds}); err != nil {
			o.logger.Warn("dataset cache write failed", zap.String("source", source), zap.Error(err))
		}
	}

	return ds, nil
}
