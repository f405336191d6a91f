package musiclink

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultStrategyTimeout bounds a single strategy attempt.
const DefaultStrategyTimeout = 10 * time.Second

var errEmptyResult = errors.New("strategy returned no metadata")

// Strategy is one named attempt inside an extractor's fallback chain.
type Strategy struct {
	Name    string
	Attempt func(ctx context.Context, nativeID string) (*TrackMetadata, error)
}

// StrategyObserver is notified about the outcome of every strategy attempt.
type StrategyObserver interface {
	ObserveStrategy(platform Platform, strategy string, err error)
}

// Chain runs strategies in order until one yields metadata.
type Chain struct {
	platform   Platform
	strategies []Strategy
	timeout    time.Duration
	logger     *zap.Logger
	observer   StrategyObserver
}

// NewChain creates a fallback chain for a platform.
func NewChain(platform Platform, opts Options, strategies ...Strategy) *Chain {
	opts = opts.withDefaults()
	return &Chain{
		platform:   platform,
		strategies: strategies,
		timeout:    opts.StrategyTimeout,
		logger:     opts.Logger,
		observer:   opts.Observer,
	}
}

// Run returns the metadata of the first successful strategy together with its name.
// Errors, empty results and panics all advance to the next strategy.
func (c *Chain) Run(ctx context.Context, nativeID string) (*TrackMetadata, string, error) {
	for _, strategy := range c.strategies {
		meta, err := c.attempt(ctx, strategy, nativeID)
		if err == nil && meta == nil {
			err = errEmptyResult
		}
		if c.observer != nil {
			c.observer.ObserveStrategy(c.platform, strategy.Name, err)
		}
		if err != nil {
			c.logger.Debug("Extraction strategy failed",
				zap.String("platform", string(c.platform)),
				zap.String("strategy", strategy.Name),
				zap.String("id", nativeID),
				zap.Error(err))
			continue
		}
		return meta, strategy.Name, nil
	}

	return nil, "", fmt.Errorf("%s track %s: %w", c.platform, nativeID, ErrTrackNotFound)
}

func (c *Chain) attempt(ctx context.Context, strategy Strategy, nativeID string) (meta *TrackMetadata, err error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			meta, err = nil, fmt.Errorf("strategy %s panicked: %v", strategy.Name, r)
		}
	}()

	return strategy.Attempt(attemptCtx, nativeID)
}

// Options carries the shared dependencies of extractors and searchers.
type Options struct {
	HTTPClient      *http.Client
	StrategyTimeout time.Duration
	Logger          *zap.Logger
	Observer        StrategyObserver
}

func (o Options) withDefaults() Options {
	if o.HTTPClient == nil {
		o.HTTPClient = newHTTPClient()
	}
	if o.StrategyTimeout <= 0 {
		o.StrategyTimeout = DefaultStrategyTimeout
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
