package llm

import (
	"context"

	"go.uber.org/zap"

	"github.com/offerlens/coherence-engine/pkg/retry"
)

// GuardedClient wraps a Client with a circuit breaker and retry policy.
// Transient provider failures are retried with backoff; repeated failures trip
// the breaker so scans fail fast to their sentinel results instead of queueing
// behind a dead endpoint.
type GuardedClient struct {
	inner    Client
	breaker  *CircuitBreaker
	retryCfg *retry.Config
	logger   *zap.Logger
}

// NewGuardedClient wraps inner with the given breaker. A nil retry config uses
// the default backoff policy.
func NewGuardedClient(inner Client, breaker *CircuitBreaker, retryCfg *retry.Config, logger *zap.Logger) *GuardedClient {
	if retryCfg == nil {
		retryCfg = retry.DefaultConfig()
	}
	return &GuardedClient{
		inner:    inner,
		breaker:  breaker,
		retryCfg: retryCfg,
		logger:   logger.Named("llm-guard"),
	}
}

var _ Client = (*GuardedClient)(nil)

// Complete implements Client. Each attempt checks the breaker first; outcomes
// feed back into it.
func (g *GuardedClient) Complete(ctx context.Context, prompt, systemMessage string, temperature float64) (string, error) {
	var result string
	err := retry.DoIfRetryable(ctx, g.retryCfg, func() error {
		if ok, err := g.breaker.Allow(); !ok {
			g.logger.Warn("request blocked by circuit breaker",
				zap.String("model", g.inner.Model()),
				zap.String("state", g.breaker.State().String()))
			return err
		}

		response, err := g.inner.Complete(ctx, prompt, systemMessage, temperature)
		if err != nil {
			g.breaker.RecordFailure()
			return err
		}

		g.breaker.RecordSuccess()
		result = response
		return nil
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

// Model implements Client.
func (g *GuardedClient) Model() string {
	return g.inner.Model()
}
