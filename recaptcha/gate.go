// Package recaptcha gates comment submission on bot-mitigation readiness.
package recaptcha

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// State is the readiness of the bot-mitigation layer.
type State int

const (
	// StateDisabled means the service does not require tokens.
	StateDisabled State = iota
	// StateInitializing means the provider exists but is not ready yet.
	StateInitializing
	// StateReady means tokens can be fetched.
	StateReady
	// StateUnavailable means tokens are required but cannot be produced.
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// ErrUnavailable is returned by Token while the provider is initializing or
// has failed. Submissions must not proceed to the service without a token.
var ErrUnavailable = errors.New("recaptcha token unavailable")

// Provider produces bot-mitigation tokens. Init must be called once with
// the service's site key before Token.
type Provider interface {
	Init(ctx context.Context, siteKey string) error
	Token(ctx context.Context) (string, error)
}

// Gate tracks bot-mitigation readiness through its two-phase setup: first
// the service config says whether tokens are required, then the provider
// initializes asynchronously. Gate is not safe for concurrent mutation; it
// belongs to a single event loop.
type Gate struct {
	state    State
	provider Provider
	siteKey  string
}

// New builds a gate from the service's bot-mitigation config. A disabled
// config needs no provider. An enabled config without a provider leaves the
// gate unavailable, which blocks submission.
func New(enabled bool, siteKey string, p Provider) *Gate {
	g := &Gate{provider: p, siteKey: siteKey}
	switch {
	case !enabled:
		g.state = StateDisabled
	case p == nil:
		log.Warn().Msg("recaptcha enabled but no token provider configured")
		g.state = StateUnavailable
	default:
		g.state = StateInitializing
	}
	return g
}

// State returns the gate's current readiness.
func (g *Gate) State() State { return g.state }

// Init runs provider initialization when the gate needs it. The outcome is
// recorded separately with SetReady so callers can run Init off the event
// loop.
func (g *Gate) Init(ctx context.Context) error {
	if g.state != StateInitializing {
		return nil
	}
	return g.provider.Init(ctx, g.siteKey)
}

// SetReady records the outcome of provider initialization.
func (g *Gate) SetReady(err error) {
	if g.state != StateInitializing {
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("recaptcha provider init failed")
		g.state = StateUnavailable
		return
	}
	g.state = StateReady
}

// Token returns the token to attach to a submission. Disabled gates return
// an empty token and no error. Initializing and unavailable gates return
// ErrUnavailable.
func (g *Gate) Token(ctx context.Context) (string, error) {
	switch g.state {
	case StateDisabled:
		return "", nil
	case StateReady:
		tok, err := g.provider.Token(ctx)
		if err != nil {
			return "", errors.Wrap(err, "fetching recaptcha token")
		}
		return tok, nil
	default:
		return "", ErrUnavailable
	}
}
