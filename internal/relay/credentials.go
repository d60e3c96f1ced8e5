package relay

import (
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
)

// Strategy decides which bot credential an upload goes through.
type Strategy string

const (
	// StrategyRandom spreads load by picking uniformly among credentials.
	// A failed upload is terminal for the call.
	StrategyRandom Strategy = "random"
	// StrategyRoundRobin cycles through credentials. A failed upload is
	// terminal for the call.
	StrategyRoundRobin Strategy = "round_robin"
	// StrategyFailover tries credentials in configured order until one
	// succeeds; exhausting the list is terminal.
	StrategyFailover Strategy = "failover"
)

var ErrNoCredentials = errors.New("relay: no credentials configured")

type Credential struct {
	Token string
}

// Pool owns the configured bot credentials and the selection strategy.
// Selection lives here so handlers never duplicate it.
type Pool struct {
	creds    []Credential
	strategy Strategy
	next     atomic.Uint64
}

func NewPool(tokens []string, strategy Strategy) (*Pool, error) {
	creds := make([]Credential, 0, len(tokens))
	for _, t := range tokens {
		if t != "" {
			creds = append(creds, Credential{Token: t})
		}
	}
	if len(creds) == 0 {
		return nil, ErrNoCredentials
	}
	switch strategy {
	case StrategyRandom, StrategyRoundRobin, StrategyFailover:
	case "":
		strategy = StrategyRandom
	default:
		return nil, fmt.Errorf("relay: unknown strategy %q", strategy)
	}
	return &Pool{creds: creds, strategy: strategy}, nil
}

func (p *Pool) Size() int { return len(p.creds) }

// ByIndex returns the credential that performed an earlier upload so that
// downloads can go through the same bot.
func (p *Pool) ByIndex(i int) (Credential, error) {
	if i < 0 || i >= len(p.creds) {
		return Credential{}, fmt.Errorf("relay: credential index %d out of range", i)
	}
	return p.creds[i], nil
}

// SelectForUpload returns the credential indices to attempt, in order.
// Random and round-robin yield a single candidate; failover yields all.
func (p *Pool) SelectForUpload() []int {
	switch p.strategy {
	case StrategyRoundRobin:
		n := p.next.Add(1) - 1
		return []int{int(n % uint64(len(p.creds)))}
	case StrategyFailover:
		order := make([]int, len(p.creds))
		for i := range order {
			order[i] = i
		}
		return order
	default:
		return []int{rand.Intn(len(p.creds))}
	}
}
