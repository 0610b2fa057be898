package stressconfig

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dogmatiq/ferrite"
	"github.com/dogmatiq/listkit/internal/stress"
)

// Defaults used when neither an option nor the environment provides a value.
const (
	DefaultWorkers = 8
	DefaultKeys    = 512
	DefaultRounds  = 100_000
)

var (
	workers = ferrite.
		Unsigned[uint]("LISTKIT_STRESS_WORKERS", "the number of concurrent workers").
		WithDefault(DefaultWorkers).
		WithMinimum(1).
		Required()

	keys = ferrite.
		Unsigned[uint]("LISTKIT_STRESS_KEYS", "the number of distinct elements").
		WithDefault(DefaultKeys).
		WithMinimum(1).
		Required()

	rounds = ferrite.
		Unsigned[uint]("LISTKIT_STRESS_ROUNDS", "the number of operations performed by each worker").
		WithDefault(DefaultRounds).
		Required()

	mix = ferrite.
		String("LISTKIT_STRESS_MIX", "the percentage of adds and removes, as ADD/REMOVE").
		WithDefault(FormatMix(stress.DefaultMix)).
		WithConstraint(
			"must be two percentages that sum to at most 100, such as 40/40",
			func(v string) bool {
				_, err := ParseMix(v)
				return err == nil
			},
		).
		Required()
)

// ParseMix parses an operation mix in ADD/REMOVE form.
func ParseMix(s string) (stress.Mix, error) {
	a, r, ok := strings.Cut(s, "/")
	if !ok {
		return stress.Mix{}, fmt.Errorf("mix %q is not in ADD/REMOVE form", s)
	}

	add, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return stress.Mix{}, fmt.Errorf("mix %q has an invalid add percentage: %w", s, err)
	}

	remove, err := strconv.Atoi(strings.TrimSpace(r))
	if err != nil {
		return stress.Mix{}, fmt.Errorf("mix %q has an invalid remove percentage: %w", s, err)
	}

	if add < 0 || remove < 0 || add+remove > 100 {
		return stress.Mix{}, fmt.Errorf("mix %q must be two percentages that sum to at most 100", s)
	}

	return stress.Mix{Add: add, Remove: remove}, nil
}

// FormatMix formats m in the form accepted by [ParseMix].
func FormatMix(m stress.Mix) string {
	return fmt.Sprintf("%d/%d", m.Add, m.Remove)
}

func (c *Config) finalizeWorkload() {
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
		if c.UseEnv {
			c.Workers = int(workers.Value())
		}
	}

	if c.Keys == 0 {
		c.Keys = DefaultKeys
		if c.UseEnv {
			c.Keys = int(keys.Value())
		}
	}

	if c.Rounds == 0 {
		c.Rounds = DefaultRounds
		if c.UseEnv {
			c.Rounds = int(rounds.Value())
		}
	}

	if !c.HasMix {
		c.Mix = stress.DefaultMix
		if c.UseEnv {
			c.Mix, _ = ParseMix(mix.Value())
		}
		c.HasMix = true
	}
}
