package stressconfig

import (
	"github.com/dogmatiq/listkit/internal/stress"
	"github.com/google/uuid"
)

// Config encapsulates the configuration of a stress run, built by applying
// option functions and then falling back to environment variables and
// defaults.
type Config struct {
	UseEnv   bool
	RunID    uuid.UUID
	Protocol Protocol
	Workers  int
	Keys     int
	Rounds   int
	Mix      stress.Mix
	HasMix   bool
}

// New returns the configuration produced by applying the given options.
func New[Option ~func(*Config)](options []Option) Config {
	var c Config

	for _, opt := range options {
		opt(&c)
	}

	c.finalize()

	return c
}

func (c *Config) finalize() {
	c.finalizeRunID()
	c.finalizeProtocol()
	c.finalizeWorkload()
}
