package stressconfig

import (
	"github.com/dogmatiq/ferrite"
	"github.com/google/uuid"
)

var runID = ferrite.
	String("LISTKIT_STRESS_RUN_ID", "a unique identifier for this stress run").
	WithConstraint(
		"must be a UUID",
		func(v string) bool {
			id, err := uuid.Parse(v)
			return err == nil && id != uuid.Nil
		},
	).
	Optional()

func (c *Config) finalizeRunID() {
	if c.RunID != uuid.Nil {
		return
	}

	if c.UseEnv {
		if id, ok := runID.Value(); ok {
			c.RunID = uuid.MustParse(id)
			return
		}
	}

	c.RunID = uuid.New()
}
