package stressconfig

import (
	"fmt"

	"github.com/dogmatiq/ferrite"
)

// Protocol identifies one of the container implementations.
type Protocol string

const (
	// Marker is the lock-free set that uses marker nodes.
	Marker Protocol = "marker"

	// Lazy is the set that uses optimistic per-node locking.
	Lazy Protocol = "lazy"

	// Backlink is the lock-free set that uses marker nodes and backlinks.
	Backlink Protocol = "backlink"

	// Status is the unordered lock-free set that uses node statuses.
	Status Protocol = "status"
)

// Protocols is the list of valid protocols.
var Protocols = []Protocol{Marker, Lazy, Backlink, Status}

// ParseProtocol returns the protocol with the given name.
func ParseProtocol(s string) (Protocol, error) {
	for _, p := range Protocols {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unrecognized protocol %q", s)
}

var protocol = ferrite.
	Enum("LISTKIT_STRESS_PROTOCOL", "the container protocol to exercise").
	WithMembers(
		string(Marker),
		string(Lazy),
		string(Backlink),
		string(Status),
	).
	WithDefault(string(Marker)).
	Required()

func (c *Config) finalizeProtocol() {
	if c.Protocol != "" {
		return
	}

	if c.UseEnv {
		c.Protocol = Protocol(protocol.Value())
		return
	}

	c.Protocol = Marker
}
