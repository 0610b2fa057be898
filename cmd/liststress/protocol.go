package main

import (
	"fmt"

	"github.com/dogmatiq/listkit"
	"github.com/dogmatiq/listkit/backlinkset"
	"github.com/dogmatiq/listkit/internal/stressconfig"
	"github.com/dogmatiq/listkit/lazyset"
	"github.com/dogmatiq/listkit/markerset"
	"github.com/dogmatiq/listkit/statusset"
)

// newSet returns an empty set of integers that uses the given protocol.
func newSet(p stressconfig.Protocol) (listkit.Set[int], error) {
	switch p {
	case stressconfig.Marker:
		return &markerset.Set[int, listkit.IntegerKey[int]]{}, nil
	case stressconfig.Lazy:
		return &lazyset.Set[int, listkit.IntegerKey[int]]{}, nil
	case stressconfig.Backlink:
		return &backlinkset.Set[int, listkit.IntegerKey[int]]{}, nil
	case stressconfig.Status:
		return &statusset.Set[int]{}, nil
	default:
		return nil, fmt.Errorf("unrecognized protocol %q", p)
	}
}
