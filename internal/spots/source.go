// Package spots provides the candidate spot sources: the live Overpass
// client, the embedded curated dataset, and the built-in minimum list,
// arranged as an ordered fallback chain.
package spots

import (
	"context"

	"github.com/yuneten/tabiplan/internal/types"
)

// Source fetches raw spot records for a set of category keys. Sources
// degrade rather than fail: an unreachable backend yields an empty slice,
// never an error that aborts the pipeline.
type Source interface {
	Name() string
	Fetch(ctx context.Context, categoryKeys []string) []types.RawSpot
}

// Chain is an ordered list of sources tried until one yields records. The
// caller iterates Sources itself so a tier whose records all fail
// validation can be skipped too.
type Chain struct {
	sources []Source
}

func NewChain(sources ...Source) *Chain {
	return &Chain{sources: sources}
}

// Sources returns the tiers in fallback order.
func (c *Chain) Sources() []Source {
	return c.sources
}
