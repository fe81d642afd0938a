package pipeline

import (
	"context"

	"poolPulse/internal/model"
)

// BlockSource resolves timestamps to blocks, one ref per timestamp in input order.
type BlockSource interface {
	Resolve(ctx context.Context, timestamps []int64) ([]model.BlockRef, error)
}

// PoolSource fetches pool universes, snapshots and price bundles from the pool index.
type PoolSource interface {
	TopPoolIDs(ctx context.Context) ([]string, error)
	ElasticPools(ctx context.Context, ids []string) ([]model.ElasticPool, error)
	ElasticPoolsAt(ctx context.Context, block uint64, ids []string) ([]model.ElasticPoolHistory, error)
	ClassicPools(ctx context.Context, ids []string) ([]model.ClassicPool, error)
	ClassicPoolsAt(ctx context.Context, block uint64, ids []string) ([]model.ClassicPoolHistory, error)
	Bundle(ctx context.Context, block *uint64) (model.Bundle, bool, error)
}
