package subgraph

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"poolPulse/internal/model"
)

const (
	// DefaultBlockWindow is how far past a timestamp a block may lie.
	DefaultBlockWindow = 10 * time.Minute
	DefaultCandidates  = 1
)

type blockRow struct {
	Number decimal.Decimal `json:"number"`
}

// BlockResolver maps timestamps to block numbers through a block-index subgraph.
type BlockResolver struct {
	client     *Client
	window     time.Duration
	candidates int
	logger     *zap.Logger
}

// NewBlockResolver builds a resolver. Non-positive window or candidates use the defaults.
func NewBlockResolver(client *Client, window time.Duration, candidates int, logger *zap.Logger) *BlockResolver {
	if window <= 0 {
		window = DefaultBlockWindow
	}
	if candidates <= 0 {
		candidates = DefaultCandidates
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlockResolver{
		client:     client,
		window:     window,
		candidates: candidates,
		logger:     logger,
	}
}

// Resolve returns one BlockRef per timestamp, in input order. The newest block inside a
// window wins; a window without blocks yields a ref with Found unset.
func (r *BlockResolver) Resolve(ctx context.Context, timestamps []int64) ([]model.BlockRef, error) {
	if len(timestamps) == 0 {
		return nil, nil
	}

	var data map[string][]blockRow
	if err := r.client.Do(ctx, BlocksQuery(timestamps, r.window, r.candidates), &data); err != nil {
		return nil, fmt.Errorf("query blocks: %w", err)
	}

	refs := make([]model.BlockRef, len(timestamps))
	for i, ts := range timestamps {
		refs[i] = model.BlockRef{Timestamp: ts}
		rows := data[blockAlias(i)]
		if len(rows) == 0 {
			r.logger.Warn("no block in window", zap.Int64("timestamp", ts), zap.Duration("window", r.window))
			continue
		}
		number := rows[0].Number
		if number.IsNegative() || !number.Equal(number.Truncate(0)) {
			return nil, fmt.Errorf("invalid block number %s for timestamp %d", number, ts)
		}
		refs[i].Number = uint64(number.IntPart())
		refs[i].Found = true
	}
	return refs, nil
}
