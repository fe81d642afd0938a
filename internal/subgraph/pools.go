package subgraph

import (
	"context"
	"fmt"

	"poolPulse/internal/model"
)

// DefaultPageSize is the fixed number of pools fetched per query.
const DefaultPageSize = 200

type poolIDRow struct {
	ID string `json:"id"`
}

// PoolClient fetches pool universes, pool snapshots and price bundles.
type PoolClient struct {
	client   *Client
	dialect  Dialect
	pageSize int
}

// NewPoolClient builds a PoolClient for dialect. A non-positive pageSize uses DefaultPageSize.
func NewPoolClient(client *Client, dialect Dialect, pageSize int) *PoolClient {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &PoolClient{
		client:   client,
		dialect:  dialect,
		pageSize: pageSize,
	}
}

// TopPoolIDs returns the ids of the highest ranked pools, best first.
func (p *PoolClient) TopPoolIDs(ctx context.Context) ([]string, error) {
	rows, err := queryPools[poolIDRow](ctx, p.client, TopPoolsQuery(p.pageSize, p.dialect.RankField))
	if err != nil {
		return nil, fmt.Errorf("query top pools: %w", err)
	}

	raw := make([]string, 0, len(rows))
	for _, row := range rows {
		raw = append(raw, row.ID)
	}
	return NormalizePoolIDs(raw)
}

// ElasticPools fetches the current elastic records of ids.
func (p *PoolClient) ElasticPools(ctx context.Context, ids []string) ([]model.ElasticPool, error) {
	return queryPools[model.ElasticPool](ctx, p.client,
		PoolsQuery(Elastic.CurrentFields, Elastic.CurrentOrderField, p.pageSize, ids))
}

// ElasticPoolsAt fetches the reduced elastic records of ids as of block.
func (p *PoolClient) ElasticPoolsAt(ctx context.Context, block uint64, ids []string) ([]model.ElasticPoolHistory, error) {
	return queryPools[model.ElasticPoolHistory](ctx, p.client,
		PoolsAtQuery(Elastic.HistoryFields, Elastic.HistoryOrderField, p.pageSize, ids, block))
}

// ClassicPools fetches the current classic records of ids.
func (p *PoolClient) ClassicPools(ctx context.Context, ids []string) ([]model.ClassicPool, error) {
	return queryPools[model.ClassicPool](ctx, p.client,
		PoolsQuery(Classic.CurrentFields, Classic.CurrentOrderField, p.pageSize, ids))
}

// ClassicPoolsAt fetches the reduced classic records of ids as of block.
func (p *PoolClient) ClassicPoolsAt(ctx context.Context, block uint64, ids []string) ([]model.ClassicPoolHistory, error) {
	return queryPools[model.ClassicPoolHistory](ctx, p.client,
		PoolsAtQuery(Classic.HistoryFields, Classic.HistoryOrderField, p.pageSize, ids, block))
}

// Bundle returns the first price bundle, now or at block. ok is false when the subgraph
// returned no bundle.
func (p *PoolClient) Bundle(ctx context.Context, block *uint64) (model.Bundle, bool, error) {
	var data struct {
		Bundles []model.Bundle `json:"bundles"`
	}
	if err := p.client.Do(ctx, BundleQuery(block), &data); err != nil {
		return model.Bundle{}, false, fmt.Errorf("query bundles: %w", err)
	}
	if len(data.Bundles) == 0 {
		return model.Bundle{}, false, nil
	}
	return data.Bundles[0], true, nil
}

func queryPools[T any](ctx context.Context, client *Client, req Request) ([]T, error) {
	var data struct {
		Pools []T `json:"pools"`
	}
	if err := client.Do(ctx, req, &data); err != nil {
		return nil, err
	}
	return data.Pools, nil
}
