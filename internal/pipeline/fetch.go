package pipeline

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"poolPulse/internal/model"
)

type identified interface {
	PoolID() string
}

// snapshots holds the current records and the per-window historical records by pool id.
type snapshots[C any, H identified] struct {
	current []C
	oneDay  map[string]H
	twoDay  map[string]H
	oneWeek map[string]H
}

// fetchSnapshots runs the current fetch and the three historical fetches concurrently.
// The first failure cancels the rest and fails the batch. A window whose block was not
// found gets an empty map.
func fetchSnapshots[C any, H identified](
	ctx context.Context,
	ids []string,
	blocks Windows,
	current func(context.Context, []string) ([]C, error),
	historical func(context.Context, uint64, []string) ([]H, error),
) (snapshots[C, H], error) {
	var out snapshots[C, H]
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := current(gctx, ids)
		if err != nil {
			return fmt.Errorf("current pools: %w", err)
		}
		out.current = rows
		return nil
	})

	targets := []struct {
		label string
		ref   model.BlockRef
		dst   *map[string]H
	}{
		{label: labelOneDay, ref: blocks.OneDay, dst: &out.oneDay},
		{label: labelTwoDay, ref: blocks.TwoDay, dst: &out.twoDay},
		{label: labelOneWeek, ref: blocks.OneWeek, dst: &out.oneWeek},
	}
	for _, target := range targets {
		g.Go(func() error {
			if !target.ref.Found {
				*target.dst = map[string]H{}
				return nil
			}
			rows, err := historical(gctx, target.ref.Number, ids)
			if err != nil {
				return fmt.Errorf("%s pools at block %d: %w", target.label, target.ref.Number, err)
			}
			*target.dst = indexByID(rows)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return snapshots[C, H]{}, err
	}
	return out, nil
}

func indexByID[H identified](rows []H) map[string]H {
	out := make(map[string]H, len(rows))
	for _, row := range rows {
		out[strings.ToLower(row.PoolID())] = row
	}
	return out
}

func lookup[H any](rows map[string]H, id string) *H {
	row, ok := rows[id]
	if !ok {
		return nil
	}
	return &row
}
