package pipeline

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"poolPulse/internal/metrics"
	"poolPulse/internal/model"
	"poolPulse/internal/window"
)

// ReferencePrice returns the ETH price now, one day back, and their percent change.
// Any failure is logged and yields the zero price so the run can continue.
func (r *Runner) ReferencePrice(ctx context.Context) model.ReferencePrice {
	price, err := r.referencePrice(ctx)
	if err != nil {
		r.logger.Warn("reference price unavailable, using zero", zap.Error(err))
		return model.ReferencePrice{}
	}
	r.logger.Info("reference price",
		zap.Float64("price", price.Price),
		zap.Float64("price_one_day", price.PriceOneDay),
		zap.Float64("change_pct", price.ChangePct),
	)
	return price
}

func (r *Runner) referencePrice(ctx context.Context) (model.ReferencePrice, error) {
	if err := r.checkSources(); err != nil {
		return model.ReferencePrice{}, err
	}

	ts := window.OneDayBack(r.clock())
	refs, err := r.blocks.Resolve(ctx, []int64{ts})
	if err != nil {
		return model.ReferencePrice{}, fmt.Errorf("resolve block: %w", err)
	}
	if len(refs) == 0 || !refs[0].Found {
		return model.ReferencePrice{}, fmt.Errorf("%w: reference window starting %d", ErrBlockNotFound, ts)
	}
	block := refs[0].Number

	current, okNow, err := r.pools.Bundle(ctx, nil)
	if err != nil {
		return model.ReferencePrice{}, fmt.Errorf("current bundle: %w", err)
	}
	past, okPast, err := r.pools.Bundle(ctx, &block)
	if err != nil {
		return model.ReferencePrice{}, fmt.Errorf("bundle at block %d: %w", block, err)
	}

	now, prior := math.NaN(), math.NaN()
	if okNow {
		now = current.ETHPrice.InexactFloat64()
	}
	if okPast {
		prior = past.ETHPrice.InexactFloat64()
	}

	out := model.ReferencePrice{ChangePct: metrics.PercentChange(now, prior)}
	if okNow {
		out.Price = now
	}
	switch {
	case okPast:
		out.PriceOneDay = prior
	case okNow:
		out.PriceOneDay = now
	}
	return out, nil
}
