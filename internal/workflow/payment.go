package workflow

import (
	"context"
	"time"
)

// PaymentProcessor runs the (simulated) payment for a computed amount,
// reporting progress per step. An implementation that cannot fail should
// always return nil.
type PaymentProcessor interface {
	Process(ctx context.Context, amount float64, progress func(step, steps int)) error
}

// SimulatedProcessor walks through a fixed number of delayed steps and always
// succeeds. No real gateway is involved.
type SimulatedProcessor struct {
	Steps     int
	StepDelay time.Duration
}

func (p *SimulatedProcessor) Process(ctx context.Context, amount float64, progress func(step, steps int)) error {
	steps := p.Steps
	if steps <= 0 {
		steps = 3
	}
	for i := 1; i <= steps; i++ {
		if p.StepDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.StepDelay):
			}
		}
		if progress != nil {
			progress(i, steps)
		}
	}
	return nil
}
