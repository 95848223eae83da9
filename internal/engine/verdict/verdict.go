// internal/engine/verdict/verdict.go
package verdict

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/propscout/dealengine/internal/domain"
	"github.com/propscout/dealengine/internal/engine/score"
	"github.com/propscout/dealengine/internal/engine/solver"
	"github.com/propscout/dealengine/internal/engine/strategy"
)

// Orchestrator is the engine's top-level entry point: it runs every
// strategy, solves each strategy's price ladder, scores the deal and
// assembles one Verdict. A strategy or solver failure degrades that slice
// of the verdict, never the verdict itself.
type Orchestrator struct {
	params domain.EngineParams
	solver *solver.Solver
	scorer *score.Scorer
	logger *zap.Logger
}

// New builds an Orchestrator. signals may be nil to use the default
// heuristics.
func New(params domain.EngineParams, signals score.SignalScorer, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		params: params,
		solver: solver.New(params, logger.Named("solver")),
		scorer: score.New(params, signals, logger.Named("scorer")),
		logger: logger,
	}
}

// Analyze evaluates property under the given resolved assumptions. The six
// strategies run concurrently; results are joined before scoring since the
// scorer needs all of them to pick the best performer.
func (o *Orchestrator) Analyze(ctx context.Context, p domain.PropertySnapshot, a domain.Assumptions) (domain.Verdict, error) {
	if p.ListPrice <= 0 {
		return domain.Verdict{}, domain.NewInputError("", "list_price", "must be positive")
	}

	calcs := strategy.All(o.params, o.logger.Named("strategy"))
	outcomes := make([]domain.StrategyOutcome, len(calcs))

	g, _ := errgroup.WithContext(ctx)
	for i, calc := range calcs {
		g.Go(func() error {
			outcomes[i] = o.evaluate(calc, p, a)
			return nil
		})
	}
	// Workers only ever record failures into their outcome slot.
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return domain.Verdict{}, err
	}

	rank(outcomes)
	primary := primaryOutcome(outcomes)

	in := score.Inputs{Property: p}
	var primaryID domain.StrategyID
	var primaryTargets domain.PriceTargets
	if primary != nil {
		primaryID = primary.Strategy
		in.Best = primary.AtListPrice
		in.Targets = primary.Targets
		if primary.Targets != nil {
			primaryTargets = *primary.Targets
		}
	}
	dealScore := o.scorer.Score(in)

	partial := false
	for _, out := range outcomes {
		if out.Error != "" || (out.Targets != nil && out.Targets.Unavailable) {
			partial = true
			break
		}
	}

	o.logger.Info("Verdict assembled",
		zap.Float64("list_price", p.ListPrice),
		zap.String("primary_strategy", string(primaryID)),
		zap.Float64("score", dealScore.Score),
		zap.String("grade", dealScore.Grade),
		zap.Bool("partial", partial))

	return domain.Verdict{
		Property: p,
		Primary:  primaryID,
		Outcomes: outcomes,
		Targets:  primaryTargets,
		Score:    dealScore,
		Partial:  partial,
	}, nil
}

// evaluate runs one strategy end to end: result at list price, price
// ladder, result at the solved target-buy price.
func (o *Orchestrator) evaluate(calc strategy.Calculator, p domain.PropertySnapshot, a domain.Assumptions) domain.StrategyOutcome {
	out := domain.StrategyOutcome{Strategy: calc.ID()}

	atList, err := calc.Calculate(p.ListPrice, a, p)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.AtListPrice = &atList

	targets, err := o.solver.Solve(calc, a, p)
	if err != nil {
		// A failed solve marks the ladder unavailable; the strategy result
		// at list price still stands.
		if !errors.Is(err, domain.ErrUnsolvableObjective) {
			o.logger.Warn("Price solve failed",
				zap.String("strategy", string(calc.ID())), zap.Error(err))
		}
		out.Targets = &domain.PriceTargets{
			Strategy:          calc.ID(),
			Unavailable:       true,
			UnavailableReason: err.Error(),
		}
		return out
	}
	out.Targets = &targets

	if targets.Achievable && targets.TargetBuyPrice > 0 {
		atTarget, err := calc.Calculate(targets.TargetBuyPrice, a, p)
		if err == nil {
			out.AtTargetPrice = &atTarget
		}
	}
	return out
}

// rank orders outcomes best-first: highest cash-on-cash, ROI as tiebreak,
// failed strategies last. Rank is 1-based.
func rank(outcomes []domain.StrategyOutcome) {
	sort.SliceStable(outcomes, func(i, j int) bool {
		a, b := outcomes[i], outcomes[j]
		if (a.AtListPrice == nil) != (b.AtListPrice == nil) {
			return a.AtListPrice != nil
		}
		if a.AtListPrice == nil {
			return false
		}
		am, bm := a.AtListPrice.Metrics, b.AtListPrice.Metrics
		if am.CashOnCashReturn != bm.CashOnCashReturn {
			return am.CashOnCashReturn > bm.CashOnCashReturn
		}
		return am.ROI > bm.ROI
	})
	for i := range outcomes {
		outcomes[i].Rank = i + 1
	}
}

// primaryOutcome returns the best-ranked outcome with a usable price
// ladder, falling back to the best-ranked outcome with any result.
func primaryOutcome(outcomes []domain.StrategyOutcome) *domain.StrategyOutcome {
	for i := range outcomes {
		out := &outcomes[i]
		if out.AtListPrice != nil && out.Targets != nil && !out.Targets.Unavailable {
			return out
		}
	}
	for i := range outcomes {
		if outcomes[i].AtListPrice != nil {
			return &outcomes[i]
		}
	}
	return nil
}
