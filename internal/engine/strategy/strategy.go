// internal/engine/strategy/strategy.go
package strategy

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/propscout/dealengine/internal/domain"
)

// Calculator maps (price, assumptions, property) to one strategy's result.
// Implementations are pure: same inputs, same output, no cross-calls into
// other strategies.
type Calculator interface {
	ID() domain.StrategyID
	Calculate(price float64, a domain.Assumptions, p domain.PropertySnapshot) (domain.StrategyResult, error)
}

// calculatorRegistry maps strategy ids to calculator factories.
var calculatorRegistry = make(map[domain.StrategyID]func(domain.EngineParams, *zap.Logger) Calculator)

// Register installs a calculator factory for a strategy id.
func Register(id domain.StrategyID, factory func(domain.EngineParams, *zap.Logger) Calculator) {
	calculatorRegistry[id] = factory
}

// Get returns the calculator for id, or an error if none is registered.
func Get(id domain.StrategyID, params domain.EngineParams, logger *zap.Logger) (Calculator, error) {
	factory, exists := calculatorRegistry[id]
	if !exists {
		return nil, fmt.Errorf("no calculator registered for strategy: %s", id)
	}
	return factory(params, logger), nil
}

// All returns one calculator per registered strategy, in ranking-stable
// order.
func All(params domain.EngineParams, logger *zap.Logger) []Calculator {
	calcs := make([]Calculator, 0, len(domain.AllStrategies))
	for _, id := range domain.AllStrategies {
		if factory, ok := calculatorRegistry[id]; ok {
			calcs = append(calcs, factory(params, logger))
		}
	}
	return calcs
}

func init() {
	Register(domain.StrategyLongTermRental, func(p domain.EngineParams, l *zap.Logger) Calculator {
		return &rentalCalculator{params: p, logger: l}
	})
	Register(domain.StrategyShortTermRental, func(p domain.EngineParams, l *zap.Logger) Calculator {
		return &strCalculator{params: p, logger: l}
	})
	Register(domain.StrategyBRRRR, func(p domain.EngineParams, l *zap.Logger) Calculator {
		return &brrrrCalculator{params: p, logger: l}
	})
	Register(domain.StrategyFixAndFlip, func(p domain.EngineParams, l *zap.Logger) Calculator {
		return &flipCalculator{params: p, logger: l}
	})
	Register(domain.StrategyHouseHack, func(p domain.EngineParams, l *zap.Logger) Calculator {
		return &houseHackCalculator{params: p, logger: l}
	})
	Register(domain.StrategyWholesale, func(p domain.EngineParams, l *zap.Logger) Calculator {
		return &wholesaleCalculator{params: p, logger: l}
	})
}
