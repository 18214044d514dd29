package scoring

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// WeightTolerance is the allowed deviation from 1.0 when validating a weight vector sum.
const WeightTolerance = 1e-9

var (
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrInvalidWeights  = errors.New("weights must be non-negative and sum to 1.0")
)

// Strategy is a named weight vector over the four sub-scores.
type Strategy int

const (
	StrategySmartBalance Strategy = iota
	StrategyFastestWins
	StrategyHighImpact
	StrategyDeadlineDriven
)

var strategyNames = map[Strategy]string{
	StrategySmartBalance:   "smart_balance",
	StrategyFastestWins:    "fastest_wins",
	StrategyHighImpact:     "high_impact",
	StrategyDeadlineDriven: "deadline_driven",
}

var strategyValues = map[string]Strategy{
	"smart_balance":   StrategySmartBalance,
	"fastest_wins":    StrategyFastestWins,
	"high_impact":     StrategyHighImpact,
	"deadline_driven": StrategyDeadlineDriven,
}

// Weights combines the four sub-scores into a single priority score.
// A valid weight vector is non-negative and sums to 1.0.
type Weights struct {
	Urgency    float64 `json:"urgency"`
	Importance float64 `json:"importance"`
	Effort     float64 `json:"effort"`
	Dependency float64 `json:"dependency"`
}

var strategyWeights = map[Strategy]Weights{
	StrategySmartBalance:   {Urgency: 0.35, Importance: 0.30, Effort: 0.20, Dependency: 0.15},
	StrategyFastestWins:    {Urgency: 0.15, Importance: 0.15, Effort: 0.55, Dependency: 0.15},
	StrategyHighImpact:     {Urgency: 0.20, Importance: 0.50, Effort: 0.15, Dependency: 0.15},
	StrategyDeadlineDriven: {Urgency: 0.55, Importance: 0.20, Effort: 0.10, Dependency: 0.15},
}

// ParseStrategy creates a Strategy from its name. Unknown names are an
// explicit error; the engine never falls back to a default silently.
func ParseStrategy(s string) (Strategy, error) {
	st, ok := strategyValues[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return StrategySmartBalance, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
	return st, nil
}

// String returns the strategy name.
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsValid returns true if the strategy is a known value.
func (s Strategy) IsValid() bool {
	_, ok := strategyNames[s]
	return ok
}

// Weights returns the weight vector carried by the strategy.
func (s Strategy) Weights() Weights {
	if w, ok := strategyWeights[s]; ok {
		return w
	}
	return strategyWeights[StrategySmartBalance]
}

// Strategies returns all predefined strategies in declaration order.
func Strategies() []Strategy {
	return []Strategy{
		StrategySmartBalance,
		StrategyFastestWins,
		StrategyHighImpact,
		StrategyDeadlineDriven,
	}
}

// StrategyNames returns the names of all predefined strategies.
func StrategyNames() []string {
	names := make([]string, 0, len(strategyNames))
	for _, s := range Strategies() {
		names = append(names, s.String())
	}
	return names
}

// NewCustomWeights builds a caller-supplied weight vector. This is the
// extension point for weighting schemes beyond the predefined strategies.
func NewCustomWeights(urgency, importance, effort, dependency float64) (Weights, error) {
	w := Weights{
		Urgency:    urgency,
		Importance: importance,
		Effort:     effort,
		Dependency: dependency,
	}
	if !w.IsValid() {
		return Weights{}, ErrInvalidWeights
	}
	return w, nil
}

// Sum returns the total of the four weights.
func (w Weights) Sum() float64 {
	return w.Urgency + w.Importance + w.Effort + w.Dependency
}

// IsValid reports whether all weights are non-negative and sum to 1.0
// within WeightTolerance.
func (w Weights) IsValid() bool {
	if w.Urgency < 0 || w.Importance < 0 || w.Effort < 0 || w.Dependency < 0 {
		return false
	}
	return math.Abs(w.Sum()-1.0) <= WeightTolerance
}
