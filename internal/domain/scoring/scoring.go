// Package scoring assigns point values to activity events.
package scoring

import (
	"fmt"
	"maps"
	"sort"
	"strings"

	"github.com/okian/ignite/internal/domain/model"
	"github.com/okian/ignite/internal/domain/period"
)

// Default action weights.
const (
	defaultCallWeight  = 1
	defaultDemoWeight  = 3
	defaultPilotWeight = 6
	defaultDealWeight  = 12
)

// Weights maps a normalized action name to its point value. The zero value
// scores every action 0.
type Weights struct {
	table map[string]int
}

// DefaultWeights returns the stock table: call=1, demo=3, pilot=6, deal=12.
func DefaultWeights() Weights {
	return Weights{table: map[string]int{
		"call":  defaultCallWeight,
		"demo":  defaultDemoWeight,
		"pilot": defaultPilotWeight,
		"deal":  defaultDealWeight,
	}}
}

// NewWeights builds a table from raw action names. Keys are trimmed and
// lower-cased; negative values are rejected.
func NewWeights(raw map[string]int) (Weights, error) {
	table := make(map[string]int, len(raw))
	for action, weight := range raw {
		key := Normalize(action)
		if key == "" {
			continue
		}
		if weight < 0 {
			return Weights{}, fmt.Errorf("%w: %s=%d", ErrNegativeWeight, key, weight)
		}
		table[key] = weight
	}
	return Weights{table: table}, nil
}

// Normalize prepares an action string for weight lookup.
func Normalize(action string) string {
	return strings.ToLower(strings.TrimSpace(action))
}

// Lookup returns the weight for action, 0 when the action is unknown.
func (w Weights) Lookup(action string) int {
	return w.table[Normalize(action)]
}

// With returns a copy of w with action set to weight.
func (w Weights) With(action string, weight int) (Weights, error) {
	if weight < 0 {
		return w, fmt.Errorf("%w: %s=%d", ErrNegativeWeight, Normalize(action), weight)
	}
	table := make(map[string]int, len(w.table)+1)
	maps.Copy(table, w.table)
	table[Normalize(action)] = weight
	return Weights{table: table}, nil
}

// Map returns a copy of the table.
func (w Weights) Map() map[string]int {
	return maps.Clone(w.table)
}

// Actions returns the known actions sorted by weight, then name.
func (w Weights) Actions() []string {
	out := make([]string, 0, len(w.table))
	for a := range w.table {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		wi, wj := w.table[out[i]], w.table[out[j]]
		if wi != wj {
			return wi < wj
		}
		return out[i] < out[j]
	})
	return out
}

// Score returns the events inside window, each with its weight and points.
// Events with unknown actions are kept with zero points. The input slice is
// not modified and its order is preserved.
func Score(events []model.Event, weights Weights, window period.Window) []model.ScoredEvent {
	out := make([]model.ScoredEvent, 0, len(events))
	for _, e := range events {
		if !window.Contains(e.Timestamp) {
			continue
		}
		weight := weights.Lookup(e.Action)
		out = append(out, model.ScoredEvent{
			Event:  e,
			Weight: weight,
			Points: weight,
		})
	}
	return out
}
