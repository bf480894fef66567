package cli

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/okian/ignite/internal/domain/scoring"
)

// weightFlag collects repeated --weight action=points values.
type weightFlag struct {
	values map[string]int
}

var _ pflag.Value = (*weightFlag)(nil)

func newWeightFlag() *weightFlag { return &weightFlag{values: map[string]int{}} }

func (w *weightFlag) String() string {
	parts := make([]string, 0, len(w.values))
	for _, k := range slices.Sorted(maps.Keys(w.values)) {
		parts = append(parts, fmt.Sprintf("%s=%d", k, w.values[k]))
	}
	return strings.Join(parts, ",")
}

// Set accepts "action=points" or a comma-separated list of them.
func (w *weightFlag) Set(v string) error {
	for _, pair := range strings.Split(v, ",") {
		action, raw, ok := strings.Cut(pair, "=")
		action = scoring.Normalize(action)
		if !ok || action == "" {
			return fmt.Errorf("weight %q: want action=points", pair)
		}
		points, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("weight %q: %w", pair, err)
		}
		if points < 0 {
			return fmt.Errorf("weight %q: %w", pair, scoring.ErrNegativeWeight)
		}
		w.values[action] = points
	}
	return nil
}

func (w *weightFlag) Type() string { return "action=points" }

// apply overlays the collected values on base.
func (w *weightFlag) apply(base scoring.Weights) (scoring.Weights, error) {
	out := base
	for _, action := range slices.Sorted(maps.Keys(w.values)) {
		var err error
		if out, err = out.With(action, w.values[action]); err != nil {
			return scoring.Weights{}, err
		}
	}
	return out, nil
}
