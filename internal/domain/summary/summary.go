// Package summary groups scored events into the tables shown next to the
// progress image: activity breakdown, leaderboard and daily timeline.
package summary

import (
	"sort"

	"github.com/okian/ignite/internal/domain/model"
	"github.com/okian/ignite/internal/domain/types"
)

// ByAction sums points per action as written in the log.
func ByAction(scored []model.ScoredEvent) []types.Entry {
	return rank(scored, func(s model.ScoredEvent) string { return s.Action })
}

// ByRep sums points per rep; this is the leaderboard.
func ByRep(scored []model.ScoredEvent) []types.Entry {
	return rank(scored, func(s model.ScoredEvent) string { return s.Rep })
}

// Timeline sums points per local calendar day, oldest first. Days without
// events are not listed.
func Timeline(scored []model.ScoredEvent) []types.DayTotal {
	totals := make(map[string]int)
	for _, s := range scored {
		totals[s.Date] += s.Points
	}
	out := make([]types.DayTotal, 0, len(totals))
	for day, points := range totals {
		out = append(out, types.DayTotal{Day: day, Points: points})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// rank groups by key and orders by points desc, then key asc. Ranks are
// 1-based and follow the sorted position.
func rank(scored []model.ScoredEvent, key func(model.ScoredEvent) string) []types.Entry {
	idx := make(map[string]int)
	out := make([]types.Entry, 0)
	for _, s := range scored {
		k := key(s)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, types.Entry{Key: k})
		}
		out[i].Points += s.Points
		out[i].Events++
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].Key < out[j].Key
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
