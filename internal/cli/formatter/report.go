package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/ignite/internal/app"
	"github.com/okian/ignite/internal/domain/types"
	"github.com/okian/ignite/internal/render"
)

const (
	barWidth   = 30
	sparkWidth = 24
)

// Report renders a full evaluation: period, progress, activity, leaderboard
// and timeline.
func (f *Formatter) Report(res app.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", f.Header("Sales rocket · "+string(res.Mode)+" progress"))
	fmt.Fprintf(&b, "%s %s\n", f.Dim("Period:"), res.Window.Label)
	fmt.Fprintf(&b, "%s %s\n", f.Dim("Source:"), sourceLine(res))
	for _, w := range res.Warnings {
		fmt.Fprintf(&b, "%s\n", f.Warn(w))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s  %s\n", f.Progress(res.Progress, barWidth), f.Bold(render.Caption(res.Progress)))
	fmt.Fprintf(&b, "%s %s / %d\n\n", f.Dim("Total points:"), f.Bold(strconv.Itoa(res.TotalPoints)), res.Goal)

	b.WriteString(f.Header("Activity this period"))
	b.WriteString("\n")
	b.WriteString(f.entries("Action", res.Activity))
	b.WriteString("\n")

	b.WriteString(f.Header("Leaderboard"))
	b.WriteString("\n")
	b.WriteString(f.entries("Rep", res.Leaderboard))
	b.WriteString("\n")

	b.WriteString(f.Header("Timeline"))
	b.WriteString("\n")
	b.WriteString(f.timeline(res.Timeline))

	return b.String()
}

func sourceLine(res app.Result) string {
	s := res.Origin
	if s == "" {
		s = "unknown"
	}
	if res.Dropped > 0 {
		s += fmt.Sprintf(" (%d rows without a readable timestamp skipped)", res.Dropped)
	}
	return s
}

func (f *Formatter) entries(keyTitle string, rows []types.Entry) string {
	if len(rows) == 0 {
		return f.Dim("No activity in this period.") + "\n"
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			strconv.Itoa(r.Rank),
			r.Key,
			strconv.Itoa(r.Points),
			strconv.Itoa(r.Events),
		})
	}
	return f.Table([]string{"#", keyTitle, "Points", "Events"}, cells)
}

func (f *Formatter) timeline(days []types.DayTotal) string {
	if len(days) == 0 {
		return f.Dim("No activity in this period.") + "\n"
	}
	peak := 0
	for _, d := range days {
		peak = max(peak, d.Points)
	}
	cells := make([][]string, 0, len(days))
	for _, d := range days {
		cells = append(cells, []string{d.Day, strconv.Itoa(d.Points), f.Spark(d.Points, peak, sparkWidth)})
	}
	return f.Table([]string{"Day", "Points", ""}, cells)
}
