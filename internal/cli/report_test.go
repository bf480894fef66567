package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/ignite/internal/adapters/source"
	"github.com/okian/ignite/internal/app"
	"github.com/okian/ignite/internal/domain/period"
)

const threeRowCSV = `timestamp,rep,action
2024-01-01T10:00:00Z,alice,call
2024-01-01T11:00:00Z,alice,DEMO 
2024-01-08T10:00:00Z,bob,deal
`

func testApp(t *testing.T) *App {
	t.Helper()
	clock := func() time.Time { return time.Date(2024, time.January, 2, 0, 0, 0, 0, period.Location()) }
	return &App{
		Evaluator:  app.NewService(app.WithClock(clock)),
		IsTerminal: func() bool { return false },
	}
}

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "log.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, a *App, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReportCmd_Text(t *testing.T) {
	out, err := execute(t, testApp(t), "", "report", "--file", writeCSV(t, threeRowCSV))
	require.NoError(t, err)

	assert.Contains(t, out, "WEEKLY PROGRESS")
	assert.Contains(t, out, "Jan 01, 2024 → Jan 07, 2024")
	assert.Contains(t, out, "Total points: 4 / 60")
	assert.Contains(t, out, "6% to goal")
	assert.Contains(t, out, "Source: upload")
	assert.NotContains(t, out, "bob")
	assert.NotContains(t, out, "\x1b[")
}

func TestReportCmd_JSON(t *testing.T) {
	out, err := execute(t, testApp(t), threeRowCSV, "report", "--file", "-", "--json", "--weight", "demo=10", "--goal", "22")
	require.NoError(t, err)

	var res app.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 11, res.TotalPoints)
	assert.Equal(t, 22, res.Goal)
	assert.InDelta(t, 0.5, res.Progress, 1e-9)
	assert.Equal(t, 10, res.Weights["demo"])
}

func TestReportCmd_NowAndMode(t *testing.T) {
	path := writeCSV(t, threeRowCSV)

	out, err := execute(t, testApp(t), "", "report", "--file", path, "--json", "--now", "2024-01-09T12:00:00Z")
	require.NoError(t, err)
	var week app.Result
	require.NoError(t, json.Unmarshal([]byte(out), &week))
	assert.Equal(t, 12, week.TotalPoints)

	out, err = execute(t, testApp(t), "", "report", "--file", path, "--json", "--mode", "Monthly")
	require.NoError(t, err)
	var month app.Result
	require.NoError(t, json.Unmarshal([]byte(out), &month))
	assert.Equal(t, 16, month.TotalPoints)
	assert.Equal(t, period.Monthly, month.Mode)
}

func TestReportCmd_PNG(t *testing.T) {
	img := filepath.Join(t.TempDir(), "rocket.png")
	_, err := execute(t, testApp(t), "", "report", "--file", writeCSV(t, threeRowCSV), "--png", img, "--plain")
	require.NoError(t, err)

	f, err := os.Open(img)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 700, decoded.Bounds().Dx())
}

func TestReportCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown mode", []string{"--mode", "quarterly"}, "--mode"},
		{"bad weight", []string{"--weight", "demo"}, "action=points"},
		{"negative weight", []string{"--weight", "demo=-1"}, "negative"},
		{"negative goal", []string{"--goal", "-3"}, "goal"},
		{"bad now", []string{"--now", "yesterday"}, "--now"},
		{"missing file", []string{"--file", "/nonexistent/log.csv"}, "--file"},
		{"plain and json", []string{"--plain", "--json"}, "none of the others"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, testApp(t), "", append([]string{"report"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReportCmd_MissingColumn(t *testing.T) {
	_, err := execute(t, testApp(t), "", "report", "--file", writeCSV(t, "timestamp,rep\n2024-01-01,alice\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, source.ErrMissingColumn))
}

func TestWeightFlag(t *testing.T) {
	w := newWeightFlag()
	require.NoError(t, w.Set("Demo=4,webinar=2"))
	require.NoError(t, w.Set("call=0"))
	assert.Equal(t, "call=0,demo=4,webinar=2", w.String())
	assert.Equal(t, "action=points", w.Type())

	assert.Error(t, w.Set("=3"))
	assert.Error(t, w.Set("demo=x"))
}
