package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/predsim/internal/dynamo"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRunWritesSummaryAndChart(t *testing.T) {
	chart := filepath.Join(t.TempDir(), "lv.png")
	out, err := execute(t, "run", "--tend", "50", "--out", chart)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"integrator: dopri5", "prey", "predators", "equilibrium", "chart: " + chart} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	info, err := os.Stat(chart)
	if err != nil {
		t.Fatalf("chart not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("chart is empty")
	}
}

func TestRunEmptyWindow(t *testing.T) {
	chart := filepath.Join(t.TempDir(), "lv.png")
	out, err := execute(t, "run", "--t0", "5", "--tend", "5", "--out", chart)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "points: 1 ") {
		t.Errorf("output:\n%s", out)
	}
	if _, err := os.Stat(chart); err != nil {
		t.Errorf("chart not written: %v", err)
	}
}

func TestRunNoChart(t *testing.T) {
	dir := t.TempDir()
	chart := filepath.Join(dir, "lv.png")
	if _, err := execute(t, "run", "--tend", "10", "--out", chart, "--no-chart"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(chart); !os.IsNotExist(err) {
		t.Errorf("chart written despite --no-chart: %v", err)
	}
}

func TestRunRejectsInvalidParameters(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"negative rate", []string{"run", "--alpha", "-1", "--no-chart"}},
		{"negative population", []string{"run", "--prey", "-5", "--no-chart"}},
		{"inverted window", []string{"run", "--t0", "10", "--tend", "5", "--no-chart"}},
		{"stochastic dt", []string{"stochastic", "--dt", "0", "--n", "10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if !errors.Is(err, dynamo.ErrInvalidParameter) {
				t.Fatalf("err = %v, want ErrInvalidParameter", err)
			}
			if msg := describeError(err); !strings.HasPrefix(msg, "invalid parameters") {
				t.Errorf("describeError = %q", msg)
			}
		})
	}
}

func TestRunUnknownPreset(t *testing.T) {
	if _, err := execute(t, "run", "--preset", "nope", "--no-chart"); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestStochasticSeeded(t *testing.T) {
	args := []string{"stochastic", "--n", "200", "--seed", "7", "--prey", "100", "--predators", "50"}
	first, err := execute(t, args...)
	if err != nil {
		t.Fatalf("stochastic: %v", err)
	}
	if !strings.Contains(first, "seed: 7") || !strings.Contains(first, "final: prey") {
		t.Errorf("unexpected output:\n%s", first)
	}
	second, err := execute(t, args...)
	if err != nil {
		t.Fatalf("stochastic: %v", err)
	}
	if finalLine(first) != finalLine(second) {
		t.Errorf("seeded runs differ: %q vs %q", finalLine(first), finalLine(second))
	}
}

func finalLine(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "final:") {
			return line
		}
	}
	return ""
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.csv")
	if _, err := execute(t, "export-csv", "--tend", "5", "--file", path); err != nil {
		t.Fatalf("export-csv: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "time,prey,predators" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "0.000000,40.000000,9.000000" {
		t.Errorf("first row = %q", lines[1])
	}
}

func TestExportCSVStochastic(t *testing.T) {
	out, err := execute(t, "export-csv", "--stochastic", "--n", "10", "--seed", "1")
	if err != nil {
		t.Fatalf("export-csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "step,prey,predators" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 12 {
		t.Errorf("rows = %d, want 12", len(lines))
	}
}

func TestExportJSONStochastic(t *testing.T) {
	out, err := execute(t, "export-json", "--stochastic", "--n", "10", "--seed", "3")
	if err != nil {
		t.Fatalf("export-json: %v", err)
	}
	var data struct {
		Mode  string    `json:"mode"`
		Seed  uint64    `json:"seed"`
		Steps int       `json:"steps"`
		Prey  []float64 `json:"prey"`
	}
	if err := json.Unmarshal([]byte(out), &data); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if data.Mode != "stochastic" || data.Seed != 3 || data.Steps != 11 || len(data.Prey) != 11 {
		t.Errorf("unexpected export: %+v", data)
	}
	if data.Prey[0] != 2000 {
		t.Errorf("first prey = %v, want 2000", data.Prey[0])
	}
}

func TestConfigFileWithFlagOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "deterministic:\n  alpha: 0.3\n  t_end: 100\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "export-json", "--config", path, "--tend", "5")
	if err != nil {
		t.Fatalf("export-json: %v", err)
	}
	var data struct {
		Params struct {
			Alpha float64 `json:"alpha"`
			Beta  float64 `json:"beta"`
			TEnd  float64 `json:"t_end"`
		} `json:"params"`
		Times []float64 `json:"times"`
	}
	if err := json.Unmarshal([]byte(out), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Params.Alpha != 0.3 {
		t.Errorf("alpha = %v, want 0.3 from config", data.Params.Alpha)
	}
	if data.Params.Beta != 0.02 {
		t.Errorf("beta = %v, want default 0.02", data.Params.Beta)
	}
	if data.Params.TEnd != 5 {
		t.Errorf("t_end = %v, want flag value 5", data.Params.TEnd)
	}
	if last := data.Times[len(data.Times)-1]; last != 5 {
		t.Errorf("last time = %v, want 5", last)
	}
}

func TestPresetsCommand(t *testing.T) {
	out, err := execute(t, "presets")
	if err != nil {
		t.Fatalf("presets: %v", err)
	}
	for _, want := range []string{"presets for deterministic:", "classic", "presets for stochastic:", "extinction"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if _, err := execute(t, "presets", "nope"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestPlotAndPhase(t *testing.T) {
	out, err := execute(t, "plot", "--tend", "50", "--width", "40", "--height", "8")
	if err != nil {
		t.Fatalf("plot: %v", err)
	}
	if !strings.Contains(out, "population vs time") {
		t.Errorf("plot output missing caption:\n%s", out)
	}

	out, err = execute(t, "phase", "--stochastic", "--n", "100", "--seed", "2")
	if err != nil {
		t.Fatalf("phase: %v", err)
	}
	if !strings.Contains(out, "x-axis: prey") {
		t.Errorf("phase output:\n%s", out)
	}
}

func TestSweepCommand(t *testing.T) {
	out, err := execute(t, "sweep", "--param", "alpha", "--from", "0.05", "--to", "0.15", "--steps", "3", "--tend", "50")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if !strings.Contains(out, "sweep alpha from 0.05 to 0.15 (3 runs)") {
		t.Errorf("output:\n%s", out)
	}
	if _, err := execute(t, "sweep", "--param", "omega"); err == nil {
		t.Error("expected error for unknown parameter")
	}
	if _, err := execute(t, "sweep", "--integrator", "verlet", "--tend", "10"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestCompareCommand(t *testing.T) {
	out, err := execute(t, "compare", "--tend", "20")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	for _, name := range []string{"dopri5", "euler", "rk4"} {
		if !strings.Contains(out, name) {
			t.Errorf("output missing %s:\n%s", name, out)
		}
	}
}

func TestMonteCarloCommand(t *testing.T) {
	out, err := execute(t, "montecarlo", "--trials", "4", "--n", "100", "--seed", "10")
	if err != nil {
		t.Fatalf("montecarlo: %v", err)
	}
	if !strings.Contains(out, "trials: 4") {
		t.Errorf("output:\n%s", out)
	}
}

func TestMonteCarloRejectsNegativeTrials(t *testing.T) {
	_, err := execute(t, "montecarlo", "--n", "10", "--seed", "1", "--trials", "-3")
	if !errors.Is(err, dynamo.ErrInvalidParameter) {
		t.Fatalf("err = %v, want ErrInvalidParameter", err)
	}
}

func TestScenarioCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	content := fmt.Sprintf(`name: smoke
output_dir: %s
steps:
  - name: short
    mode: deterministic
    params:
      tend: 20
    csv: short.csv
  - name: events
    mode: stochastic
    seed: 5
    params:
      n: 50
`, dir)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "scenario", path)
	if err != nil {
		t.Fatalf("scenario: %v", err)
	}
	if !strings.Contains(out, "scenario: smoke") || !strings.Contains(out, "events") {
		t.Errorf("output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "short.csv")); err != nil {
		t.Errorf("csv not written: %v", err)
	}
}

func TestDescribeError(t *testing.T) {
	failed := &dynamo.IntegrationError{Wrapped: dynamo.ErrStepTooSmall}
	if msg := describeError(failed); !strings.HasPrefix(msg, "simulation failed") {
		t.Errorf("describeError = %q", msg)
	}
	if msg := describeError(errors.New("boom")); msg != "error: boom" {
		t.Errorf("describeError = %q", msg)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	if _, err := execute(t, "run", "--log-level", "loud", "--no-chart", "--tend", "1"); err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestAnalyzeCommand(t *testing.T) {
	out, err := execute(t, "analyze", "--sample", "0.5")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "SPECTRAL PERIOD") || !strings.Contains(out, "predators") {
		t.Errorf("output:\n%s", out)
	}
	if _, err := execute(t, "analyze", "--sample", "0"); !errors.Is(err, dynamo.ErrInvalidStep) {
		t.Errorf("err = %v, want ErrInvalidStep", err)
	}
}

func TestPhaseWritesSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phase.svg")
	if _, err := execute(t, "phase", "--tend", "50", "--svg", path); err != nil {
		t.Fatalf("phase: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") || !strings.HasSuffix(string(data), "</svg>") {
		t.Errorf("not an svg: %.60q", data)
	}
}
