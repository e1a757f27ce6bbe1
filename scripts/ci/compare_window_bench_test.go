package main

import (
	"bytes"
	"strings"
	"testing"
)

const sampleBenchmarkOutput = `goos: linux
goarch: amd64
pkg: github.com/treykane/ward-roster/internal/virtual
BenchmarkCalculate/medium/variable-8                 	 2000000	       612 ns/op	       0 B/op	       0 allocs/op
BenchmarkCalculate/medium/measure-and-calculate-8    	 1000000	      1004 ns/op	       0 B/op	       0 allocs/op
BenchmarkCalculate/large/variable-8                  	 1000000	      1201 ns/op	       0 B/op	       0 allocs/op
BenchmarkCalculate/large/measure-and-calculate-8     	  500000	      2388 ns/op	       0 B/op	       0 allocs/op
BenchmarkHeightModelRebuild/grow-8                   	     300	   3990112 ns/op	  802816 B/op	       1 allocs/op
PASS
`

func TestParseBenchmarkOutputStripsCPUSuffix(t *testing.T) {
	results, err := parseBenchmarkOutput(strings.NewReader(sampleBenchmarkOutput))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(results) != len(expectedBenchmarks) {
		t.Fatalf("expected %d results, got %d", len(expectedBenchmarks), len(results))
	}
	if got := results["BenchmarkCalculate/large/variable"]; got != 1201 {
		t.Fatalf("expected 1201 ns/op, got %v", got)
	}
}

func TestParseBenchmarkOutputRejectsEmptyInput(t *testing.T) {
	if _, err := parseBenchmarkOutput(strings.NewReader("PASS\n")); err == nil {
		t.Fatal("expected error for output without benchmarks")
	}
}

func TestCompareBenchmarksFlagsRegressions(t *testing.T) {
	current, err := parseBenchmarkOutput(strings.NewReader(sampleBenchmarkOutput))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	baseline := map[string]float64{}
	for name, ns := range current {
		baseline[name] = ns
	}
	baseline["BenchmarkCalculate/large/variable"] = 600
	delete(baseline, "BenchmarkHeightModelRebuild/grow")

	rows, err := compareBenchmarks(baseline, current, 20)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	failed := 0
	for _, row := range rows {
		if !row.pass {
			failed++
			if row.name != "BenchmarkCalculate/large/variable" {
				t.Fatalf("unexpected failing benchmark %q", row.name)
			}
		}
	}
	if failed != 1 {
		t.Fatalf("expected one regression, got %d", failed)
	}

	var out bytes.Buffer
	writeMarkdownReport(rows, 20, &out)
	if !strings.Contains(out.String(), "| BenchmarkCalculate/large/variable | 600 | 1201 | +100.17% | FAIL |") {
		t.Fatalf("unexpected report:\n%s", out.String())
	}
}

func TestCompareBenchmarksRequiresEverySuite(t *testing.T) {
	current := map[string]float64{"BenchmarkCalculate/medium/variable": 10}
	if _, err := compareBenchmarks(current, current, 20); err == nil {
		t.Fatal("expected error for missing current benchmarks")
	}
}
