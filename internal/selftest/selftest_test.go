package selftest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sweeney/thermal-sensor/internal/report"
)

func TestRunAllPass(t *testing.T) {
	results := Run()

	if len(results) != len(Checks()) {
		t.Fatalf("expected %d results, got %d", len(Checks()), len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("%s: %s", r.Name, r.Message)
		}
	}
}

func TestCheckNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Checks() {
		if !strings.HasPrefix(c.Name, "test_") {
			t.Errorf("check %q should be prefixed test_", c.Name)
		}
		if seen[c.Name] {
			t.Errorf("duplicate check %q", c.Name)
		}
		seen[c.Name] = true
	}
}

func TestRunReportsCheckName(t *testing.T) {
	for i, r := range Run() {
		if want := Checks()[i].Name; r.Name != want {
			t.Errorf("result %d: name %q, want %q", i, r.Name, want)
		}
	}
}

func TestReportDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := report.WriteJUnit(&buf, Suite, Run()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `<testsuite name="thermal_sensor_go" tests="8" failures="0"`) {
		t.Errorf("unexpected suite header:\n%s", out)
	}
	if strings.Contains(out, "<failure") {
		t.Errorf("unexpected failure in report:\n%s", out)
	}
}
