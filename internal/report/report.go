// Package report renders named pass/fail outcomes as a JUnit XML document.
package report

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Result is the outcome of one named check.
type Result struct {
	Name    string
	Passed  bool
	Message string // diagnostic for failures; may be empty
}

// Pass returns a passing result.
func Pass(name string) Result {
	return Result{Name: name, Passed: true}
}

// Fail returns a failing result with a formatted message.
func Fail(name, format string, args ...any) Result {
	return Result{Name: name, Message: fmt.Sprintf(format, args...)}
}

// Failures counts the failed results.
func Failures(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}

type testSuite struct {
	XMLName   xml.Name   `xml:"testsuite"`
	Name      string     `xml:"name,attr"`
	Tests     int        `xml:"tests,attr"`
	Failures  int        `xml:"failures,attr"`
	Errors    int        `xml:"errors,attr"`
	Skipped   int        `xml:"skipped,attr"`
	Time      string     `xml:"time,attr"`
	TestCases []testCase `xml:"testcase"`
}

type testCase struct {
	ClassName string   `xml:"classname,attr"`
	Name      string   `xml:"name,attr"`
	Time      string   `xml:"time,attr"`
	Failure   *failure `xml:"failure,omitempty"`
}

type failure struct {
	Message string `xml:"message,attr"`
}

// WriteJUnit writes results as a single <testsuite>. Failures without a
// message are reported as "failed".
func WriteJUnit(w io.Writer, suite string, results []Result) error {
	doc := testSuite{
		Name:     suite,
		Tests:    len(results),
		Failures: Failures(results),
		Time:     "0",
	}
	for _, r := range results {
		tc := testCase{ClassName: suite, Name: r.Name, Time: "0"}
		if !r.Passed {
			msg := r.Message
			if msg == "" {
				msg = "failed"
			}
			tc.Failure = &failure{Message: msg}
		}
		doc.TestCases = append(doc.TestCases, tc)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write xml header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode testsuite: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write trailer: %w", err)
	}
	return nil
}
