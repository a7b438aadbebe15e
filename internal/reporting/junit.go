package reporting

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one interval run.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one check on the interval.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents a failed threshold.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitSkipped marks a check as skipped.
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit converts a report to JUnit XML. The suite has a single
// min_lower case, skipped when no threshold is set, so CI systems can gate
// on the lower bound.
func ConvertToJUnit(r *Report) *JUnitTestSuites {
	name := r.Name
	if name == "" {
		name = r.Metric
	}
	res := r.Result

	suite := JUnitTestSuite{
		Name:      name,
		Tests:     1,
		Timestamp: r.Timestamp.Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "method", Value: r.Method},
			{Name: "metric", Value: r.Metric},
			{Name: "ci_level", Value: strconv.Itoa(res.CILevel)},
			{Name: "mean", Value: formatFloat(res.Mean)},
			{Name: "ci_lower", Value: formatFloat(res.CILower)},
			{Name: "ci_upper", Value: formatFloat(res.CIUpper)},
		},
	}
	if res.NIter != nil {
		suite.Properties = append(suite.Properties, JUnitProperty{Name: "n_iter", Value: strconv.Itoa(*res.NIter)})
	}

	tc := JUnitTestCase{Name: "min_lower", Classname: name}
	switch {
	case r.MinLower == nil:
		tc.Skipped = &JUnitSkipped{Message: "no threshold set"}
		suite.Skipped = 1
	case !r.Passed():
		tc.Failure = &JUnitFailure{
			Message: fmt.Sprintf("ci_lower=%s < min_lower=%s", formatFloat(res.CILower), formatFloat(*r.MinLower)),
			Type:    "ThresholdFailure",
			Body:    InterpretThreshold(r),
		}
		suite.Failures = 1
	}
	suite.TestCases = []JUnitTestCase{tc}

	return &JUnitTestSuites{
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		TestSuites: []JUnitTestSuite{suite},
	}
}

// WriteJUnit writes JUnit XML with the standard header.
func WriteJUnit(w io.Writer, suites *JUnitTestSuites) error {
	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteJUnitXML writes JUnit XML for r to the specified file path.
func WriteJUnitXML(r *Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating JUnit file: %w", err)
	}
	if err := WriteJUnit(f, ConvertToJUnit(r)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
