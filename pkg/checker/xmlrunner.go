package checker

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/warngate/warngate/pkg/config"
	"github.com/warngate/warngate/pkg/finding"
	"github.com/warngate/warngate/pkg/fingerprint"
)

type junitTestCase struct {
	XMLName   xml.Name          `xml:"testcase"`
	ClassName string            `xml:"classname,attr"`
	Name      string            `xml:"name,attr"`
	Failures  []junitFailure    `xml:"failure"`
	Errors    []junitFailure    `xml:"error"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Text    string `xml:",chardata"`
}

// XmlRunner counts JUnit-style <failure>/<error> elements nested under
// <testcase>. Multi-file inputs accumulate across calls to Check, one call
// per input file.
type XmlRunner struct {
	Base
}

// NewXmlRunner constructs a JUnit/XmlRunner checker.
func NewXmlRunner(fp *fingerprint.Registry) *XmlRunner {
	return &XmlRunner{Base: NewBase("junit", fp)}
}

func (x *XmlRunner) Mode() InputMode { return BlobInput }

func (x *XmlRunner) ParseConfig(cfg config.CheckerConfig) error {
	return x.ParseSimpleConfig(cfg)
}

func (x *XmlRunner) Check(content string) {
	decoder := xml.NewDecoder(strings.NewReader(content))
	for {
		tok, err := decoder.Token()
		if err != nil {
			return
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "testcase" {
			continue
		}

		var tc junitTestCase
		if err := decoder.DecodeElement(&tc, &start); err != nil {
			continue
		}

		checkName := tc.ClassName + "." + tc.Name
		for _, f := range tc.Failures {
			x.reportFailure(checkName, f)
		}
		for _, e := range tc.Errors {
			x.reportFailure(checkName, e)
		}
	}
}

func (x *XmlRunner) reportFailure(checkName string, f junitFailure) {
	desc := f.Message
	if desc == "" {
		desc = strings.TrimSpace(f.Text)
	}
	if desc == "" {
		desc = fmt.Sprintf("%s failed", checkName)
	}
	if x.IsExcluded(desc) {
		return
	}
	x.Increment("", 0, finding.SeverityMajor, checkName, desc)
}
