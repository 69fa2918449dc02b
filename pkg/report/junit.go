package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"
	"github.com/solitary-project/forge/pkg/types"
)

// BuildJUnit lays a build out as two suites: plugin resolution and
// rendering. Each plugin and each render task is one test case.
func BuildJUnit(r *types.BuildResult) *etree.Document {
	doc, root := newDocument("forge build")
	seconds := fmt.Sprintf("%.3f", r.Duration.Seconds())

	plugins := addSuite(root, "plugins", seconds)
	for _, p := range r.Plugins {
		addCase(plugins, p.Name, "plugins")
	}
	for _, f := range r.PluginFailures {
		tc := addCase(plugins, f.Name, "plugins")
		addFailure(tc, failure(f.Name, f.Err))
	}
	finishSuite(plugins)

	render := addSuite(root, "render", seconds)
	for _, w := range r.Written {
		tc := addCase(render, w.Template, "render")
		tc.CreateAttr("file", w.Path)
	}
	for _, f := range r.RenderFailures {
		tc := addCase(render, f.Task.Template, "render")
		tc.CreateAttr("file", f.Task.Output)
		addFailure(tc, failure(f.Task.Output, f.Err))
	}
	finishSuite(render)

	finishRoot(root)
	return doc
}

// ValidateJUnit lays validation findings out by validator. Errors are
// failures; warnings are recorded as system-out.
func ValidateJUnit(r *types.ValidateResult) *etree.Document {
	doc, root := newDocument("forge validate")
	suite := addSuite(root, "validate", "0.000")

	byValidator := map[string][]types.Finding{}
	var order []string
	for _, f := range r.Findings {
		if _, ok := byValidator[f.Validator]; !ok {
			order = append(order, f.Validator)
		}
		byValidator[f.Validator] = append(byValidator[f.Validator], f)
	}
	for _, name := range order {
		tc := addCase(suite, name, "validate")
		for _, f := range byValidator[name] {
			if f.Severity == types.SeverityError {
				el := tc.CreateElement("failure")
				el.CreateAttr("message", f.Message)
				el.CreateAttr("type", string(f.Severity))
				continue
			}
			out := tc.CreateElement("system-out")
			out.SetText("warning: " + f.Message)
		}
	}
	finishSuite(suite)
	finishRoot(root)
	return doc
}

// WriteJUnit writes doc indented.
func WriteJUnit(w io.Writer, doc *etree.Document) error {
	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write junit report: %w", err)
	}
	return nil
}

func newDocument(name string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("testsuites")
	root.CreateAttr("name", name)
	return doc, root
}

func addSuite(root *etree.Element, name, seconds string) *etree.Element {
	suite := root.CreateElement("testsuite")
	suite.CreateAttr("name", name)
	suite.CreateAttr("time", seconds)
	return suite
}

func addCase(suite *etree.Element, name, class string) *etree.Element {
	tc := suite.CreateElement("testcase")
	tc.CreateAttr("name", name)
	tc.CreateAttr("classname", class)
	return tc
}

func addFailure(tc *etree.Element, f Failure) {
	el := tc.CreateElement("failure")
	el.CreateAttr("message", f.Message)
	el.CreateAttr("type", f.Code)
	el.SetText(f.Category + ": " + f.Message)
}

func finishSuite(suite *etree.Element) {
	tests, failures := 0, 0
	for _, tc := range suite.SelectElements("testcase") {
		tests++
		if tc.SelectElement("failure") != nil {
			failures++
		}
	}
	suite.CreateAttr("tests", strconv.Itoa(tests))
	suite.CreateAttr("failures", strconv.Itoa(failures))
	suite.CreateAttr("errors", "0")
}

func finishRoot(root *etree.Element) {
	tests, failures := 0, 0
	for _, suite := range root.SelectElements("testsuite") {
		t, _ := strconv.Atoi(suite.SelectAttrValue("tests", "0"))
		f, _ := strconv.Atoi(suite.SelectAttrValue("failures", "0"))
		tests += t
		failures += f
	}
	root.CreateAttr("tests", strconv.Itoa(tests))
	root.CreateAttr("failures", strconv.Itoa(failures))
}
