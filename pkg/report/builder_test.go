package report_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-reportgen/pkg/report"
	"github.com/goliatone/go-reportgen/pkg/template"
)

func toySummary() report.Summary {
	return report.Summary{
		DependentVariable: "lwage",
		Coefficients: []report.Coefficient{
			{Name: "const", Value: 0.123, StdErr: 0.045, PValue: 0.008, CILower: 0.035, CIUpper: 0.211},
			{Name: "educ", Value: 0.083, StdErr: 0.008, PValue: 0.02, CILower: 0.067, CIUpper: 0.099},
		},
		Info: map[string]float64{
			report.InfoNObs:        100,
			report.InfoRSquared:    0.186,
			report.InfoAdjRSquared: 0.177,
			report.InfoFValue:      0.9,
			report.InfoFPValue:     0.344,
			report.InfoDFModel:     1,
			report.InfoDFResidual:  98,
		},
	}
}

func renderToy(t *testing.T, options ...report.Option) string {
	t.Helper()
	builder, err := report.New([]report.Summary{toySummary()}, options...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := builder.RenderHTML()
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	return out
}

func TestRenderHTMLSingleModel(t *testing.T) {
	out := renderToy(t, report.WithTitle("OLS on synthetic data"))

	for _, want := range []string{
		"OLS on synthetic data<br>",
		"<em>lwage</em>",
		`<td style="text-align:left">const&nbsp;</td>`,
		"<td>0.123<sup>***</sup></td>",
		"<td>0.083<sup>**</sup></td>",
		"&nbsp;(0.045)",
		`<td style="text-align: left">Observations</td><td>100</td>`,
		"R<sup>2</sup></td><td>0.186</td>",
		"Adjusted R<sup>2</sup></td><td>0.177</td>",
		"F Statistic</td><td>0.9<sup></sup></td>",
		"Note: *p&lt;0.1; **p&lt;0.05; ***p&lt;0.01",
		"</table>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\noutput:\n%s", want, out)
		}
	}

	if strings.Contains(out, "{%") || strings.Contains(out, "{{") {
		t.Fatalf("residual directive markers in output:\n%s", out)
	}
}

func TestRenderHTMLIsDeterministic(t *testing.T) {
	builder, err := report.New([]report.Summary{toySummary()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	first, err := builder.RenderHTML()
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	second, err := builder.RenderHTML()
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if first != second {
		t.Fatalf("renders differ")
	}
}

func TestRenderHTMLMultiModelAlignment(t *testing.T) {
	second := report.Summary{
		DependentVariable: "lwage",
		Coefficients: []report.Coefficient{
			{Name: "educ", Value: 0.071, StdErr: 0.009, PValue: 0.04},
			{Name: "exper", Value: 0.012, StdErr: 0.002, PValue: 0.09},
		},
		Info: map[string]float64{report.InfoNObs: 100, report.InfoRSquared: 0.21},
	}

	builder, err := report.New([]report.Summary{toySummary(), second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := builder.RenderHTML()
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}

	// Model number header, and empty cells where a model lacks a coefficient.
	if !strings.Contains(out, "<td>(1)</td><td>(2)</td>") {
		t.Errorf("missing model number header:\n%s", out)
	}
	if !strings.Contains(out, `<td style="text-align:left">const&nbsp;</td><td>0.123<sup>***</sup></td><td></td>`) {
		t.Errorf("const row not aligned with empty cell for model 2:\n%s", out)
	}
	if !strings.Contains(out, `<td style="text-align:left">exper&nbsp;</td><td></td><td>0.012<sup>*</sup></td>`) {
		t.Errorf("exper row not aligned with empty cell for model 1:\n%s", out)
	}
	// Adjusted R2 exists in neither... model 1 has it; row renders with an
	// empty second cell.
	if !strings.Contains(out, "Adjusted R<sup>2</sup></td><td>0.177</td><td></td>") {
		t.Errorf("adjusted R2 row not padded:\n%s", out)
	}
}

func TestRenderHTMLCustomNotesOverrideFooter(t *testing.T) {
	out := renderToy(t, report.WithNotes("Synthetic data; toy model."))

	if !strings.Contains(out, "Note: Synthetic data; toy model.<br>*p&lt;0.1; **p&lt;0.05; ***p&lt;0.01") {
		t.Errorf("custom note footer missing:\n%s", out)
	}

	plain := renderToy(t)
	if strings.Contains(plain, "Synthetic data") {
		t.Errorf("default footer leaked custom note")
	}
}

func TestRenderHTMLNotesWithoutLegend(t *testing.T) {
	out := renderToy(t, report.WithNotes("Just this."), report.WithoutLegend())

	if !strings.Contains(out, "Note: Just this.</td>") {
		t.Errorf("note missing:\n%s", out)
	}
	if strings.Contains(out, "*p&lt;0.1") {
		t.Errorf("legend rendered despite WithoutLegend:\n%s", out)
	}
}

func TestRenderHTMLConfidenceIntervals(t *testing.T) {
	out := renderToy(t, report.WithConfidenceIntervals())

	if !strings.Contains(out, "&nbsp;(0.035 , 0.211)") {
		t.Errorf("confidence interval row missing:\n%s", out)
	}
	if strings.Contains(out, "&nbsp;(0.045)") {
		t.Errorf("standard error rendered despite confidence intervals:\n%s", out)
	}
}

func TestRenderHTMLDegreesOfFreedom(t *testing.T) {
	out := renderToy(t, report.WithDegreesOfFreedom())

	if !strings.Contains(out, "0.9<sup></sup> (df = 1; 98)") {
		t.Errorf("F statistic degrees of freedom missing:\n%s", out)
	}
}

func TestRenderHTMLCovariateOptions(t *testing.T) {
	out := renderToy(t,
		report.WithCovariateOrder("educ", "const"),
		report.WithCovariateLabels(map[string]string{"educ": "Years of schooling"}),
	)

	educ := strings.Index(out, "Years of schooling")
	konst := strings.Index(out, "const&nbsp;")
	if educ < 0 || konst < 0 {
		t.Fatalf("rows missing:\n%s", out)
	}
	if educ > konst {
		t.Errorf("covariate order not honored: educ at %d, const at %d", educ, konst)
	}
}

func TestRenderHTMLColumnGroups(t *testing.T) {
	builder, err := report.New([]report.Summary{toySummary(), toySummary()},
		report.WithColumnGroups(
			report.ColumnGroup{Label: "Men", Span: 1},
			report.ColumnGroup{Label: "Women", Span: 1},
		),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := builder.RenderHTML()
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}

	if !strings.Contains(out, `<td colspan="1">Men</td><td colspan="1">Women</td>`) {
		t.Errorf("column group row missing:\n%s", out)
	}
}

func TestNewRejectsBadColumnGroups(t *testing.T) {
	summaries := []report.Summary{toySummary(), toySummary()}

	_, err := report.New(summaries, report.WithColumnGroups(report.ColumnGroup{Label: "All", Span: 3}))
	if err == nil {
		t.Fatalf("New accepted column groups wider than the table")
	}
	_, err = report.New(summaries, report.WithColumnGroups(
		report.ColumnGroup{Label: "Zero", Span: 0},
		report.ColumnGroup{Label: "Rest", Span: 2},
	))
	if err == nil {
		t.Fatalf("New accepted a zero-span column group")
	}
}

func TestRenderHTMLWithoutHeader(t *testing.T) {
	out := renderToy(t, report.WithTitle("hidden title"), report.WithoutHeader())

	if strings.Contains(out, "hidden title") {
		t.Errorf("title rendered despite WithoutHeader:\n%s", out)
	}
	if strings.Contains(out, "<em>lwage</em>") {
		t.Errorf("dependent variable row rendered despite WithoutHeader:\n%s", out)
	}
	for _, want := range []string{"<table", "Observations", "</table>"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\noutput:\n%s", want, out)
		}
	}
}

func TestNewRejectsUnknownCovariate(t *testing.T) {
	_, err := report.New([]report.Summary{toySummary()}, report.WithCovariateOrder("nope"))
	if err == nil {
		t.Fatalf("New accepted unknown covariate order")
	}
}

func TestNewRejectsEmptySummaries(t *testing.T) {
	if _, err := report.New(nil); err == nil {
		t.Fatalf("New accepted empty summaries")
	}
}

func TestTitleIsSanitized(t *testing.T) {
	out := renderToy(t, report.WithTitle(`Results <script>alert(1)</script><em>highlighted</em>`))

	if strings.Contains(out, "<script>") {
		t.Fatalf("script tag survived sanitization:\n%s", out)
	}
	if !strings.Contains(out, "<em>highlighted</em>") {
		t.Errorf("inline markup stripped from title:\n%s", out)
	}
}

func TestCustomChildTemplate(t *testing.T) {
	source := template.MapSource{
		"custom.html": `{% extends "master.html" %}{% block footer %}<tr><td colspan="{{ span }}">custom footer</td></tr>{% endblock %}`,
	}
	builder, err := report.New([]report.Summary{toySummary()},
		report.WithTemplateSource(source),
		report.WithTemplate("custom.html"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := builder.RenderHTML()
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(out, `<td colspan="2">custom footer</td>`) {
		t.Errorf("custom footer override missing:\n%s", out)
	}
	if strings.Contains(out, "Note:") {
		t.Errorf("default footer rendered despite override:\n%s", out)
	}
}
