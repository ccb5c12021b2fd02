package report

import (
	"errors"
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/goliatone/go-reportgen/pkg/template"
)

// Builder turns one or more model summaries into a regression table, rendered
// as HTML or LaTeX. Construction fixes the rendering options; RenderHTML and
// RenderLaTeX may be called any number of times and are deterministic.
type Builder struct {
	summaries []Summary
	engine    *template.Engine

	title            string
	covariateOrder   []string
	covariateLabels  map[string]string
	sigLevels        []float64
	sigDigits        int
	confidenceIvals  bool
	showStars        bool
	showPrecision    bool
	showModelNumbers bool
	showHeader       bool
	showDoF          bool
	columnGroups     []ColumnGroup
	onlyTabular      bool
	notesLabel       string
	customNotes      []string
	appendLegend     bool
	templateName     string
	extraSource      template.Source
}

// ColumnGroup labels a run of adjacent model columns in the table header.
type ColumnGroup struct {
	Label string
	Span  int
}

// Option configures a Builder before construction.
type Option func(*Builder)

// WithTitle sets the table title. Light inline markup is kept; anything else
// is stripped.
func WithTitle(title string) Option {
	return func(b *Builder) {
		b.title = title
	}
}

// WithCovariateOrder fixes the row order of the coefficient table. Every name
// must exist in at least one summary; the default order is the sorted union.
func WithCovariateOrder(names ...string) Option {
	return func(b *Builder) {
		b.covariateOrder = names
	}
}

// WithCovariateLabels maps coefficient names to display labels.
func WithCovariateLabels(labels map[string]string) Option {
	return func(b *Builder) {
		b.covariateLabels = labels
	}
}

// WithSignificanceLevels overrides the p-value thresholds that earn stars,
// widest first.
func WithSignificanceLevels(levels ...float64) Option {
	return func(b *Builder) {
		b.sigLevels = levels
	}
}

// WithSignificantDigits sets the number of decimal digits statistics are
// rounded to. The default is 3.
func WithSignificantDigits(digits int) Option {
	return func(b *Builder) {
		b.sigDigits = digits
	}
}

// WithConfidenceIntervals reports confidence intervals instead of standard
// errors under each coefficient.
func WithConfidenceIntervals() Option {
	return func(b *Builder) {
		b.confidenceIvals = true
	}
}

// WithoutStars drops the significance markers from coefficient cells.
func WithoutStars() Option {
	return func(b *Builder) {
		b.showStars = false
	}
}

// WithoutPrecision drops the standard-error / confidence-interval row under
// each coefficient.
func WithoutPrecision() Option {
	return func(b *Builder) {
		b.showPrecision = false
	}
}

// WithoutModelNumbers drops the "(1) (2) …" column header row.
func WithoutModelNumbers() Option {
	return func(b *Builder) {
		b.showModelNumbers = false
	}
}

// WithColumnGroups adds a header row of group labels above the model columns.
// Spans must cover the model columns exactly; a single group spanning every
// model puts one label across the whole table.
func WithColumnGroups(groups ...ColumnGroup) Option {
	return func(b *Builder) {
		b.columnGroups = groups
	}
}

// WithoutHeader drops the title and the header rows above the coefficient
// table.
func WithoutHeader() Option {
	return func(b *Builder) {
		b.showHeader = false
	}
}

// WithoutTableEnvironment emits only the tabularx block in LaTeX output,
// without the surrounding table environment and caption. HTML output is
// unaffected.
func WithoutTableEnvironment() Option {
	return func(b *Builder) {
		b.onlyTabular = true
	}
}

// WithDegreesOfFreedom appends degrees of freedom to the residual-error and
// F-statistic rows.
func WithDegreesOfFreedom() Option {
	return func(b *Builder) {
		b.showDoF = true
	}
}

// WithNotesLabel overrides the "Note:" label in the table footer.
func WithNotesLabel(label string) Option {
	return func(b *Builder) {
		b.notesLabel = label
	}
}

// WithNotes adds custom footer notes. Setting notes switches rendering to the
// table template, whose footer block overrides the master default.
func WithNotes(notes ...string) Option {
	return func(b *Builder) {
		b.customNotes = append(b.customNotes, notes...)
	}
}

// WithoutLegend drops the significance legend from custom footer notes.
func WithoutLegend() Option {
	return func(b *Builder) {
		b.appendLegend = false
	}
}

// WithTemplate renders the named template instead of the built-in choice.
// Combine with WithTemplateSource to supply templates that extend the
// embedded master layout.
func WithTemplate(name string) Option {
	return func(b *Builder) {
		b.templateName = strings.TrimSpace(name)
	}
}

// WithTemplateSource adds a template source consulted before the embedded
// bundle.
func WithTemplateSource(source template.Source) Option {
	return func(b *Builder) {
		b.extraSource = source
	}
}

// New constructs a Builder over the given model summaries.
func New(summaries []Summary, options ...Option) (*Builder, error) {
	if len(summaries) == 0 {
		return nil, errors.New("report: at least one model summary is required")
	}

	b := &Builder{
		summaries:        summaries,
		sigLevels:        DefaultSignificanceLevels,
		sigDigits:        3,
		showStars:        true,
		showPrecision:    true,
		showModelNumbers: true,
		showHeader:       true,
		notesLabel:       "Note:",
		appendLegend:     true,
	}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}

	if b.sigDigits < 0 || b.sigDigits > 9 {
		return nil, fmt.Errorf("report: significant digits must be between 0 and 9, got %d", b.sigDigits)
	}
	known := coefficientNames(summaries)
	for _, name := range b.covariateOrder {
		if !contains(known, name) {
			return nil, fmt.Errorf("report: covariate order names unknown coefficient %q", name)
		}
	}
	if len(b.columnGroups) > 0 {
		total := 0
		for _, g := range b.columnGroups {
			if g.Span < 1 {
				return nil, fmt.Errorf("report: column group %q must span at least one column", g.Label)
			}
			total += g.Span
		}
		if total != len(summaries) {
			return nil, fmt.Errorf("report: column groups span %d columns, have %d models", total, len(summaries))
		}
	}

	engineOptions := []template.Option{}
	if b.extraSource != nil {
		engineOptions = append(engineOptions, template.WithSource(b.extraSource))
	}
	engineOptions = append(engineOptions, template.WithSource(template.FSSource(TemplatesFS())))

	engine, err := template.New(engineOptions...)
	if err != nil {
		return nil, fmt.Errorf("report: build template engine: %w", err)
	}
	b.engine = engine
	return b, nil
}

// RenderHTML renders the regression table. Custom notes switch the footer to
// the table template's override block; otherwise the master default footer
// (the significance legend) renders.
func (b *Builder) RenderHTML() (string, error) {
	name := b.templateName
	if name == "" {
		name = "master.html"
		if len(b.customNotes) > 0 {
			name = "table.html"
		}
	}
	return b.engine.Render(name, b.Context())
}

// Context builds the field→value mapping the templates consume. Exposed so
// callers rendering their own child templates see the exact same fields.
func (b *Builder) Context() template.Context {
	ctx := template.Context{
		"span":        len(b.summaries) + 1,
		"notes_label": b.notesLabel,
		"legend":      legend(b.sigLevels),
		"header_rows": b.headerRows(),
		"body_rows":   b.bodyRows(),
	}
	if b.showHeader && b.title != "" {
		ctx["title"] = sanitizeInline(b.title)
	}
	if cells, ok := b.statCells(InfoNObs, 0); ok {
		ctx["observations_cells"] = cells
	}
	if cells, ok := b.statCells(InfoRSquared, b.sigDigits); ok {
		ctx["r2_cells"] = cells
	}
	if cells, ok := b.statCells(InfoAdjRSquared, b.sigDigits); ok {
		ctx["adj_r2_cells"] = cells
	}
	if cells, ok := b.residualErrCells(); ok {
		ctx["rse_cells"] = cells
	}
	if cells, ok := b.fStatisticCells(); ok {
		ctx["f_cells"] = cells
	}
	if len(b.customNotes) > 0 {
		notes := make([]string, 0, len(b.customNotes)+1)
		for _, note := range b.customNotes {
			notes = append(notes, sanitizeInline(note))
		}
		if b.appendLegend {
			notes = append(notes, legend(b.sigLevels))
		}
		ctx["notes"] = strings.Join(notes, "<br>")
	}
	return ctx
}

func (b *Builder) headerRows() string {
	var sb strings.Builder

	if b.showHeader {
		if b.anyDependentVariable() {
			sb.WriteString(`<tr><td style="text-align:left"></td>`)
			for _, s := range b.summaries {
				if s.DependentVariable == "" {
					sb.WriteString("<td></td>")
					continue
				}
				sb.WriteString("<td><em>" + html.EscapeString(s.DependentVariable) + "</em></td>")
			}
			sb.WriteString("</tr>\n")
		}

		if len(b.columnGroups) > 0 {
			sb.WriteString(`<tr><td style="text-align:left"></td>`)
			for _, g := range b.columnGroups {
				fmt.Fprintf(&sb, `<td colspan="%d">%s</td>`, g.Span, html.EscapeString(g.Label))
			}
			sb.WriteString("</tr>\n")
		}

		if b.showModelNumbers && len(b.summaries) > 1 {
			sb.WriteString(`<tr><td style="text-align:left"></td>`)
			for i := range b.summaries {
				fmt.Fprintf(&sb, "<td>(%d)</td>", i+1)
			}
			sb.WriteString("</tr>\n")
		}
	}

	fmt.Fprintf(&sb, `<tr><td colspan="%d" style="border-bottom: 1px solid black"></td></tr>`, len(b.summaries)+1)
	sb.WriteString("\n")
	return sb.String()
}

func (b *Builder) bodyRows() string {
	names := b.covariateOrder
	if len(names) == 0 {
		names = coefficientNames(b.summaries)
	}

	var sb strings.Builder
	for _, name := range names {
		label := name
		if nicer, ok := b.covariateLabels[name]; ok {
			label = nicer
		}

		sb.WriteString(`<tr><td style="text-align:left">` + html.EscapeString(label) + "&nbsp;</td>")
		for _, s := range b.summaries {
			c, ok := s.coefficient(name)
			if !ok {
				sb.WriteString("<td></td>")
				continue
			}
			sb.WriteString("<td>" + formatStat(c.Value, b.sigDigits))
			if b.showStars {
				sb.WriteString("<sup>" + stars(c.PValue, b.sigLevels) + "</sup>")
			}
			sb.WriteString("</td>")
		}
		sb.WriteString("</tr>\n")

		if !b.showPrecision {
			continue
		}
		sb.WriteString(`<tr><td style="text-align:left"></td>`)
		for _, s := range b.summaries {
			c, ok := s.coefficient(name)
			if !ok {
				sb.WriteString("<td></td>")
				continue
			}
			if b.confidenceIvals {
				sb.WriteString("<td>&nbsp;(" + formatStat(c.CILower, b.sigDigits) + " , " + formatStat(c.CIUpper, b.sigDigits) + ")</td>")
			} else {
				sb.WriteString("<td>&nbsp;(" + formatStat(c.StdErr, b.sigDigits) + ")</td>")
			}
		}
		sb.WriteString("</tr>\n")
	}
	return sb.String()
}

// statCells renders one <td> per model for a plain statistic. The row is
// emitted only when at least one model defines the value.
func (b *Builder) statCells(key string, digits int) (string, bool) {
	var sb strings.Builder
	found := false
	for _, s := range b.summaries {
		v, ok := s.stat(key)
		if !ok {
			sb.WriteString("<td></td>")
			continue
		}
		found = true
		sb.WriteString("<td>" + formatStat(v, digits) + "</td>")
	}
	return sb.String(), found
}

func (b *Builder) residualErrCells() (string, bool) {
	var sb strings.Builder
	found := false
	for _, s := range b.summaries {
		scale, ok := s.stat(InfoScale)
		if !ok {
			sb.WriteString("<td></td>")
			continue
		}
		found = true
		sb.WriteString("<td>" + formatStat(math.Sqrt(scale), b.sigDigits))
		if b.showDoF {
			if df, ok := s.stat(InfoDFResidual); ok {
				sb.WriteString(" (df = " + formatStat(df, 0) + ")")
			}
		}
		sb.WriteString("</td>")
	}
	return sb.String(), found
}

func (b *Builder) fStatisticCells() (string, bool) {
	var sb strings.Builder
	found := false
	for _, s := range b.summaries {
		f, ok := s.stat(InfoFValue)
		if !ok {
			sb.WriteString("<td></td>")
			continue
		}
		found = true
		sb.WriteString("<td>" + formatStat(f, b.sigDigits))
		if b.showStars {
			if p, ok := s.stat(InfoFPValue); ok {
				sb.WriteString("<sup>" + stars(p, b.sigLevels) + "</sup>")
			}
		}
		if b.showDoF {
			m, okM := s.stat(InfoDFModel)
			r, okR := s.stat(InfoDFResidual)
			if okM && okR {
				sb.WriteString(" (df = " + formatStat(m, 0) + "; " + formatStat(r, 0) + ")")
			}
		}
		sb.WriteString("</td>")
	}
	return sb.String(), found
}

func (b *Builder) anyDependentVariable() bool {
	for _, s := range b.summaries {
		if s.DependentVariable != "" {
			return true
		}
	}
	return false
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
