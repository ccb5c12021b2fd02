package report

import (
	"fmt"
	"math"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-reportgen/pkg/template"
)

// RenderLaTeX renders the regression table as a tabularx block wrapped in a
// table environment (see WithoutTableEnvironment). Custom notes switch the
// footer to the table template's override block, exactly as in the HTML path.
// A template set with WithTemplate is used only when its name carries a .tex
// extension.
func (b *Builder) RenderLaTeX() (string, error) {
	name := b.templateName
	if path.Ext(name) != ".tex" {
		name = "master.tex"
		if len(b.customNotes) > 0 {
			name = "table.tex"
		}
	}
	return b.engine.Render(name, b.LaTeXContext())
}

// LaTeXContext builds the field→value mapping the LaTeX templates consume.
// Cell runs are pre-joined column values ("& 0.123$^{***}$ ..."); the
// templates contribute row labels and table structure.
func (b *Builder) LaTeXContext() template.Context {
	ctx := template.Context{
		"colspec":     "l" + strings.Repeat("X", len(b.summaries)),
		"notes_label": b.notesLabel,
		"legend":      latexLegend(b.sigLevels),
		"legend_span": len(b.summaries),
		"header_rows": b.latexHeaderRows(),
		"body_rows":   b.latexBodyRows(),
	}
	if !b.onlyTabular {
		ctx["table_env"] = true
	}
	if b.showHeader && b.title != "" {
		ctx["title"] = escapeLaTeX(b.title)
	}
	if cells, ok := b.latexStatCells(InfoNObs, 0); ok {
		ctx["observations_cells"] = cells
	}
	if cells, ok := b.latexStatCells(InfoRSquared, b.sigDigits); ok {
		ctx["r2_cells"] = cells
	}
	if cells, ok := b.latexStatCells(InfoAdjRSquared, b.sigDigits); ok {
		ctx["adj_r2_cells"] = cells
	}
	if cells, ok := b.latexResidualErrCells(); ok {
		ctx["rse_cells"] = cells
	}
	if cells, ok := b.latexFStatisticCells(); ok {
		ctx["f_cells"] = cells
	}
	if len(b.customNotes) > 0 {
		ctx["notes"] = b.latexNotes()
	}
	return ctx
}

func (b *Builder) latexHeaderRows() string {
	if !b.showHeader {
		return ""
	}
	var sb strings.Builder

	if b.anyDependentVariable() {
		sb.WriteString("\\\\[-1.8ex]")
		for _, s := range b.summaries {
			if s.DependentVariable == "" {
				sb.WriteString("& ")
				continue
			}
			sb.WriteString("& \\textit{" + escapeLaTeX(s.DependentVariable) + "} ")
		}
		sb.WriteString("\\\\\n")
	}

	if len(b.columnGroups) > 0 {
		sb.WriteString("\\\\[-1.8ex]")
		for _, g := range b.columnGroups {
			fmt.Fprintf(&sb, "& \\multicolumn{%d}{l}{%s} ", g.Span, escapeLaTeX(g.Label))
		}
		sb.WriteString("\\\\\n")
	}

	if b.showModelNumbers && len(b.summaries) > 1 {
		sb.WriteString("\\\\[-1.8ex]")
		for i := range b.summaries {
			fmt.Fprintf(&sb, "& (%d) ", i+1)
		}
		sb.WriteString("\\\\\n")
	}
	return sb.String()
}

func (b *Builder) latexBodyRows() string {
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

		sb.WriteString(" " + escapeLaTeX(label) + " ")
		for _, s := range b.summaries {
			c, ok := s.coefficient(name)
			if !ok {
				sb.WriteString("& ")
				continue
			}
			sb.WriteString("& " + formatStat(c.Value, b.sigDigits))
			if b.showStars {
				sb.WriteString("$^{" + stars(c.PValue, b.sigLevels) + "}$")
			}
			sb.WriteString(" ")
		}
		sb.WriteString("\\\\\n")

		if b.showPrecision {
			for _, s := range b.summaries {
				c, ok := s.coefficient(name)
				if !ok {
					sb.WriteString("& ")
					continue
				}
				sb.WriteString("&(")
				if b.confidenceIvals {
					sb.WriteString(formatStat(c.CILower, b.sigDigits) + " , " + formatStat(c.CIUpper, b.sigDigits))
				} else {
					sb.WriteString(formatStat(c.StdErr, b.sigDigits))
				}
				sb.WriteString(")")
			}
			sb.WriteString("\\\\\n")
		}

		// Spacer row between covariates.
		sb.WriteString("  " + strings.Repeat("& ", len(b.summaries)) + "\\\\\n")
	}
	return sb.String()
}

// latexStatCells renders one "& value" cell per model for a plain statistic.
// The row is emitted only when at least one model defines the value.
func (b *Builder) latexStatCells(key string, digits int) (string, bool) {
	var sb strings.Builder
	found := false
	for _, s := range b.summaries {
		v, ok := s.stat(key)
		if !ok {
			sb.WriteString("&  ")
			continue
		}
		found = true
		sb.WriteString("& " + formatStat(v, digits) + " ")
	}
	return sb.String(), found
}

func (b *Builder) latexResidualErrCells() (string, bool) {
	var sb strings.Builder
	found := false
	for _, s := range b.summaries {
		scale, ok := s.stat(InfoScale)
		if !ok {
			sb.WriteString("&  ")
			continue
		}
		found = true
		sb.WriteString("& " + formatStat(math.Sqrt(scale), b.sigDigits))
		if b.showDoF {
			if df, ok := s.stat(InfoDFResidual); ok {
				sb.WriteString(" (df = " + formatStat(df, 0) + ")")
			}
		}
		sb.WriteString(" ")
	}
	return sb.String(), found
}

func (b *Builder) latexFStatisticCells() (string, bool) {
	var sb strings.Builder
	found := false
	for _, s := range b.summaries {
		f, ok := s.stat(InfoFValue)
		if !ok {
			sb.WriteString("&  ")
			continue
		}
		found = true
		sb.WriteString("& " + formatStat(f, b.sigDigits))
		if b.showStars {
			if p, ok := s.stat(InfoFPValue); ok {
				sb.WriteString("$^{" + stars(p, b.sigLevels) + "}$")
			}
		}
		if b.showDoF {
			m, okM := s.stat(InfoDFModel)
			r, okR := s.stat(InfoDFResidual)
			if okM && okR {
				sb.WriteString(" (df = " + formatStat(m, 0) + "; " + formatStat(r, 0) + ")")
			}
		}
		sb.WriteString(" ")
	}
	return sb.String(), found
}

func (b *Builder) latexNotes() string {
	var sb strings.Builder
	if b.appendLegend {
		fmt.Fprintf(&sb, " & \\multicolumn{%d}{r}{%s} \\\\\n", len(b.summaries), latexLegend(b.sigLevels))
	}
	for _, note := range b.customNotes {
		fmt.Fprintf(&sb, " &\\multicolumn{%d}{r}\\textit{%s} \\\\\n", len(b.summaries), escapeLaTeX(note))
	}
	return sb.String()
}

// latexLegend renders the significance key for LaTeX footers, narrowest
// threshold first, e.g. "$^{***}$p$<$0.01; $^{**}$p$<$0.05; $^{*}$p$<$0.1".
func latexLegend(levels []float64) string {
	ordered := append([]float64(nil), levels...)
	sort.Float64s(ordered)

	parts := make([]string, 0, len(ordered))
	for i, level := range ordered {
		parts = append(parts, "$^{"+strings.Repeat("*", len(ordered)-i)+"}$p$<$"+trimFloat(level))
	}
	return strings.Join(parts, "; ")
}

var latexEscaper = strings.NewReplacer(
	"\\", "\\textbackslash{}",
	"&", "\\&",
	"%", "\\%",
	"$", "\\$",
	"#", "\\#",
	"_", "\\_",
	"{", "\\{",
	"}", "\\}",
	"~", "\\textasciitilde{}",
	"^", "\\textasciicircum{}",
)

// escapeLaTeX neutralizes LaTeX special characters in caller-supplied text
// such as titles, labels, and notes.
func escapeLaTeX(s string) string {
	return latexEscaper.Replace(s)
}
