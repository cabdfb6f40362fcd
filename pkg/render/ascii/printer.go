package ascii

import "strings"

// Spacing selects how node glyphs on a row are separated.
type Spacing int

const (
	// SpacingCompact separates adjacent node glyphs by the minimal single
	// space that keeps connector glyphs unambiguous. Best for version
	// control, where diagrams should stay as narrow as possible.
	SpacingCompact Spacing = iota

	// SpacingFixed separates adjacent node glyphs by exactly Spaces space
	// characters regardless of connector complexity. Connector runs widen
	// to span the configured gap.
	SpacingFixed
)

// Options controls how a rendered canvas is turned into text.
// The zero value is not meaningful; start from [DefaultOptions].
type Options struct {
	// Spacing selects compact or fixed glyph separation.
	Spacing Spacing

	// Spaces is the gap width between adjacent node glyphs when Spacing is
	// SpacingFixed. Ignored otherwise.
	Spaces int

	// GroupLabelsByPrefix collapses row labels sharing a common prefix,
	// so `label-foo,label-bar` becomes `label-{foo,bar}`.
	GroupLabelsByPrefix bool

	// GroupLabelsBySuffix collapses row labels sharing a common suffix,
	// so `foo-suffix,bar-suffix` becomes `{foo,bar}-suffix`.
	GroupLabelsBySuffix bool

	// MinGroupSize is the minimum number of labels on a row for grouping
	// to apply.
	MinGroupSize int

	// PrefixMinLength is the minimum length of a common prefix worth
	// grouping on. Short shared prefixes read better spelled out.
	PrefixMinLength int

	// SuffixMinLength is the minimum length of a common suffix worth
	// grouping on.
	SuffixMinLength int

	// LabelPad is the number of spaces between the widest glyph row and
	// the label column all labels are aligned to.
	LabelPad int
}

// DefaultOptions returns the options used by [Render]: compact spacing,
// prefix and suffix grouping enabled for groups of at least two labels
// sharing at least four characters, and labels aligned four spaces right of
// the widest glyph row.
func DefaultOptions() Options {
	return Options{
		Spacing:             SpacingCompact,
		Spaces:              4,
		GroupLabelsByPrefix: true,
		GroupLabelsBySuffix: true,
		MinGroupSize:        2,
		PrefixMinLength:     4,
		SuffixMinLength:     4,
		LabelPad:            4,
	}
}

// printer expands a canvas of logical-column symbol rows into text.
type printer struct {
	opts  Options
	pitch int // char distance between adjacent node slots
}

func newPrinter(opts Options) *printer {
	pitch := 2
	if opts.Spacing == SpacingFixed {
		pitch = opts.Spaces + 1
		if pitch < 2 {
			pitch = 2
		}
	}
	if opts.LabelPad < 1 {
		opts.LabelPad = DefaultOptions().LabelPad
	}
	return &printer{opts: opts, pitch: pitch}
}

// print renders the canvas. Rows containing node symbols get their labels
// appended, aligned to a common column derived from the widest glyph row.
func (p *printer) print(canvas [][]symbol) string {
	rendered := make([]string, len(canvas))
	labels := make([][]string, len(canvas))
	width := 0

	for i, row := range canvas {
		rendered[i], labels[i] = p.expandRow(row)
		if len(rendered[i]) > width {
			width = len(rendered[i])
		}
	}

	var b strings.Builder
	for i, line := range rendered {
		b.WriteString(line)
		if text := p.labelText(labels[i]); text != "" {
			b.WriteString(strings.Repeat(" ", width+p.opts.LabelPad-len(line)))
			b.WriteString(text)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// expandRow converts one row of logical-column symbols into characters.
// Even columns are node slots one character wide; the odd column between
// two slots expands to pitch-1 characters. A diagonal in an odd column sits
// at the end adjacent to the slot it leaves, with '_' filling the rest of
// the gap.
func (p *printer) expandRow(row []symbol) (string, []string) {
	var b strings.Builder
	var labels []string

	for i, sym := range row {
		if sym.kind == kindNode {
			labels = append(labels, sym.label)
		}
		if i%2 == 0 {
			b.WriteByte(glyphAt(sym.kind))
			continue
		}
		b.WriteString(p.expandGap(sym.kind))
	}
	return strings.TrimRight(b.String(), " "), labels
}

// expandGap renders the pitch-1 characters between two node slots.
func (p *printer) expandGap(kind symbolKind) string {
	width := p.pitch - 1
	switch kind {
	case kindLeft:
		return strings.Repeat("_", width-1) + "/"
	case kindRight:
		return `\` + strings.Repeat("_", width-1)
	case kindRun:
		return strings.Repeat("_", width)
	case kindCross:
		pad := strings.Repeat(" ", width/2)
		return (pad + "x" + strings.Repeat(" ", width))[:width]
	case kindSpace:
		return strings.Repeat(" ", width)
	}
	// A straight rail never occupies a gap column, but render it sanely.
	return (glyphString(kind) + strings.Repeat(" ", width))[:width]
}

func glyphAt(kind symbolKind) byte {
	switch kind {
	case kindNode:
		return 'o'
	case kindHold:
		return '|'
	case kindRun:
		return '_'
	case kindLeft:
		return '/'
	case kindRight:
		return '\\'
	case kindCross:
		return 'x'
	}
	return ' '
}

func glyphString(kind symbolKind) string { return string(glyphAt(kind)) }

// labelText joins a row's labels in column order, optionally collapsing a
// shared prefix and suffix. Labels that are empty render as '?' so columns
// stay accountable; a row whose labels are all empty renders no text.
func (p *printer) labelText(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	empty := true
	for _, l := range labels {
		if l != "" {
			empty = false
			break
		}
	}
	if empty {
		return ""
	}

	prefix, trimmed := p.groupByPrefix(labels)
	trimmed, suffix := p.groupBySuffix(trimmed, len(labels))

	parts := make([]string, len(trimmed))
	for i, l := range trimmed {
		if l == "" {
			l = "?"
		}
		parts[i] = l
	}
	joined := strings.Join(parts, ",")

	if prefix != "" || suffix != "" {
		return prefix + "{" + joined + "}" + suffix
	}
	return joined
}

func (p *printer) groupByPrefix(labels []string) (string, []string) {
	if !p.opts.GroupLabelsByPrefix || len(labels) < p.opts.MinGroupSize {
		return "", labels
	}
	prefix := longestCommonPrefix(labels)
	if len(prefix) < p.opts.PrefixMinLength {
		return "", labels
	}
	trimmed := make([]string, len(labels))
	for i, l := range labels {
		trimmed[i] = l[len(prefix):]
	}
	return prefix, trimmed
}

func (p *printer) groupBySuffix(labels []string, rowSize int) ([]string, string) {
	if !p.opts.GroupLabelsBySuffix || rowSize < p.opts.MinGroupSize {
		return labels, ""
	}
	suffix := longestCommonSuffix(labels)
	if len(suffix) < p.opts.SuffixMinLength {
		return labels, ""
	}
	trimmed := make([]string, len(labels))
	for i, l := range labels {
		trimmed[i] = l[:len(l)-len(suffix)]
	}
	return trimmed, suffix
}
