package ascii

// symbolKind identifies one unit of diagram output. A rendered diagram is a
// list of rows, each row a dense slice of symbols in logical columns: node
// slots sit at even columns, the space between two slots at the odd column
// in between.
type symbolKind int

const (
	kindSpace symbolKind = iota // empty cell
	kindNode                    // a node glyph 'o'
	kindHold                    // straight rail '|'
	kindLeft                    // rail descending left '/'
	kindRight                   // rail descending right '\'
	kindRun                     // horizontal run '_'
	kindCross                   // two rails crossing 'x'
)

// symbol is a single cell of the rendered diagram. Node symbols carry the
// node's display label so the printer can collect row labels in column order.
type symbol struct {
	kind  symbolKind
	label string
}

// placed is a symbol at a logical column, before rows are made dense.
type placed struct {
	pos int
	sym symbol
}

// resolveConflict merges two symbols landing on the same cell of a connector
// line. Nodes always win, space always loses, and opposing diagonals become
// a crossing.
func resolveConflict(a, b symbol) symbol {
	switch {
	case a.kind == kindNode:
		return a
	case b.kind == kindNode:
		return b
	case b.kind == kindSpace:
		return a
	case a.kind == kindSpace:
		return b
	case a.kind == kindLeft && b.kind == kindRight,
		a.kind == kindRight && b.kind == kindLeft:
		return symbol{kind: kindCross}
	case a.kind == kindCross && (b.kind == kindLeft || b.kind == kindRight),
		b.kind == kindCross && (a.kind == kindLeft || a.kind == kindRight):
		return symbol{kind: kindCross}
	}
	return a
}

// mergeRow collapses a sparse symbol list into a dense row. Symbols sharing
// a column are merged in placement order with resolveConflict.
func mergeRow(symbols []placed) []symbol {
	if len(symbols) == 0 {
		return nil
	}

	byPos := make(map[int]symbol)
	maxPos := 0
	for _, p := range symbols {
		if prev, ok := byPos[p.pos]; ok {
			byPos[p.pos] = resolveConflict(prev, p.sym)
		} else {
			byPos[p.pos] = p.sym
		}
		if p.pos > maxPos {
			maxPos = p.pos
		}
	}

	row := make([]symbol, maxPos+1)
	for pos, sym := range byPos {
		row[pos] = sym
	}
	return row
}
