package ascii

import "cmp"

// cursor tracks one rail while it travels from its column in the upper row
// (current) to its column in the lower row (target). Columns are logical:
// node slot i sits at column 2i.
type cursor[N cmp.Ordered] struct {
	node    N
	current int
	target  int
}

func (c cursor[N]) add(delta int) cursor[N] {
	return cursor[N]{node: c.node, current: c.current + delta, target: c.target}
}

// step is one cursor's contribution to the connector line currently being
// drawn: its position after the move and the symbols the move placed.
type step[N cmp.Ordered] struct {
	cursor  cursor[N]
	symbols []placed
}

func (s step[N]) moveCursor(delta int) step[N] {
	return step[N]{cursor: s.cursor.add(delta), symbols: s.symbols}
}

func (s step[N]) addSymbols(symbols ...placed) step[N] {
	merged := make([]placed, 0, len(s.symbols)+len(symbols))
	merged = append(merged, s.symbols...)
	merged = append(merged, symbols...)
	return step[N]{cursor: s.cursor, symbols: merged}
}

func (s step[N]) hasPosition(pos int) bool {
	for _, p := range s.symbols {
		if p.pos == pos {
			return true
		}
	}
	return false
}

// moveCursors starts a connector line: every cursor takes one column step
// toward its target, emitting a diagonal, or holds in place with a '|'.
func moveCursors[N cmp.Ordered](cursors []cursor[N]) []step[N] {
	steps := make([]step[N], 0, len(cursors))

	for _, c := range cursors {
		switch {
		case c.current < c.target:
			// Rail descends to the right.
			steps = append(steps, step[N]{
				cursor:  c.add(2),
				symbols: []placed{{pos: c.current + 1, sym: symbol{kind: kindRight}}},
			})
		case c.current > c.target:
			// Rail descends to the left.
			steps = append(steps, step[N]{
				cursor:  c.add(-2),
				symbols: []placed{{pos: c.current - 1, sym: symbol{kind: kindLeft}}},
			})
		default:
			steps = append(steps, step[N]{
				cursor:  c,
				symbols: []placed{{pos: c.current, sym: symbol{kind: kindHold}}},
			})
		}
	}
	return steps
}

// settleLeft compresses the remaining leftward travel of each cursor into
// the current line wherever the columns it would cross are free, extending
// the diagonal with '_' runs. A cursor blocked by a rail with a different
// target stays put and resumes on the next line. Runs until no cursor can
// move further.
func settleLeft[N cmp.Ordered](steps []step[N]) []step[N] {
	for {
		next, changed := settleLeftOnce(steps)
		if !changed {
			return next
		}
		steps = next
	}
}

func settleLeftOnce[N cmp.Ordered](steps []step[N]) ([]step[N], bool) {
	next := make([]step[N], 0, len(steps))
	changed := false

	for _, s := range steps {
		current := s.cursor.current
		if current <= s.cursor.target {
			next = append(next, s)
			continue
		}

		stepCurr := findStep(steps, current)
		stepLeft := findStep(steps, current-1)

		switch {
		case stepCurr == nil && stepLeft == nil:
			// Both columns are free: slide two columns left, filling
			// the gap with a horizontal run.
			next = append(next, s.moveCursor(-2).addSymbols(
				placed{pos: current - 1, sym: symbol{kind: kindRun}},
				placed{pos: current, sym: symbol{kind: kindRun}},
			))
			changed = true

		case stepCurr == nil:
			if stepLeft.cursor.target != s.cursor.target {
				next = append(next, s)
				continue
			}
			// Merge into the rail one column to the left.
			next = append(next, s.moveCursor(-2).addSymbols(
				placed{pos: current, sym: symbol{kind: kindRun}},
			))
			changed = true

		case stepCurr.cursor.target != s.cursor.target:
			next = append(next, s)

		default:
			// A rail with the same target already owns this column;
			// merge into it without drawing anything.
			next = append(next, s.moveCursor(-2))
			changed = true
		}
	}
	return next, changed
}

// findStep returns the first step with a symbol at the requested position,
// or nil if the position is unoccupied on this line.
func findStep[N cmp.Ordered](steps []step[N], pos int) *step[N] {
	for i := range steps {
		if steps[i].hasPosition(pos) {
			return &steps[i]
		}
	}
	return nil
}
