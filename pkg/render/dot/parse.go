// Package dot reads and writes a practical subset of the Graphviz DOT
// language, bridging DOT digraph files and the renderable graph model.
//
// The reader understands directed graphs with node statements (optionally
// carrying a label attribute), edge statements including chains
// (a -> b -> c), quoted and bare identifiers, and comments. Subgraphs,
// ports, and undirected graphs are not supported.
package dot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/matzehuels/dagscii/pkg/dag"
)

// ErrMalformedDOT is returned by [Parse] when the input is not a DOT
// digraph the reader understands.
var ErrMalformedDOT = errors.New("malformed DOT input")

const idPattern = `"(?:[^"\\]|\\.)*"|[A-Za-z_][A-Za-z0-9_.]*|[0-9.]+`

var (
	digraphRe   = regexp.MustCompile(`^(?:strict\s+)?digraph\b`)
	graphRe     = regexp.MustCompile(`^(?:strict\s+)?graph\b`)
	defaultsRe  = regexp.MustCompile(`^(?:graph|node|edge)\s*\[`)
	assignRe    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*\s*=`)
	edgeStmtRe  = regexp.MustCompile(`^(?:` + idPattern + `)(?:\s*->\s*(?:` + idPattern + `))+\s*(?:\[[^\]]*\])?$`)
	edgeIDRe    = regexp.MustCompile(`(` + idPattern + `)\s*->`)
	lastIDRe    = regexp.MustCompile(`->\s*(` + idPattern + `)`)
	nodeStmtRe  = regexp.MustCompile(`^(` + idPattern + `)\s*(?:\[([^\]]*)\])?$`)
	labelAttrRe = regexp.MustCompile(`\blabel\s*=\s*("(?:[^"\\]|\\.)*"|[A-Za-z0-9_.]+)`)
)

// Parse reads a DOT digraph and builds a validated graph from it.
//
// Node labels come from the label attribute when present, otherwise the
// node renders with its identifier as the label. Nodes appearing only in
// edge statements are declared implicitly. Graph-level attributes and
// graph/node/edge default statements are ignored.
//
// Parse returns ErrMalformedDOT for input the reader does not understand,
// and passes through the graph validation errors (dag.ErrSelfLoop,
// dag.ErrCycleDetected) for well-formed DOT describing an invalid graph.
func Parse(r io.Reader) (*dag.Graph[string], error) {
	stmts, err := splitStatements(r)
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]string)
	edges := make(map[string][]string)
	sawHeader := false

	declare := func(id string) {
		if _, ok := nodes[id]; !ok {
			nodes[id] = id
		}
	}

	for _, stmt := range stmts {
		switch {
		case digraphRe.MatchString(stmt):
			sawHeader = true

		case graphRe.MatchString(stmt):
			return nil, fmt.Errorf("%w: undirected graphs are not supported", ErrMalformedDOT)

		case defaultsRe.MatchString(stmt), assignRe.MatchString(stmt):
			// Default attribute statements (node [shape=box]) and
			// graph attributes (rankdir=TB) carry no structure.

		case edgeStmtRe.MatchString(stmt):
			ids := edgeChain(stmt)
			for i := 0; i+1 < len(ids); i++ {
				from, to := ids[i], ids[i+1]
				declare(from)
				declare(to)
				edges[from] = append(edges[from], to)
			}

		default:
			m := nodeStmtRe.FindStringSubmatch(stmt)
			if m == nil {
				return nil, fmt.Errorf("%w: %q", ErrMalformedDOT, stmt)
			}
			id := unquote(m[1])
			label := id
			if lm := labelAttrRe.FindStringSubmatch(m[2]); lm != nil {
				label = unquote(lm[1])
			}
			nodes[id] = label
		}
	}

	if !sawHeader {
		return nil, fmt.Errorf("%w: missing digraph header", ErrMalformedDOT)
	}
	return dag.New(nodes, edges)
}

// ParseFile reads a DOT digraph from a file.
func ParseFile(path string) (*dag.Graph[string], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// splitStatements strips comments and cuts the input into statements at
// semicolons, braces, and line breaks.
func splitStatements(r io.Reader) ([]string, error) {
	var stmts []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := stripComment(scanner.Text())
		start := 0
		for i := 0; i <= len(line); i++ {
			if i < len(line) && line[i] != ';' && line[i] != '{' && line[i] != '}' {
				continue
			}
			if stmt := strings.TrimSpace(line[start:i]); stmt != "" {
				stmts = append(stmts, stmt)
			}
			start = i + 1
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return stmts, nil
}

// edgeChain extracts the identifiers of an edge statement in order,
// so "a -> b -> c" yields [a b c].
func edgeChain(stmt string) []string {
	var ids []string
	for _, m := range edgeIDRe.FindAllStringSubmatch(stmt, -1) {
		ids = append(ids, unquote(m[1]))
	}
	if m := lastIDRe.FindAllStringSubmatch(stmt, -1); len(m) > 0 {
		ids = append(ids, unquote(m[len(m)-1][1]))
	}
	return ids
}

// stripComment removes a trailing // or # comment. Comment markers inside
// quoted identifiers or labels are kept.
func stripComment(line string) string {
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			if inQuote {
				i++ // skip the escaped character
			}
		case '"':
			inQuote = !inQuote
		case '#':
			if !inQuote {
				return line[:i]
			}
		case '/':
			if !inQuote && i+1 < len(line) && line[i+1] == '/' {
				return line[:i]
			}
		}
	}
	return line
}

func unquote(id string) string {
	if len(id) >= 2 && id[0] == '"' && id[len(id)-1] == '"' {
		body := id[1 : len(id)-1]
		body = strings.ReplaceAll(body, `\"`, `"`)
		body = strings.ReplaceAll(body, `\\`, `\`)
		return body
	}
	return id
}
