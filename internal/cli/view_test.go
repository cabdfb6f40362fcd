package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{}
}

func manyLines(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("o\n")
	}
	return b.String()
}

func TestDiagramModelScroll(t *testing.T) {
	m := newDiagramModel("test", manyLines(50))
	m.height = 10

	updated, _ := m.Update(keyMsg("down"))
	m = updated.(diagramModel)
	if m.offset != 1 {
		t.Errorf("offset after down = %d, want 1", m.offset)
	}

	updated, _ = m.Update(keyMsg("up"))
	m = updated.(diagramModel)
	if m.offset != 0 {
		t.Errorf("offset after up = %d, want 0", m.offset)
	}

	// Scrolling past the top stays at 0.
	updated, _ = m.Update(keyMsg("up"))
	m = updated.(diagramModel)
	if m.offset != 0 {
		t.Errorf("offset should clamp at 0, got %d", m.offset)
	}
}

func TestDiagramModelScrollBounds(t *testing.T) {
	m := newDiagramModel("test", manyLines(15))
	m.height = 10

	updated, _ := m.Update(keyMsg("G"))
	m = updated.(diagramModel)
	if m.offset != 5 {
		t.Errorf("offset after G = %d, want 5", m.offset)
	}

	updated, _ = m.Update(keyMsg("g"))
	m = updated.(diagramModel)
	if m.offset != 0 {
		t.Errorf("offset after g = %d, want 0", m.offset)
	}
}

func TestDiagramModelShortContent(t *testing.T) {
	m := newDiagramModel("test", "o\n|\no\n")
	m.height = 10

	updated, _ := m.Update(keyMsg("down"))
	m = updated.(diagramModel)
	if m.offset != 0 {
		t.Errorf("offset = %d, content shorter than viewport should not scroll", m.offset)
	}
	if m.scrollPercent() != 100 {
		t.Errorf("scrollPercent() = %d, want 100 for short content", m.scrollPercent())
	}
}

func TestDiagramModelQuit(t *testing.T) {
	m := newDiagramModel("test", "o\n")

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should produce a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit the program")
	}
}

func TestDiagramModelResize(t *testing.T) {
	m := newDiagramModel("test", manyLines(50))

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(diagramModel)
	if m.height != 22 {
		t.Errorf("height = %d, want 22 (terminal height minus header and footer)", m.height)
	}
}

func TestDiagramModelView(t *testing.T) {
	m := newDiagramModel("graph.json · 3 nodes · 2 edges", "o\n|\no\n")
	m.height = 5

	view := m.View()
	if !strings.Contains(view, "graph.json") {
		t.Error("view should contain the title")
	}
	if !strings.Contains(view, "o\n|\no") {
		t.Error("view should contain the diagram")
	}
	if !strings.Contains(view, "q to quit") {
		t.Error("view should contain the footer hint")
	}
}
