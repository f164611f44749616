package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"spin/internal/driver"
)

func newModel(files ...string) *progressModel {
	return NewProgressModel("check", files, make(chan driver.Event)).(*progressModel)
}

func TestApplyEventTracksStatus(t *testing.T) {
	m := newModel("a.spn", "b.spn")

	m.applyEvent(driver.Event{File: "a.spn", Stage: driver.StageParse, Status: driver.StatusWorking})
	if m.items[0].status != "parsing" || m.items[0].final {
		t.Fatalf("a = %+v", m.items[0])
	}
	if got := m.fraction(); got != 0.25 {
		t.Errorf("fraction = %v, want 0.25", got)
	}

	m.applyEvent(driver.Event{File: "a.spn", Stage: driver.StageParse, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "b.spn", Stage: driver.StageCache, Status: driver.StatusDone})
	if m.items[0].status != "ok" || m.items[1].status != "cached" {
		t.Errorf("statuses = %q, %q", m.items[0].status, m.items[1].status)
	}
	if got := m.fraction(); got != 1 {
		t.Errorf("fraction = %v, want 1", got)
	}

	m.applyEvent(driver.Event{File: "unknown.spn", Status: driver.StatusError})
	m.applyEvent(driver.Event{Stage: driver.StageParse, Status: driver.StatusWorking})
	if m.stageLabel != "parsing" {
		t.Errorf("stageLabel = %q", m.stageLabel)
	}
}

func TestViewListsFiles(t *testing.T) {
	m := newModel("svc/web.spn")
	m.applyEvent(driver.Event{File: "svc/web.spn", Stage: driver.StageLoad, Status: driver.StatusError})
	m.Update(doneMsg{})

	view := m.View()
	if !strings.Contains(view, "done: check") {
		t.Errorf("missing header:\n%s", view)
	}
	if !strings.Contains(view, "svc/web.spn") || !strings.Contains(view, "error") {
		t.Errorf("missing file line:\n%s", view)
	}
	if newModel().View() != "" {
		t.Error("empty model must render nothing")
	}
}

func TestWindowResize(t *testing.T) {
	m := newModel("a.spn")
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if m.width != 40 || m.prog.Width != 36 {
		t.Errorf("width = %d, prog = %d", m.width, m.prog.Width)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.spn", 20, "short.spn"},
		{"services/backend/api.spn", 12, "services/..."},
		{"日本語/ウェブ.spn", 10, "日本語/..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if tt.width > 0 && runewidth.StringWidth(got) > tt.width {
			t.Errorf("truncate(%q, %d) too wide: %q", tt.in, tt.width, got)
		}
	}
}
