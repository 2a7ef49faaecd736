package terminal

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/gridsnake/game"
	"github.com/hoshinonyaruko/gridsnake/grid"
	"github.com/hoshinonyaruko/gridsnake/structs"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(80, 30)
	t.Cleanup(screen.Fini)
	return screen
}

type slowConfig struct{}

func (slowConfig) WallPassEnabled() bool       { return false }
func (slowConfig) SnakeColor() string          { return "#00ff00" }
func (slowConfig) TickInterval() time.Duration { return time.Hour }

func TestDrawCellPosition(t *testing.T) {
	screen := newScreen(t)
	term := New(screen, grid.Default())

	term.Clear()
	term.DrawCell(structs.Cell{X: 40, Y: 60}, "#00ff00")
	term.Present()

	// column 2, row 3 inside the border
	_, _, style, _ := screen.GetContent(1+2*cellCols, 1+3)
	_, bg, _ := style.Decompose()
	if bg != tcell.GetColor("#00ff00") {
		t.Errorf("Expected green background, got %v", bg)
	}

	mainc, _, _, _ := screen.GetContent(0, 0)
	if mainc != '┌' {
		t.Errorf("Expected border corner, got %q", mainc)
	}
}

func TestDrawFood(t *testing.T) {
	screen := newScreen(t)
	term := New(screen, grid.Default())
	term.Clear()
	term.DrawFood(structs.Cell{X: 0, Y: 0})
	term.Present()

	mainc, _, _, _ := screen.GetContent(1, 1)
	if mainc != '●' {
		t.Errorf("Expected food glyph, got %q", mainc)
	}
}

func TestOutOfBoundsCellIgnored(t *testing.T) {
	screen := newScreen(t)
	term := New(screen, grid.Default())
	term.Clear()
	term.DrawCell(structs.Cell{X: 400, Y: 0}, "#00ff00")
	term.Present()

	mainc, _, _, _ := screen.GetContent(1+20*cellCols, 1)
	if mainc != '│' {
		t.Errorf("Expected right border untouched, got %q", mainc)
	}
}

func TestKeyDirection(t *testing.T) {
	cases := []struct {
		ev   *tcell.EventKey
		want structs.Direction
	}{
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), structs.DirectionUp},
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), structs.DirectionLeft},
		{tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone), structs.DirectionDown},
		{tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone), structs.DirectionRight},
	}
	for _, tc := range cases {
		got, ok := KeyDirection(tc.ev)
		if !ok || got != tc.want {
			t.Errorf("Expected %v, got %v (%v)", tc.want, got, ok)
		}
	}
	if _, ok := KeyDirection(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)); ok {
		t.Error("Expected x to map to nothing")
	}
}

func TestHandleKeyStartsAndSteers(t *testing.T) {
	screen := newScreen(t)
	term := New(screen, grid.Default())
	ctrl := game.New(game.Options{Config: slowConfig{}, Renderer: term, UI: term})

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		ctrl.Wait()
	}()

	if HandleKey(ctx, ctrl, tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)) {
		t.Fatal("Enter must not quit")
	}
	if ctrl.State() != structs.StateRunning {
		t.Fatalf("Expected running after Enter, got %v", ctrl.State())
	}

	HandleKey(ctx, ctrl, tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
	out, err := ctrl.Tick()
	if err != nil {
		t.Fatal(err)
	}
	if out.Advance.NewHead != (structs.Cell{X: 160, Y: 140}) {
		t.Errorf("Expected head (160,140), got %v", out.Advance.NewHead)
	}

	if !HandleKey(ctx, ctrl, tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("Expected q to quit")
	}
}
