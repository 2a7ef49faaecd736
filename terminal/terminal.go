// Package terminal plays the game in a text terminal: it renders the field
// with tcell and turns key presses into game input.
package terminal

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/gridsnake/game"
	"github.com/hoshinonyaruko/gridsnake/grid"
	"github.com/hoshinonyaruko/gridsnake/structs"
)

// each cell is two columns wide so the field looks square
const cellCols = 2

var (
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	foodStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	alertStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorMaroon).Bold(true)
)

// Terminal implements the renderer and the session UI on a tcell screen.
type Terminal struct {
	screen tcell.Screen
	grid   grid.Grid

	mu     sync.Mutex
	score  int
	status string
	alert  bool
}

func New(screen tcell.Screen, g grid.Grid) *Terminal {
	return &Terminal{screen: screen, grid: g}
}

func (t *Terminal) Clear() {
	t.screen.Clear()
	t.drawBorder()
}

func (t *Terminal) DrawCell(cell structs.Cell, color string) {
	st := tcell.StyleDefault.Background(tcell.GetColor(color))
	t.fillCell(cell, ' ', st)
}

func (t *Terminal) DrawFood(cell structs.Cell) {
	t.fillCell(cell, '●', foodStyle)
}

func (t *Terminal) Present() error {
	t.drawStatus()
	t.screen.Show()
	return nil
}

func (t *Terminal) ShowStart() {
	t.setStatus("Enter: start   arrows/wasd: steer   q: quit", false)
}

func (t *Terminal) ShowScore(score int) {
	t.mu.Lock()
	t.score = score
	t.mu.Unlock()
}

func (t *Terminal) ShowGameOver(finalScore, highScore int) {
	t.setStatus(fmt.Sprintf("GAME OVER  score %d  high score %d  Enter: restart", finalScore, highScore), true)
}

func (t *Terminal) setStatus(s string, alert bool) {
	t.mu.Lock()
	t.status = s
	t.alert = alert
	t.mu.Unlock()
	t.drawStatus()
	t.screen.Show()
}

// screen position of the top left corner of a cell, inside the border
func (t *Terminal) cellOrigin(cell structs.Cell) (int, int) {
	return 1 + cell.X/t.grid.CellSize*cellCols, 1 + cell.Y/t.grid.CellSize
}

func (t *Terminal) fillCell(cell structs.Cell, r rune, st tcell.Style) {
	if !t.grid.InBounds(cell) {
		return
	}
	x, y := t.cellOrigin(cell)
	t.screen.SetContent(x, y, r, nil, st)
	t.screen.SetContent(x+1, y, ' ', nil, st)
}

func (t *Terminal) drawBorder() {
	w := t.grid.Columns()*cellCols + 2
	h := t.grid.Rows() + 2
	for x := 0; x < w; x++ {
		t.screen.SetContent(x, 0, '─', nil, borderStyle)
		t.screen.SetContent(x, h-1, '─', nil, borderStyle)
	}
	for y := 0; y < h; y++ {
		t.screen.SetContent(0, y, '│', nil, borderStyle)
		t.screen.SetContent(w-1, y, '│', nil, borderStyle)
	}
	t.screen.SetContent(0, 0, '┌', nil, borderStyle)
	t.screen.SetContent(w-1, 0, '┐', nil, borderStyle)
	t.screen.SetContent(0, h-1, '└', nil, borderStyle)
	t.screen.SetContent(w-1, h-1, '┘', nil, borderStyle)
}

func (t *Terminal) drawStatus() {
	t.mu.Lock()
	line := fmt.Sprintf("Score: %d", t.score)
	status, alert := t.status, t.alert
	t.mu.Unlock()

	y := t.grid.Rows() + 2
	clearLine(t.screen, y)
	clearLine(t.screen, y+1)
	drawText(t.screen, 0, y, line, textStyle)
	st := textStyle
	if alert {
		st = alertStyle
	}
	drawText(t.screen, 0, y+1, status, st)
}

func clearLine(s tcell.Screen, y int) {
	w, _ := s.Size()
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, tcell.StyleDefault)
	}
}

func drawText(s tcell.Screen, x, y int, text string, st tcell.Style) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, st)
	}
}

// KeyDirection maps arrow keys and wasd to a direction.
func KeyDirection(ev *tcell.EventKey) (structs.Direction, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return structs.DirectionUp, true
	case tcell.KeyDown:
		return structs.DirectionDown, true
	case tcell.KeyLeft:
		return structs.DirectionLeft, true
	case tcell.KeyRight:
		return structs.DirectionRight, true
	case tcell.KeyRune:
		return structs.ParseDirection(string(ev.Rune()))
	}
	return 0, false
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

func isStart(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyEnter || (ev.Key() == tcell.KeyRune && ev.Rune() == ' ')
}

// HandleKey applies one key press. It reports whether the player asked to
// quit.
func HandleKey(ctx context.Context, ctrl *game.Controller, ev *tcell.EventKey) bool {
	if isQuit(ev) {
		return true
	}
	if isStart(ev) {
		var err error
		switch ctrl.State() {
		case structs.StateIdle:
			err = ctrl.Start(ctx)
		case structs.StateGameOver:
			err = ctrl.Restart(ctx)
		}
		if err != nil {
			log.Printf("start from terminal: %v", err)
		}
		return false
	}
	if d, ok := KeyDirection(ev); ok {
		ctrl.OnDirectionRequested(d)
	}
	return false
}

// Run reads terminal events until the player quits or ctx is done.
func (t *Terminal) Run(ctx context.Context, ctrl *game.Controller) error {
	events := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch e := ev.(type) {
			case *tcell.EventResize:
				t.screen.Sync()
			case *tcell.EventKey:
				if HandleKey(ctx, ctrl, e) {
					return nil
				}
			}
		}
	}
}
