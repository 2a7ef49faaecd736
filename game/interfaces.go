package game

import (
	"time"

	"github.com/hoshinonyaruko/gridsnake/structs"
)

// Renderer draws one frame. Present is called once all cells are drawn.
type Renderer interface {
	Clear()
	DrawCell(cell structs.Cell, color string)
	DrawFood(cell structs.Cell)
	Present() error
}

// ConfigSource is polled by the loop; values may change between ticks.
type ConfigSource interface {
	WallPassEnabled() bool
	SnakeColor() string
	TickInterval() time.Duration
}

type PersistentStore interface {
	GetHighScore() (int, error)
	SetHighScore(score int) error
}

// HistoryRecorder is implemented by stores that keep finished games.
type HistoryRecorder interface {
	RecordGame(rec structs.GameRecord) error
}

// NotificationSink receives fire-and-forget side effects such as sounds.
type NotificationSink interface {
	OnFoodEaten()
	OnGameOver()
}

type SessionUI interface {
	ShowStart()
	ShowGameOver(finalScore, highScore int)
	ShowScore(score int)
}

type nopRenderer struct{}

func (nopRenderer) Clear()                        {}
func (nopRenderer) DrawCell(structs.Cell, string) {}
func (nopRenderer) DrawFood(structs.Cell)         {}
func (nopRenderer) Present() error                { return nil }

type nopStore struct{}

func (nopStore) GetHighScore() (int, error) { return 0, nil }
func (nopStore) SetHighScore(int) error     { return nil }

type nopSink struct{}

func (nopSink) OnFoodEaten() {}
func (nopSink) OnGameOver()  {}

type nopUI struct{}

func (nopUI) ShowStart()            {}
func (nopUI) ShowGameOver(int, int) {}
func (nopUI) ShowScore(int)         {}

type staticConfig struct{}

func (staticConfig) WallPassEnabled() bool       { return false }
func (staticConfig) SnakeColor() string          { return "#4caf50" }
func (staticConfig) TickInterval() time.Duration { return 100 * time.Millisecond }
