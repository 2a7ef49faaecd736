// Package game drives a single snake session: it owns the session state,
// the repeating tick timer and the calls out to the presentation layer.
package game

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/hoshinonyaruko/gridsnake/grid"
	"github.com/hoshinonyaruko/gridsnake/snake"
	"github.com/hoshinonyaruko/gridsnake/structs"
)

var (
	ErrAlreadyRunning = errors.New("game: session already running")
	ErrNotRunning     = errors.New("game: session not running")
)

const (
	reasonFieldFull = "field full"

	// used when the config source reports a non-positive interval
	defaultTickInterval = 100 * time.Millisecond
)

// GameSession is the mutable state of one game. It is only touched while
// the controller lock is held.
type GameSession struct {
	State     structs.GameState
	Snake     *snake.Snake
	Food      structs.Cell
	Score     int
	HighScore int
	Ticks     int64
	Reason    string
}

// Options wires the collaborators. Nil collaborators are replaced by no-ops.
type Options struct {
	Grid     grid.Grid
	Config   ConfigSource
	Renderer Renderer
	Store    PersistentStore
	Notify   NotificationSink
	UI       SessionUI
	Rand     *rand.Rand
}

// Outcome describes what a single tick did.
type Outcome struct {
	Advance   structs.AdvanceResult
	Collision structs.CollisionResult
	State     structs.GameState
}

type Controller struct {
	grid     grid.Grid
	cfg      ConfigSource
	renderer Renderer
	store    PersistentStore
	notify   NotificationSink
	ui       SessionUI
	spawner  *snake.Spawner

	mu      sync.Mutex
	session GameSession
	stop    chan struct{} // closed when the running session ends
	done    chan struct{} // closed when the loop goroutine exits
	retime  chan struct{} // asks the loop to re-read the tick interval
}

// New builds an idle controller and reads the stored high score.
func New(opts Options) *Controller {
	if opts.Grid.CellSize == 0 {
		opts.Grid = grid.Default()
	}
	if opts.Config == nil {
		opts.Config = staticConfig{}
	}
	if opts.Renderer == nil {
		opts.Renderer = nopRenderer{}
	}
	if opts.Store == nil {
		opts.Store = nopStore{}
	}
	if opts.Notify == nil {
		opts.Notify = nopSink{}
	}
	if opts.UI == nil {
		opts.UI = nopUI{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	c := &Controller{
		grid:     opts.Grid,
		cfg:      opts.Config,
		renderer: opts.Renderer,
		store:    opts.Store,
		notify:   opts.Notify,
		ui:       opts.UI,
		spawner:  snake.NewSpawner(opts.Grid, opts.Rand),
	}

	high, err := c.store.GetHighScore()
	if err != nil {
		log.Printf("load high score: %v", err)
		high = 0
	}
	c.session = GameSession{State: structs.StateIdle, HighScore: high}
	c.ui.ShowStart()
	return c
}

// Start resets the session and launches the tick loop. The loop runs until
// the session ends or ctx is cancelled.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.State == structs.StateRunning {
		return ErrAlreadyRunning
	}
	if err := c.resetLocked(); err != nil {
		return err
	}

	interval := c.tickInterval()
	ticker := time.NewTicker(interval)
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	c.retime = make(chan struct{}, 1)
	go c.loop(ctx, ticker, interval, c.stop, c.done, c.retime)

	log.Printf("game started, interval %v", interval)
	return nil
}

// Restart begins a new session after game over.
func (c *Controller) Restart(ctx context.Context) error {
	return c.Start(ctx)
}

// Wait blocks until the current loop goroutine has exited.
func (c *Controller) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

// ConfigChanged makes the running loop pick up a new tick interval right
// away instead of after the next tick.
func (c *Controller) ConfigChanged() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.retime == nil {
		return
	}
	select {
	case c.retime <- struct{}{}:
	default:
	}
}

// tickInterval reads the configured interval, falling back to the default
// when it is not positive.
func (c *Controller) tickInterval() time.Duration {
	if d := c.cfg.TickInterval(); d > 0 {
		return d
	}
	return defaultTickInterval
}

func (c *Controller) loop(ctx context.Context, ticker *time.Ticker, interval time.Duration, stop, done, retime chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.abort(stop)
			return
		case <-stop:
			return
		case <-retime:
		case <-ticker.C:
			if _, err := c.tickSession(stop); err != nil {
				return
			}
		}
		// the interval may change between ticks
		if next := c.tickInterval(); next != interval {
			ticker.Reset(next)
			interval = next
		}
	}
}

// abort drops a session whose loop was cancelled from outside.
func (c *Controller) abort(stop chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop == stop && c.session.State == structs.StateRunning {
		c.session.State = structs.StateIdle
		close(c.stop)
		c.stop = nil
	}
}

// Tick runs one simulation step.
func (c *Controller) Tick() (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tickLocked()
}

// tickSession ticks only if stop still belongs to the running session, so a
// loop left over from an ended session never drives its successor.
func (c *Controller) tickSession(stop chan struct{}) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != stop {
		return Outcome{State: c.session.State}, ErrNotRunning
	}
	return c.tickLocked()
}

func (c *Controller) tickLocked() (Outcome, error) {
	if c.session.State != structs.StateRunning {
		return Outcome{State: c.session.State}, ErrNotRunning
	}

	s := &c.session
	wallPass := c.cfg.WallPassEnabled()
	res := s.Snake.Advance(s.Food, wallPass)
	s.Ticks++

	out := Outcome{Advance: res}
	if col := snake.CheckCollision(c.grid, s.Snake, wallPass); col != structs.CollisionNone {
		out.Collision = col
		c.endLocked(col.String())
		out.State = s.State
		return out, nil
	}

	if res.AteFood {
		s.Score += structs.FoodScore
		c.notify.OnFoodEaten()
		c.ui.ShowScore(s.Score)

		food, err := c.spawner.Spawn(s.Snake.Occupied())
		if err != nil {
			log.Printf("spawn food: %v", err)
			c.endLocked(reasonFieldFull)
			out.State = s.State
			return out, nil
		}
		s.Food = food
	}

	c.renderLocked()
	out.State = s.State
	return out, nil
}

// OnDirectionRequested queues a direction for the next tick. A reverse of
// the current direction is ignored.
func (c *Controller) OnDirectionRequested(d structs.Direction) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Snake == nil {
		return false
	}
	return c.session.Snake.SetDirection(d)
}

func (c *Controller) State() structs.GameState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.State
}

// Snapshot returns a copy of the session for display.
func (c *Controller) Snapshot() structs.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	snap := structs.Snapshot{
		State:      s.State.String(),
		Food:       s.Food,
		Score:      s.Score,
		HighScore:  s.HighScore,
		Ticks:      s.Ticks,
		Reason:     s.Reason,
		WallPass:   c.cfg.WallPassEnabled(),
		SnakeColor: c.cfg.SnakeColor(),
		Width:      c.grid.Width,
		Height:     c.grid.Height,
		CellSize:   c.grid.CellSize,
	}
	if s.Snake != nil {
		snap.Snake = s.Snake.Body()
		snap.Direction = s.Snake.Direction().String()
	}
	return snap
}

func (c *Controller) resetLocked() error {
	sn := snake.NewDefault(c.grid)
	food, err := c.spawner.Spawn(sn.Occupied())
	if err != nil {
		return err
	}
	c.session = GameSession{
		State:     structs.StateRunning,
		Snake:     sn,
		Food:      food,
		HighScore: c.session.HighScore,
	}
	c.ui.ShowScore(0)
	c.renderLocked()
	return nil
}

// endLocked finalizes the session. Rendering is frozen on the last frame.
func (c *Controller) endLocked(reason string) {
	s := &c.session
	s.State = structs.StateGameOver
	s.Reason = reason

	if s.Score > s.HighScore {
		s.HighScore = s.Score
		if err := c.store.SetHighScore(s.HighScore); err != nil {
			log.Printf("save high score: %v", err)
		}
	}
	if rec, ok := c.store.(HistoryRecorder); ok {
		err := rec.RecordGame(structs.GameRecord{
			Score:   s.Score,
			Length:  s.Snake.Len(),
			Reason:  reason,
			EndedAt: time.Now().Unix(),
		})
		if err != nil {
			log.Printf("record game: %v", err)
		}
	}

	c.notify.OnGameOver()
	c.ui.ShowGameOver(s.Score, s.HighScore)
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	log.Printf("game over (%s), score %d, high score %d", reason, s.Score, s.HighScore)
}

func (c *Controller) renderLocked() {
	color := c.cfg.SnakeColor()
	c.renderer.Clear()
	for _, cell := range c.session.Snake.Body() {
		c.renderer.DrawCell(cell, color)
	}
	c.renderer.DrawFood(c.session.Food)
	if err := c.renderer.Present(); err != nil {
		log.Printf("render frame: %v", err)
	}
}
