package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hoshinonyaruko/gridsnake/game"
	"github.com/hoshinonyaruko/gridsnake/render"
	"github.com/hoshinonyaruko/gridsnake/structs"
)

const (
	EventStart    = "start"
	EventScore    = "score"
	EventGameOver = "gameover"
	EventTick     = "tick"

	writeWait = 2 * time.Second
)

// Event 推送给浏览器的消息
type Event struct {
	Type       string            `json:"type"`
	Score      int               `json:"score"`
	FinalScore int               `json:"final_score,omitempty"`
	HighScore  int               `json:"high_score,omitempty"`
	State      *structs.Snapshot `json:"state,omitempty"`
}

// ClientMessage 浏览器发来的消息
type ClientMessage struct {
	Type      string `json:"type"` // direction / start / restart
	Direction string `json:"direction"`
}

// Hub is the browser facing session UI. It renders through the canvas and
// fans game events out to every websocket connection. Calls from the game
// loop only enqueue; delivery happens on the Run goroutine so the loop never
// waits on a slow client. Events are delivered in the order they were
// queued; back to back tick events collapse into one.
type Hub struct {
	*render.Canvas

	upgrader websocket.Upgrader
	frameDir string

	qmu    sync.Mutex
	queue  []Event
	notify chan struct{}

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
	ctrl  *game.Controller
	ctx   context.Context
}

func NewHub(canvas *render.Canvas, frameDir string) *Hub {
	return &Hub{
		Canvas:   canvas,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		notify:   make(chan struct{}, 1),
		frameDir: frameDir,
		conns:    make(map[*websocket.Conn]struct{}),
		ctx:      context.Background(),
	}
}

// Attach sets the controller used for snapshots and for commands arriving
// over websocket. ctx bounds the sessions started from a websocket.
func (h *Hub) Attach(ctx context.Context, ctrl *game.Controller) {
	h.mu.Lock()
	h.ctx = ctx
	h.ctrl = ctrl
	h.mu.Unlock()
}

func (h *Hub) controller() (context.Context, *game.Controller) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ctx, h.ctrl
}

func (h *Hub) ShowStart() {
	h.enqueue(Event{Type: EventStart})
}

func (h *Hub) ShowScore(score int) {
	h.enqueue(Event{Type: EventScore, Score: score})
}

func (h *Hub) ShowGameOver(finalScore, highScore int) {
	h.enqueue(Event{Type: EventGameOver, Score: finalScore, FinalScore: finalScore, HighScore: highScore})
}

// Present publishes the frame and announces the tick.
func (h *Hub) Present() error {
	if err := h.Canvas.Present(); err != nil {
		return err
	}
	h.enqueue(Event{Type: EventTick})
	return nil
}

func (h *Hub) enqueue(ev Event) {
	h.qmu.Lock()
	// 客户端太慢时连续的帧事件合并为一个；状态类事件按顺序保留
	if ev.Type == EventTick && len(h.queue) > 0 && h.queue[len(h.queue)-1].Type == EventTick {
		h.qmu.Unlock()
		return
	}
	h.queue = append(h.queue, ev)
	h.qmu.Unlock()

	select {
	case h.notify <- struct{}{}:
	default:
	}
}

// take removes and returns everything queued so far.
func (h *Hub) take() []Event {
	h.qmu.Lock()
	defer h.qmu.Unlock()
	events := h.queue
	h.queue = nil
	return events
}

// Run delivers queued events until ctx is done.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return nil
		case <-h.notify:
			for _, ev := range h.take() {
				h.deliver(ev)
			}
		}
	}
}

func (h *Hub) deliver(ev Event) {
	_, ctrl := h.controller()
	if ctrl != nil {
		snap := ctrl.Snapshot()
		ev.State = &snap
	}
	if ev.Type == EventGameOver {
		h.saveFinalFrame()
	}
	h.broadcast(ev)
}

func (h *Hub) saveFinalFrame() {
	if h.frameDir == "" {
		return
	}
	fileName := filepath.Join(h.frameDir, "last.png")
	if err := h.SavePNG(fileName, render.FrameOptions{Banner: "GAME OVER"}); err != nil {
		log.Printf("save final frame: %v", err)
	}
}

func (h *Hub) broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("encode event: %v", err)
		return
	}

	// 只有Run协程写连接，写的时候不持锁
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			h.mu.Lock()
			delete(h.conns, conn)
			h.mu.Unlock()
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
}

// Clients returns the number of open websocket connections.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// HandleWS 升级为websocket连接，推送状态并接收方向
func (h *Hub) HandleWS() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("upgrade error: %v", err)
			return
		}

		h.mu.Lock()
		h.conns[conn] = struct{}{}
		h.mu.Unlock()
		log.Printf("websocket client connected, %d online", h.Clients())
		h.enqueue(Event{Type: EventTick})

		go h.readLoop(conn)
	}
}

func (h *Hub) readLoop(conn *websocket.Conn) {
	defer func() {
		h.mu.Lock()
		delete(h.conns, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		h.handleClientMessage(msg)
	}
}

func (h *Hub) handleClientMessage(msg ClientMessage) {
	ctx, ctrl := h.controller()
	if ctrl == nil {
		return
	}
	switch msg.Type {
	case "direction":
		if d, ok := structs.ParseDirection(msg.Direction); ok {
			ctrl.OnDirectionRequested(d)
		}
	case "start":
		if err := ctrl.Start(ctx); err != nil {
			log.Printf("start from websocket: %v", err)
		}
	case "restart":
		if err := ctrl.Restart(ctx); err != nil {
			log.Printf("restart from websocket: %v", err)
		}
	}
}
