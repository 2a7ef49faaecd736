package structs

import "strings"

// FoodScore 每吃到一个食物增加的分数
const FoodScore = 10

// Cell 描述游戏地图上的一个格子，坐标为像素单位且对齐到格子大小。
type Cell struct {
	X int `json:"x"` // X坐标
	Y int `json:"y"` // Y坐标
}

// Add returns the component-wise sum of two cells.
func (c Cell) Add(o Cell) Cell {
	return Cell{X: c.X + o.X, Y: c.Y + o.Y}
}

// Direction 描述蛇的移动方向
type Direction int

const (
	DirectionUp Direction = iota + 1
	DirectionDown
	DirectionLeft
	DirectionRight
)

// Delta 返回该方向移动一格的位移向量
func (d Direction) Delta(cellSize int) Cell {
	switch d {
	case DirectionUp:
		return Cell{X: 0, Y: -cellSize}
	case DirectionDown:
		return Cell{X: 0, Y: cellSize}
	case DirectionLeft:
		return Cell{X: -cellSize, Y: 0}
	case DirectionRight:
		return Cell{X: cellSize, Y: 0}
	}
	return Cell{}
}

func (d Direction) Opposite() Direction {
	switch d {
	case DirectionUp:
		return DirectionDown
	case DirectionDown:
		return DirectionUp
	case DirectionLeft:
		return DirectionRight
	case DirectionRight:
		return DirectionLeft
	}
	return d
}

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	}
	return "none"
}

// ParseDirection 解析方向字符串，支持 up/down/left/right、方向键名称和 wasd
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "arrowup", "w":
		return DirectionUp, true
	case "down", "arrowdown", "s":
		return DirectionDown, true
	case "left", "arrowleft", "a":
		return DirectionLeft, true
	case "right", "arrowright", "d":
		return DirectionRight, true
	}
	return 0, false
}

// AdvanceResult 描述蛇前进一格的结果
type AdvanceResult struct {
	NewHead Cell `json:"new_head"`
	AteFood bool `json:"ate_food"`
}

// CollisionResult 碰撞检测结果
type CollisionResult int

const (
	CollisionNone CollisionResult = iota
	CollisionSelf
	CollisionWall
)

func (r CollisionResult) String() string {
	switch r {
	case CollisionSelf:
		return "self"
	case CollisionWall:
		return "wall"
	}
	return "none"
}

// GameState 游戏会话所处的状态
type GameState int

const (
	StateIdle GameState = iota
	StateRunning
	StateGameOver
)

func (s GameState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateGameOver:
		return "gameover"
	}
	return "idle"
}

// Snapshot 描述一局游戏在某一时刻的状态，用于界面展示。
type Snapshot struct {
	State      string `json:"state"`      // 状态 idle/running/gameover
	Snake      []Cell `json:"snake"`      // 蛇身，蛇头在前
	Direction  string `json:"direction"`  // 当前方向
	Food       Cell   `json:"food"`       // 食物位置
	Score      int    `json:"score"`      // 当前分数
	HighScore  int    `json:"high_score"` // 最高分
	Ticks      int64  `json:"ticks"`      // 已执行的刷新次数
	Reason     string `json:"reason"`     // 结束原因 self/wall/field full
	WallPass   bool   `json:"wall_pass"`  // 是否穿墙
	SnakeColor string `json:"snake_color"`
	Width      int    `json:"width"`  // 地图宽度
	Height     int    `json:"height"` // 地图高度
	CellSize   int    `json:"cell_size"`
}

// GameRecord 一局结束后的历史记录
type GameRecord struct {
	ID      int64  `json:"id"`
	Score   int    `json:"score"`
	Length  int    `json:"length"`
	Reason  string `json:"reason"`
	EndedAt int64  `json:"ended_at"` // 时间戳
}
