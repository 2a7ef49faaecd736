// 关于蛇的移动和转向
package snake

import (
	"github.com/hoshinonyaruko/gridsnake/grid"
	"github.com/hoshinonyaruko/gridsnake/structs"
)

// Snake 蛇身是一组格子，下标0为蛇头。
type Snake struct {
	grid      grid.Grid
	body      []structs.Cell
	direction structs.Direction // 上一次前进时使用的方向
	pending   structs.Direction // 下一次前进时使用的方向
}

// New 创建一条蛇，body 蛇头在前，不能为空
func New(g grid.Grid, body []structs.Cell, dir structs.Direction) *Snake {
	if len(body) == 0 {
		panic("snake: empty body")
	}
	b := make([]structs.Cell, len(body))
	copy(b, body)
	return &Snake{grid: g, body: b, direction: dir, pending: dir}
}

// NewDefault 创建开局时的四格蛇，蛇头在 (8,8) 格，向右移动
func NewDefault(g grid.Grid) *Snake {
	body := make([]structs.Cell, 0, 4)
	for i := 0; i < 4; i++ {
		body = append(body, g.CellAt(8-i, 8))
	}
	return New(g, body, structs.DirectionRight)
}

// SetDirection 设置下一次前进的方向。与当前方向正好相反时忽略，返回false
func (s *Snake) SetDirection(d structs.Direction) bool {
	if d.Delta(s.grid.CellSize) == (structs.Cell{}) {
		return false
	}
	if len(s.body) > 1 && d == s.direction.Opposite() {
		return false
	}
	s.pending = d
	return true
}

// Advance 蛇前进一格。新蛇头插入到最前面，吃到食物时不删除尾部，蛇身增长一格
func (s *Snake) Advance(food structs.Cell, wallPass bool) structs.AdvanceResult {
	s.direction = s.pending
	head := s.body[0].Add(s.direction.Delta(s.grid.CellSize))
	if wallPass {
		head = s.grid.Wrap(head)
	}

	s.body = append(s.body, structs.Cell{})
	copy(s.body[1:], s.body[:len(s.body)-1])
	s.body[0] = head

	ate := head == food
	if !ate {
		s.body = s.body[:len(s.body)-1]
	}
	return structs.AdvanceResult{NewHead: head, AteFood: ate}
}

func (s *Snake) Head() structs.Cell {
	return s.body[0]
}

func (s *Snake) Len() int {
	return len(s.body)
}

// Body 返回蛇身的副本
func (s *Snake) Body() []structs.Cell {
	b := make([]structs.Cell, len(s.body))
	copy(b, s.body)
	return b
}

// Direction 返回上一次前进使用的方向
func (s *Snake) Direction() structs.Direction {
	return s.direction
}

// Pending 返回下一次前进将使用的方向
func (s *Snake) Pending() structs.Direction {
	return s.pending
}

func (s *Snake) Contains(c structs.Cell) bool {
	for _, p := range s.body {
		if p == c {
			return true
		}
	}
	return false
}

// Occupied 返回蛇身占用的格子集合
func (s *Snake) Occupied() map[structs.Cell]struct{} {
	set := make(map[structs.Cell]struct{}, len(s.body))
	for _, p := range s.body {
		set[p] = struct{}{}
	}
	return set
}
