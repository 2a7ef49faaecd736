package snake

import (
	"github.com/hoshinonyaruko/gridsnake/grid"
	"github.com/hoshinonyaruko/gridsnake/structs"
)

// SelfCollisionStart is the first body index compared against the head.
// The three segments right behind the head cannot overlap it after a turn.
const SelfCollisionStart = 4

// CheckCollision 检测蛇头是否咬到自己或者撞墙。穿墙模式下不检测撞墙
func CheckCollision(g grid.Grid, s *Snake, wallPass bool) structs.CollisionResult {
	head := s.body[0]
	for i := SelfCollisionStart; i < len(s.body); i++ {
		if s.body[i] == head {
			return structs.CollisionSelf
		}
	}

	if !wallPass && !g.InBounds(head) {
		return structs.CollisionWall
	}
	return structs.CollisionNone
}
