package snake

import (
	"errors"
	"math/rand"

	"github.com/hoshinonyaruko/gridsnake/grid"
	"github.com/hoshinonyaruko/gridsnake/structs"
)

// ErrFieldFull 地图上已经没有空闲格子
var ErrFieldFull = errors.New("snake: no free cell for food")

// Spawner 在地图上随机挑选一个空闲格子放置食物
type Spawner struct {
	grid grid.Grid
	rng  *rand.Rand
}

func NewSpawner(g grid.Grid, rng *rand.Rand) *Spawner {
	return &Spawner{grid: g, rng: rng}
}

// Spawn returns a uniformly random cell not in occupied. Random draws are
// bounded; past the bound the field is scanned in order for a free cell.
func (sp *Spawner) Spawn(occupied map[structs.Cell]struct{}) (structs.Cell, error) {
	cols, rows := sp.grid.Columns(), sp.grid.Rows()
	maxAttempts := 4 * cols * rows

	for i := 0; i < maxAttempts; i++ {
		c := sp.grid.CellAt(sp.rng.Intn(cols), sp.rng.Intn(rows))
		if _, taken := occupied[c]; !taken {
			return c, nil
		}
	}

	// 随机重试次数用完，按顺序扫描
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			c := sp.grid.CellAt(col, row)
			if _, taken := occupied[c]; !taken {
				return c, nil
			}
		}
	}
	return structs.Cell{}, ErrFieldFull
}
