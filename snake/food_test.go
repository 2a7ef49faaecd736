package snake

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/hoshinonyaruko/gridsnake/grid"
	"github.com/hoshinonyaruko/gridsnake/structs"
)

func TestSpawnNeverOnSnake(t *testing.T) {
	g := grid.Default()
	sp := NewSpawner(g, rand.New(rand.NewSource(1)))
	s := NewDefault(g)
	occ := s.Occupied()

	for i := 0; i < 2000; i++ {
		c, err := sp.Spawn(occ)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if _, taken := occ[c]; taken {
			t.Fatalf("Spawned on occupied cell %v", c)
		}
		if !g.InBounds(c) || c.X%g.CellSize != 0 || c.Y%g.CellSize != 0 {
			t.Fatalf("Spawned off grid cell %v", c)
		}
	}
}

func TestSpawnFindsLastFreeCell(t *testing.T) {
	g := grid.New(20, 100, 100)
	sp := NewSpawner(g, rand.New(rand.NewSource(7)))
	free := g.CellAt(3, 2)

	occ := make(map[structs.Cell]struct{})
	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Columns(); col++ {
			if c := g.CellAt(col, row); c != free {
				occ[c] = struct{}{}
			}
		}
	}

	c, err := sp.Spawn(occ)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if c != free {
		t.Errorf("Expected %v, got %v", free, c)
	}
}

func TestSpawnFieldFull(t *testing.T) {
	g := grid.New(20, 40, 40)
	sp := NewSpawner(g, rand.New(rand.NewSource(3)))
	occ := map[structs.Cell]struct{}{
		{X: 0, Y: 0}: {}, {X: 20, Y: 0}: {}, {X: 0, Y: 20}: {}, {X: 20, Y: 20}: {},
	}
	if _, err := sp.Spawn(occ); !errors.Is(err, ErrFieldFull) {
		t.Errorf("Expected ErrFieldFull, got %v", err)
	}
}
