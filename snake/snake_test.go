package snake

import (
	"testing"

	"github.com/hoshinonyaruko/gridsnake/grid"
	"github.com/hoshinonyaruko/gridsnake/structs"
)

// far away from every test snake
var noFood = structs.Cell{X: -1000, Y: -1000}

func cells(xy ...int) []structs.Cell {
	out := make([]structs.Cell, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, structs.Cell{X: xy[i], Y: xy[i+1]})
	}
	return out
}

func TestNewDefault(t *testing.T) {
	s := NewDefault(grid.Default())
	want := cells(160, 160, 140, 160, 120, 160, 100, 160)
	got := s.Body()
	if len(got) != len(want) {
		t.Fatalf("Expected %d segments, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Segment %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if s.Direction() != structs.DirectionRight {
		t.Errorf("Expected direction right, got %v", s.Direction())
	}
}

func TestAdvanceMovesWithoutGrowing(t *testing.T) {
	s := NewDefault(grid.Default())
	before := s.Len()

	res := s.Advance(noFood, false)

	if res.AteFood {
		t.Error("Expected no food eaten")
	}
	if res.NewHead != (structs.Cell{X: 180, Y: 160}) {
		t.Errorf("Expected new head (180,160), got %v", res.NewHead)
	}
	if s.Len() != before {
		t.Errorf("Expected length %d, got %d", before, s.Len())
	}
	if s.Contains(structs.Cell{X: 100, Y: 160}) {
		t.Error("Expected tail (100,160) to be removed")
	}
}

func TestAdvanceGrowsOnFood(t *testing.T) {
	s := NewDefault(grid.Default())
	food := structs.Cell{X: 180, Y: 160}

	res := s.Advance(food, false)

	if !res.AteFood {
		t.Fatal("Expected food eaten")
	}
	if s.Len() != 5 {
		t.Errorf("Expected length 5, got %d", s.Len())
	}
	body := s.Body()
	if body[0] != food || body[4] != (structs.Cell{X: 100, Y: 160}) {
		t.Errorf("Unexpected body after growth: %v", body)
	}
}

func TestSetDirectionRejectsReverse(t *testing.T) {
	s := NewDefault(grid.Default())

	if s.SetDirection(structs.DirectionLeft) {
		t.Error("Expected reverse direction to be rejected")
	}
	if s.Pending() != structs.DirectionRight {
		t.Errorf("Expected pending right, got %v", s.Pending())
	}

	if !s.SetDirection(structs.DirectionUp) {
		t.Error("Expected perpendicular direction to be accepted")
	}
	// still compared against the applied direction, not the pending one
	if s.SetDirection(structs.DirectionLeft) {
		t.Error("Expected reverse of applied direction to be rejected")
	}
	if !s.SetDirection(structs.DirectionDown) {
		t.Error("Expected down to replace pending up")
	}

	s.Advance(noFood, false)
	if s.Head() != (structs.Cell{X: 160, Y: 180}) {
		t.Errorf("Expected head (160,180), got %v", s.Head())
	}
	if s.SetDirection(structs.DirectionUp) {
		t.Error("Expected up to be rejected while moving down")
	}
}

func TestSetDirectionSingleSegmentMayReverse(t *testing.T) {
	s := New(grid.Default(), cells(100, 100), structs.DirectionRight)
	if !s.SetDirection(structs.DirectionLeft) {
		t.Error("Expected single segment snake to accept reverse")
	}
}

func TestSetDirectionRejectsUnknown(t *testing.T) {
	s := NewDefault(grid.Default())
	if s.SetDirection(structs.Direction(0)) {
		t.Error("Expected zero direction to be rejected")
	}
}

func TestAdvanceWrapsWhenWallPass(t *testing.T) {
	g := grid.Default()
	s := New(g, cells(380, 160, 360, 160), structs.DirectionRight)
	res := s.Advance(noFood, true)
	if res.NewHead != (structs.Cell{X: 0, Y: 160}) {
		t.Errorf("Expected wrap to (0,160), got %v", res.NewHead)
	}

	s = New(g, cells(0, 160, 20, 160), structs.DirectionLeft)
	res = s.Advance(noFood, true)
	if res.NewHead != (structs.Cell{X: g.Width - g.CellSize, Y: 160}) {
		t.Errorf("Expected wrap to (380,160), got %v", res.NewHead)
	}
}

func TestAdvanceLeavesFieldWithoutWallPass(t *testing.T) {
	s := New(grid.Default(), cells(380, 160, 360, 160), structs.DirectionRight)
	res := s.Advance(noFood, false)
	if res.NewHead != (structs.Cell{X: 400, Y: 160}) {
		t.Errorf("Expected head (400,160), got %v", res.NewHead)
	}
}

func TestOccupied(t *testing.T) {
	s := NewDefault(grid.Default())
	occ := s.Occupied()
	if len(occ) != 4 {
		t.Errorf("Expected 4 occupied cells, got %d", len(occ))
	}
	for _, c := range s.Body() {
		if _, ok := occ[c]; !ok {
			t.Errorf("Expected %v in occupied set", c)
		}
	}
}
