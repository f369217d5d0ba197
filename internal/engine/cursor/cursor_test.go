package cursor

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	if New().Position() != 0 {
		t.Error("new cursor should start at 0")
	}
	if At(-4).Position() != 0 {
		t.Error("negative position should clamp to 0")
	}
	if At(7).Position() != 7 {
		t.Error("At(7) should be at 7")
	}
}

func TestSetPosition(t *testing.T) {
	c := New()
	c.SetPosition(12)
	if c.Position() != 12 {
		t.Errorf("Position() = %d, want 12", c.Position())
	}
	c.SetPosition(-1)
	if c.Position() != 0 {
		t.Errorf("Position() = %d, want 0", c.Position())
	}
}

func TestMoveForward(t *testing.T) {
	tests := []struct {
		name      string
		start     int
		n, maxPos int
		want      int
	}{
		{"within bounds", 2, 3, 10, 5},
		{"saturates", 8, 5, 10, 10},
		{"zero", 4, 0, 10, 4},
		{"negative ignored", 4, -2, 10, 4},
		{"huge n does not overflow", 3, math.MaxInt, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := At(tt.start)
			c.MoveForward(tt.n, tt.maxPos)
			if c.Position() != tt.want {
				t.Errorf("Position() = %d, want %d", c.Position(), tt.want)
			}
		})
	}
}

func TestMoveBackward(t *testing.T) {
	c := At(5)
	c.MoveBackward(2)
	if c.Position() != 3 {
		t.Errorf("Position() = %d, want 3", c.Position())
	}
	c.MoveBackward(100)
	if c.Position() != 0 {
		t.Errorf("Position() = %d, want 0", c.Position())
	}
	c.MoveBackward(math.MaxInt)
	if c.Position() != 0 {
		t.Errorf("Position() = %d, want 0", c.Position())
	}
}

func TestAdjustForInsert(t *testing.T) {
	tests := []struct {
		name          string
		cursor, at, n int
		want          int
	}{
		{"insert before", 5, 2, 3, 8},
		{"insert at cursor", 5, 5, 3, 8},
		{"insert after", 5, 6, 3, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := At(tt.cursor)
			c.AdjustForInsert(tt.at, tt.n)
			if c.Position() != tt.want {
				t.Errorf("Position() = %d, want %d", c.Position(), tt.want)
			}
		})
	}
}

func TestAdjustForDelete(t *testing.T) {
	tests := []struct {
		name             string
		cursor, start, n int
		want             int
	}{
		{"delete before", 10, 2, 3, 7},
		{"delete ending at cursor", 10, 7, 3, 7},
		{"delete spanning cursor", 5, 3, 4, 3},
		{"delete starting at cursor", 5, 5, 2, 5},
		{"delete after", 5, 6, 2, 5},
		{"empty delete", 5, 5, 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := At(tt.cursor)
			c.AdjustForDelete(tt.start, tt.n)
			if c.Position() != tt.want {
				t.Errorf("Position() = %d, want %d", c.Position(), tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	c := At(10)
	c.Clamp(4)
	if c.Position() != 4 {
		t.Errorf("Position() = %d, want 4", c.Position())
	}
	c.Clamp(8)
	if c.Position() != 4 {
		t.Errorf("Clamp should never move forward, got %d", c.Position())
	}
	c.Clamp(-1)
	if c.Position() != 0 {
		t.Errorf("Position() = %d, want 0", c.Position())
	}
}

func TestAdjustForDeletionPure(t *testing.T) {
	r := Range{Start: 3, End: 6}
	for offset, want := range map[int]int{0: 0, 3: 3, 4: 3, 5: 3, 6: 3, 9: 6} {
		if got := AdjustForDeletion(offset, r); got != want {
			t.Errorf("AdjustForDeletion(%d, %v) = %d, want %d", offset, r, got, want)
		}
	}
}

func TestString(t *testing.T) {
	if s := At(3).String(); s != "Cursor(3)" {
		t.Errorf("String() = %q", s)
	}
}
