package cube

import "testing"

func TestDirectionFromYaw(t *testing.T) {
	tests := []struct {
		yaw  float64
		want Direction
	}{
		{yaw: 0, want: South},
		{yaw: 90, want: West},
		{yaw: 180, want: North},
		{yaw: 270, want: East},
		{yaw: -90, want: East},
		{yaw: 359, want: South},
	}
	for _, tt := range tests {
		if got := DirectionFromYaw(tt.yaw); got != tt.want {
			t.Fatalf("DirectionFromYaw(%v) = %v, want %v", tt.yaw, got, tt.want)
		}
	}
}

func TestDirectionOppositeFace(t *testing.T) {
	// Front faces of a block placed by an actor looking in the direction given.
	want := map[Direction]Face{East: FaceWest, South: FaceNorth, West: FaceEast, North: FaceSouth}
	for d, f := range want {
		if got := d.Opposite().Face(); got != f {
			t.Fatalf("%v.Opposite().Face() = %v, want %v", d, got, f)
		}
	}
}

func TestPosSideN(t *testing.T) {
	p := Pos{1, 64, -3}
	if got := p.SideN(FaceDown, 3); got != (Pos{1, 61, -3}) {
		t.Fatalf("unexpected side: %v", got)
	}
	if got := p.Side(FaceEast); got != (Pos{2, 64, -3}) {
		t.Fatalf("unexpected side: %v", got)
	}
}
