package geo

import "testing"

func TestVectorSubClamps(t *testing.T) {
	tests := []struct {
		a, b, want Vector2
	}{
		{Vec(150, 80), Vec(50, 50), Vec(100, 30)},
		{Vec(10, 10), Vec(10, 10), Vec(0, 0)},
		{Vec(5, 40), Vec(20, 10), Vec(0, 30)},
		{Vec(0, 0), Vec(1, 1), Vec(0, 0)},
	}

	for _, tt := range tests {
		if got := tt.a.Sub(tt.b); !got.Equal(tt.want) {
			t.Errorf("%v.Sub(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRectContains(t *testing.T) {
	r := R(Vec(10, 20), Sz(30, 5))

	tests := []struct {
		name string
		p    Vector2
		want bool
	}{
		{"origin", Vec(10, 20), true},
		{"last unit", Vec(39, 24), true},
		{"left of", Vec(9, 22), false},
		{"above", Vec(15, 19), false},
		{"right edge", Vec(40, 22), false},
		{"bottom edge", Vec(15, 25), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestEmptyRectContainsNothing(t *testing.T) {
	r := R(Vec(0, 0), Sz(0, 10))
	if r.Contains(Vec(0, 0)) {
		t.Error("zero-width rect should contain nothing")
	}
	if !r.Size.Empty() {
		t.Error("zero-width size should be empty")
	}
}
