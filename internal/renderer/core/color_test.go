package core

import "testing"

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		hex     string
		want    Color
		wantErr bool
	}{
		{"#0000c8", RGB(0, 0, 200), false},
		{"#FF0000", ColorRed, false},
		{"#fff", ColorWhite, false},
		{"#12", Color{}, true},
		{"0000c8", Color{}, true},
		{"#gg0000", Color{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			got, err := ColorFromHex(tt.hex)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ColorFromHex(%q) error = %v, wantErr %v", tt.hex, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equals(tt.want) {
				t.Errorf("ColorFromHex(%q) = %s, want %s", tt.hex, got, tt.want)
			}
		})
	}
}

func TestColorString(t *testing.T) {
	if got := RGB(0, 0, 200).String(); got != "#0000C8" {
		t.Errorf("String() = %q, want #0000C8", got)
	}
}

func TestColorfulRoundTrip(t *testing.T) {
	c := RGB(12, 200, 77)
	if got := FromColorful(c.Colorful()); !got.Equals(c) {
		t.Errorf("round trip = %s, want %s", got, c)
	}
}

func TestMustHexPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustHex with bad input should panic")
		}
	}()
	MustHex("nope")
}
