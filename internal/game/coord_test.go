package game

import (
	"errors"
	"testing"
)

func TestParseAxis(t *testing.T) {
	for i := 0; i < BoardSize; i++ {
		for _, ch := range []byte{byte('1' + i), byte('a' + i), byte('A' + i)} {
			got, err := ParseAxis(ch)
			if err != nil {
				t.Fatalf("ParseAxis(%q): %v", ch, err)
			}
			if got != i {
				t.Fatalf("ParseAxis(%q) = %d, want %d", ch, got, i)
			}
		}
	}
	for _, ch := range []byte{'0', '9', 'i', 'I', 'z', ' ', '-'} {
		if _, err := ParseAxis(ch); !errors.Is(err, ErrInvalidCoordinate) {
			t.Fatalf("ParseAxis(%q) err = %v, want ErrInvalidCoordinate", ch, err)
		}
	}
}

func TestParseCoord(t *testing.T) {
	tests := []struct {
		in   string
		want Coord
	}{
		{"b6", Coord{Rank: 5, File: 1}},
		{"B6", Coord{Rank: 5, File: 1}},
		{"b 6", Coord{Rank: 5, File: 1}},
		{"a1", Coord{Rank: 0, File: 0}},
		{"H8", Coord{Rank: 7, File: 7}},
		{"2 6", Coord{Rank: 5, File: 1}},
	}
	for _, tt := range tests {
		got, err := ParseCoord(tt.in)
		if err != nil {
			t.Fatalf("ParseCoord(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseCoord(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if back, _ := ParseCoord(got.String()); back != got {
			t.Fatalf("String round trip for %v gave %v", got, back)
		}
	}
	for _, in := range []string{"", "b", "b66", "i1", "a9", "??"} {
		if _, err := ParseCoord(in); !errors.Is(err, ErrInvalidCoordinate) {
			t.Fatalf("ParseCoord(%q) err = %v, want ErrInvalidCoordinate", in, err)
		}
	}
}
