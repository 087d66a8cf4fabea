package random

import (
	"bytes"
	"errors"
	"testing"
)

func TestSource_SameSeedSameSequence(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		if x, y := a.Int64(), b.Int64(); x != y {
			t.Fatalf("draw %d: got %d and %d for the same seed", i, x, y)
		}
	}
}

func TestSource_SeedZeroSequence(t *testing.T) {
	s := New(0)
	want := []int64{8526951665006212644, -5153734184049719113, -185956796533524655}
	for i, w := range want {
		if got := s.Int64(); got != w {
			t.Errorf("draw %d = %d, want %d", i, got, w)
		}
	}
}

func TestSource_DifferentSeedsDiverge(t *testing.T) {
	a, b := New(1), New(2)
	same := 0
	for i := 0; i < 20; i++ {
		if a.Int64() == b.Int64() {
			same++
		}
	}
	if same == 20 {
		t.Fatal("seeds 1 and 2 produced identical sequences")
	}
}

func TestSource_Between(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi int64
	}{
		{"single value", 5, 5},
		{"small range", -3, 3},
		{"swapped", 10, 1},
		{"full range", -1 << 63, 1<<63 - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(7)
			lo, hi := tt.lo, tt.hi
			if lo > hi {
				lo, hi = hi, lo
			}
			for i := 0; i < 1000; i++ {
				v := s.Int64Between(tt.lo, tt.hi)
				if v < lo || v > hi {
					t.Fatalf("value %d outside [%d, %d]", v, lo, hi)
				}
			}
		})
	}
}

func TestSource_Int32BetweenCoversBounds(t *testing.T) {
	s := New(3)
	seen := map[int32]bool{}
	for i := 0; i < 1000; i++ {
		seen[s.Int32Between(0, 2)] = true
	}
	for _, want := range []int32{0, 1, 2} {
		if !seen[want] {
			t.Errorf("value %d never drawn", want)
		}
	}
}

func TestSource_Read(t *testing.T) {
	p1 := make([]byte, 21)
	p2 := make([]byte, 21)
	n, err := New(9).Read(p1)
	if err != nil || n != len(p1) {
		t.Fatalf("Read() = %d, %v", n, err)
	}
	New(9).Read(p2)
	if !bytes.Equal(p1, p2) {
		t.Errorf("Read is not deterministic: %x vs %x", p1, p2)
	}
}

func TestOneOf(t *testing.T) {
	s := New(0)
	items := []string{"a", "b", "c"}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		v, err := OneOf(s, items)
		if err != nil {
			t.Fatalf("OneOf: %v", err)
		}
		seen[v] = true
	}
	if len(seen) != len(items) {
		t.Errorf("expected every item to be chosen, got %v", seen)
	}

	if _, err := OneOf(s, []int{}); !errors.Is(err, ErrEmpty) {
		t.Errorf("OneOf(empty) error = %v, want ErrEmpty", err)
	}
}
