package mathx

import "testing"

func TestFloorDivAndMod(t *testing.T) {
	cases := []struct {
		a, b, q, m int
	}{
		{0, 16, 0, 0},
		{15, 16, 0, 15},
		{16, 16, 1, 0},
		{-1, 16, -1, 15},
		{-16, 16, -1, 0},
		{-17, 16, -2, 15},
		{-5, 4, -2, 3},
	}
	for _, c := range cases {
		if got := FloorDiv(c.a, c.b); got != c.q {
			t.Fatalf("FloorDiv(%d,%d)=%d want %d", c.a, c.b, got, c.q)
		}
		if got := Mod(c.a, c.b); got != c.m {
			t.Fatalf("Mod(%d,%d)=%d want %d", c.a, c.b, got, c.m)
		}
	}
}

func TestFloorCell(t *testing.T) {
	if got := FloorCell(-0.5, 16); got != -1 {
		t.Fatalf("FloorCell(-0.5)=%d want -1", got)
	}
	if got := FloorCell(15.99, 16); got != 0 {
		t.Fatalf("FloorCell(15.99)=%d want 0", got)
	}
	if got := FloorCell(160, 16); got != 10 {
		t.Fatalf("FloorCell(160)=%d want 10", got)
	}
}

func TestChebyshevDist(t *testing.T) {
	if got := ChebyshevDist(0, 0, 4, -3); got != 4 {
		t.Fatalf("got %d want 4", got)
	}
	if got := ChebyshevDist(-2, 5, -2, 5); got != 0 {
		t.Fatalf("got %d want 0", got)
	}
}

func TestHash2Stable(t *testing.T) {
	if Hash2(7, 1, 2) != Hash2(7, 1, 2) {
		t.Fatalf("hash not stable")
	}
	if Hash2(7, 1, 2) == Hash2(7, 2, 1) {
		t.Fatalf("hash should decorrelate axes")
	}
	if Hash2(7, 1, 2) == Hash2(8, 1, 2) {
		t.Fatalf("hash should depend on seed")
	}
}

func TestClampAndLerp(t *testing.T) {
	if Clamp01(-1) != 0 || Clamp01(2) != 1 || Clamp01(0.25) != 0.25 {
		t.Fatalf("Clamp01 failed")
	}
	if got := Lerp(2, 4, 0.5); got != 3 {
		t.Fatalf("Lerp=%v want 3", got)
	}
}
