package source

import "testing"

func TestCodeSliceUTF16(t *testing.T) {
	c := New("a\U0001F600b") // emoji is a UTF-16 surrogate pair: 2 code units

	if got, want := c.Len(), 4; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	if got, want := c.Slice(0, 1), "a"; got != want {
		t.Errorf("Slice(0,1) = %q, want %q", got, want)
	}
	if got, want := c.Slice(1, 3), "\U0001F600"; got != want {
		t.Errorf("Slice(1,3) = %q, want %q", got, want)
	}
	if got, want := c.Slice(3, 4), "b"; got != want {
		t.Errorf("Slice(3,4) = %q, want %q", got, want)
	}
}

func TestSpanContains(t *testing.T) {
	outer := Span{Start: 0, End: 10}
	tests := []struct {
		name  string
		inner Span
		want  bool
	}{
		{"fully inside", Span{2, 8}, true},
		{"touches both edges", Span{0, 10}, true},
		{"escapes end", Span{2, 11}, false},
		{"escapes start", Span{-1, 5}, false},
	}
	for _, tt := range tests {
		if got := outer.Contains(tt.inner); got != tt.want {
			t.Errorf("%s: Contains(%v) = %v, want %v", tt.name, tt.inner, got, tt.want)
		}
	}
}

func TestJoinIgnoresZeroOperands(t *testing.T) {
	got := Join(Span{}, Span{Start: 3, End: 7}, Span{})
	if want := (Span{Start: 3, End: 7}); got != want {
		t.Errorf("Join = %v, want %v", got, want)
	}
}

func TestJoinSpansMultiple(t *testing.T) {
	got := Join(Span{Start: 5, End: 8}, Span{Start: 1, End: 3}, Span{Start: 10, End: 12})
	if want := (Span{Start: 1, End: 12}); got != want {
		t.Errorf("Join = %v, want %v", got, want)
	}
}

func TestConcatAndEqual(t *testing.T) {
	c := New("abcabc")
	a := Span{Start: 0, End: 3}
	b := Span{Start: 3, End: 6}
	if !Concat(a, b) {
		t.Error("Concat(a, b) = false, want true (adjacent)")
	}
	if !c.Equal(a, b) {
		t.Error("Equal(a, b) = false, want true (both \"abc\")")
	}
}
