package tensor

import "testing"

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{Shape{}, 1}, // scalar
		{Shape{5}, 5},
		{Shape{2, 3}, 6},
		{Shape{10, 196, 640}, 1254400},
	}
	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.want {
			t.Errorf("%v.NumElements() = %d, want %d", tt.shape, got, tt.want)
		}
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (Shape{2, 3}).Validate(); err != nil {
		t.Errorf("valid shape rejected: %v", err)
	}
	if err := (Shape{}).Validate(); err != nil {
		t.Errorf("scalar shape rejected: %v", err)
	}
	if err := (Shape{2, 0}).Validate(); err == nil {
		t.Error("zero dimension accepted")
	}
	if err := (Shape{-1, 3}).Validate(); err == nil {
		t.Error("negative dimension accepted")
	}
}

func TestShapeEqual(t *testing.T) {
	if !(Shape{2, 3}).Equal(Shape{2, 3}) {
		t.Error("equal shapes reported unequal")
	}
	if (Shape{2, 3}).Equal(Shape{3, 2}) {
		t.Error("different shapes reported equal")
	}
	if (Shape{2, 3}).Equal(Shape{2, 3, 1}) {
		t.Error("shapes of different rank reported equal")
	}
}

func TestShapeClone(t *testing.T) {
	s := Shape{2, 3}
	c := s.Clone()
	c[0] = 99
	if s[0] != 2 {
		t.Error("Clone shares memory with original")
	}
}

func TestShapeConcat(t *testing.T) {
	sample := Shape{4, 2}
	batch := Shape{3}
	got := sample.Concat(batch)
	if !got.Equal(Shape{4, 2, 3}) {
		t.Errorf("Concat = %v, want [4 2 3]", got)
	}

	if got := (Shape{}).Concat(batch); !got.Equal(Shape{3}) {
		t.Errorf("empty Concat = %v, want [3]", got)
	}
}

func TestComputeStrides(t *testing.T) {
	strides := Shape{2, 3, 4}.ComputeStrides()
	want := []int{12, 4, 1}
	for i := range want {
		if strides[i] != want[i] {
			t.Fatalf("strides = %v, want %v", strides, want)
		}
	}

	if got := (Shape{}).ComputeStrides(); len(got) != 0 {
		t.Errorf("scalar strides = %v, want empty", got)
	}
}

func TestResolveReshape(t *testing.T) {
	t.Run("Explicit", func(t *testing.T) {
		got, err := ResolveReshape(12, Shape{3, 4})
		if err != nil {
			t.Fatalf("ResolveReshape failed: %v", err)
		}
		if !got.Equal(Shape{3, 4}) {
			t.Errorf("got %v, want [3 4]", got)
		}
	})

	t.Run("Inferred", func(t *testing.T) {
		got, err := ResolveReshape(12, Shape{3, -1})
		if err != nil {
			t.Fatalf("ResolveReshape failed: %v", err)
		}
		if !got.Equal(Shape{3, 4}) {
			t.Errorf("got %v, want [3 4]", got)
		}
	})

	t.Run("CountMismatch", func(t *testing.T) {
		if _, err := ResolveReshape(12, Shape{5, 3}); err == nil {
			t.Error("expected error for element count mismatch")
		}
	})

	t.Run("TwoInferred", func(t *testing.T) {
		if _, err := ResolveReshape(12, Shape{-1, -1}); err == nil {
			t.Error("expected error for two -1 dimensions")
		}
	})

	t.Run("NotDivisible", func(t *testing.T) {
		if _, err := ResolveReshape(10, Shape{3, -1}); err == nil {
			t.Error("expected error when count is not divisible")
		}
	})
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b      Shape
		want      Shape
		broadcast bool
		wantErr   bool
	}{
		{Shape{3, 5}, Shape{3, 5}, Shape{3, 5}, false, false},
		{Shape{3, 1}, Shape{3, 5}, Shape{3, 5}, true, false},
		{Shape{1, 5}, Shape{3, 5}, Shape{3, 5}, true, false},
		{Shape{5}, Shape{3, 5}, Shape{3, 5}, true, false},
		{Shape{}, Shape{3, 5}, Shape{3, 5}, true, false},
		{Shape{3, 4}, Shape{3, 5}, nil, false, true},
	}

	for _, tt := range tests {
		got, broadcast, err := BroadcastShapes(tt.a, tt.b)
		if tt.wantErr {
			if err == nil {
				t.Errorf("BroadcastShapes(%v, %v): expected error", tt.a, tt.b)
			}
			continue
		}
		if err != nil {
			t.Errorf("BroadcastShapes(%v, %v) failed: %v", tt.a, tt.b, err)
			continue
		}
		if !got.Equal(tt.want) || broadcast != tt.broadcast {
			t.Errorf("BroadcastShapes(%v, %v) = %v, %v; want %v, %v",
				tt.a, tt.b, got, broadcast, tt.want, tt.broadcast)
		}
	}
}
