package combinatorics

import "testing"

func TestSpaceSize(t *testing.T) {
	tests := []struct {
		name           string
		arities        []int
		embellishments int
		want           uint64
	}{
		{
			name:           "no variables no embellishments",
			arities:        nil,
			embellishments: 0,
			want:           1,
		},
		{
			name:           "two pools of two",
			arities:        []int{2, 2},
			embellishments: 0,
			want:           4,
		},
		{
			name:           "embellishments multiply",
			arities:        []int{2, 2},
			embellishments: 3,
			want:           16,
		},
		{
			name:           "synthetic arity contributes ten",
			arities:        []int{10, 4},
			embellishments: 1,
			want:           80,
		},
		{
			name:           "non-positive arity ignored",
			arities:        []int{0, 5},
			embellishments: 0,
			want:           5,
		},
		{
			name:           "negative embellishments treated as zero",
			arities:        []int{3},
			embellishments: -1,
			want:           3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SpaceSize(tt.arities, tt.embellishments); got != tt.want {
				t.Errorf("SpaceSize(%v, %d) = %d, want %d", tt.arities, tt.embellishments, got, tt.want)
			}
		})
	}
}

func TestSpaceSizeStrictlyPositive(t *testing.T) {
	if got := SpaceSize([]int{}, 0); got == 0 {
		t.Fatal("expected strictly positive space size")
	}
}

func TestSpaceSizeMonotonicity(t *testing.T) {
	base := SpaceSize([]int{4, 5}, 2)

	if grown := SpaceSize([]int{5, 5}, 2); grown <= base {
		t.Fatalf("expected space to grow with pool size: %d <= %d", grown, base)
	}
	if grown := SpaceSize([]int{4, 5}, 3); grown <= base {
		t.Fatalf("expected space to grow with embellishment count: %d <= %d", grown, base)
	}
}
