package simtop

import (
	"slices"
	"testing"
)

func TestBuildLabels(t *testing.T) {
	labels := BuildLabels(30)
	if len(labels) != 30 {
		t.Fatalf("len = %d, want 30", len(labels))
	}
	for i, v := range labels {
		if want := i - 29; v != want {
			t.Fatalf("labels[%d] = %d, want %d", i, v, want)
		}
	}
	if labels[0] != -29 || labels[29] != 0 {
		t.Errorf("range = [%d, %d], want [-29, 0]", labels[0], labels[29])
	}
	if !slices.IsSorted(labels) {
		t.Error("labels not ascending")
	}
}

func TestBuildLabels_Idempotent(t *testing.T) {
	if a, b := BuildLabels(30), BuildLabels(30); !slices.Equal(a, b) {
		t.Errorf("two calls differ: %v vs %v", a, b)
	}
}

func TestBuildLabels_Edges(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		want     []int
	}{
		{"one", 1, []int{0}},
		{"three", 3, []int{-2, -1, 0}},
		{"zero", 0, nil},
		{"negative", -4, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildLabels(tt.capacity); !slices.Equal(got, tt.want) {
				t.Errorf("BuildLabels(%d) = %v, want %v", tt.capacity, got, tt.want)
			}
		})
	}
}

func TestTickLabel(t *testing.T) {
	tests := []struct {
		offset int
		want   string
	}{
		{0, "Now"},
		{-1, ""},
		{-4, ""},
		{-5, "-5s"},
		{-10, "-10s"},
		{-25, "-25s"},
		{-29, ""},
		{5, ""},
	}
	for _, tt := range tests {
		if got := TickLabel(tt.offset); got != tt.want {
			t.Errorf("TickLabel(%d) = %q, want %q", tt.offset, got, tt.want)
		}
	}
}
