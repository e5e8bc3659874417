package simtop

import (
	"errors"
	"slices"
	"testing"
)

func TestHeadlessSurface_Slots(t *testing.T) {
	h := NewHeadlessSurface(nil)

	tests := []struct {
		id      string
		chart   bool
		readout bool
	}{
		{"cpu-chart", true, false},
		{"gpu-chart", true, false},
		{"memory-percentage", false, true},
		{"disk-percentage", false, true},
		{"network-chart", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if _, ok := h.Chart(tt.id); ok != tt.chart {
				t.Errorf("Chart(%q) ok = %v", tt.id, ok)
			}
			if _, ok := h.Readout(tt.id); ok != tt.readout {
				t.Errorf("Readout(%q) ok = %v", tt.id, ok)
			}
		})
	}
}

func TestHeadlessSurface_Render(t *testing.T) {
	h := NewHeadlessSurface(nil)
	consumer, _ := h.Chart(CPU.ChartID())

	handle, err := consumer.CreateRenderer(ChartSpec{Kind: CPU, Initial: []float64{1, 2, 3}})
	if err != nil {
		t.Fatalf("CreateRenderer: %v", err)
	}
	if got := h.Latest(CPU); !slices.Equal(got, []float64{1, 2, 3}) {
		t.Errorf("initial = %v", got)
	}

	samples := []float64{2, 3, 4}
	if err := handle.Update(samples); err != nil {
		t.Fatalf("Update: %v", err)
	}
	samples[0] = 99
	if got := h.Latest(CPU); !slices.Equal(got, []float64{2, 3, 4}) {
		t.Errorf("latest = %v, caller's slice was retained", got)
	}

	sink, _ := h.Readout(CPU.ReadoutID())
	_ = sink.SetText("4.0%")
	if h.Text(CPU) != "4.0%" {
		t.Errorf("text = %q", h.Text(CPU))
	}

	if _, err := consumer.CreateRenderer(ChartSpec{Kind: CPU}); !errors.Is(err, ErrSlotInUse) {
		t.Errorf("second CreateRenderer: err = %v, want ErrSlotInUse", err)
	}
}
