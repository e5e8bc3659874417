package simtop

import (
	"fmt"
	"strings"
)

// MetricKind identifies one of the four simulated resources
type MetricKind int

const (
	CPU MetricKind = iota
	Memory
	Disk
	GPU
)

// MetricOrder is the fixed order in which metrics are updated and laid out
var MetricOrder = []MetricKind{CPU, Memory, Disk, GPU}

var metricNames = map[MetricKind]string{
	CPU:    "CPU",
	Memory: "Memory",
	Disk:   "Disk",
	GPU:    "GPU",
}

var metricColors = map[MetricKind]string{
	CPU:    "#00aaff",
	Memory: "#00ffaa",
	Disk:   "#ffaa00",
	GPU:    "#ff40ff",
}

// String returns the display label, e.g. "Memory"
func (k MetricKind) String() string {
	if name, ok := metricNames[k]; ok {
		return name
	}
	return fmt.Sprintf("MetricKind(%d)", int(k))
}

// Slug returns the lower-case identifier used in config keys, slot ids and metric labels
func (k MetricKind) Slug() string {
	return strings.ToLower(k.String())
}

// Color returns the hex color used for the metric's line and fill
func (k MetricKind) Color() string {
	return metricColors[k]
}

// ChartID is the id of the display slot holding the metric's chart
func (k MetricKind) ChartID() string {
	return k.Slug() + "-chart"
}

// ReadoutID is the id of the display slot holding the metric's numeric readout
func (k MetricKind) ReadoutID() string {
	return k.Slug() + "-percentage"
}

// ParseMetricKind resolves a slug such as "gpu" (case-insensitive)
func ParseMetricKind(s string) (MetricKind, error) {
	for _, k := range MetricOrder {
		if strings.EqualFold(s, k.Slug()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown metric %q", s)
}

// KindForSlot maps a chart or readout slot id back to its metric
func KindForSlot(id string) (MetricKind, bool) {
	for _, k := range MetricOrder {
		if id == k.ChartID() || id == k.ReadoutID() {
			return k, true
		}
	}
	return 0, false
}
