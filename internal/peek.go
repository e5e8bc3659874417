package simtop

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// PeekReading is one metric as reported by a running exporter.
type PeekReading struct {
	Kind    MetricKind
	Current float64
	Window  []float64
	Stats   WindowStats
}

// DefaultExporterPort is assumed when a peek target names no port
const DefaultExporterPort = "9464"

// PeekCandidates expands a peek target into the URLs worth trying, in order.
// A target without a scheme tries http then https; one without a port uses
// DefaultExporterPort; an empty path becomes /metrics.
func PeekCandidates(raw string) ([]*url.URL, error) {
	schemes := []string{"http", "https"}
	if i := strings.Index(raw, "://"); i >= 0 {
		schemes = []string{raw[:i]}
		raw = raw[i+3:]
	}

	u, err := url.Parse("//" + raw)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("url %q has no host", raw)
	}

	hostname, port := u.Hostname(), u.Port()
	if hostname == "" {
		// a listen address such as ":9464"
		hostname = "localhost"
	}
	if port == "" {
		port = DefaultExporterPort
	}
	host := net.JoinHostPort(hostname, port)
	path := u.Path
	if path == "" || path == "/" {
		path = "/metrics"
	}

	candidates := make([]*url.URL, 0, len(schemes))
	for _, scheme := range schemes {
		candidates = append(candidates, &url.URL{Scheme: scheme, Host: host, Path: path, RawQuery: u.RawQuery})
	}
	return candidates, nil
}

// Peek scrapes target and extracts the utilization and window series of
// every metric it finds, in display order. Each candidate URL is tried in
// turn until one answers.
func Peek(ctx context.Context, client *http.Client, target string) ([]PeekReading, error) {
	candidates, err := PeekCandidates(target)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	var errs []error
	for _, u := range candidates {
		readings, err := scrape(ctx, client, u)
		if err == nil {
			return readings, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, errors.Join(errs...)
}

func scrape(ctx context.Context, client *http.Client, u *url.URL) ([]PeekReading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scrape %s: unexpected status %s", u, resp.Status)
	}

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse metrics from %s: %w", u, err)
	}
	return readingsFrom(families)
}

func readingsFrom(families map[string]*dto.MetricFamily) ([]PeekReading, error) {
	current, ok := families[UtilizationMetric]
	if !ok {
		return nil, fmt.Errorf("no %s metric found: not a simtop exporter?", UtilizationMetric)
	}

	byKind := make(map[MetricKind]*PeekReading)
	for _, m := range current.GetMetric() {
		kind, err := ParseMetricKind(labelValue(m, "metric"))
		if err != nil {
			continue
		}
		byKind[kind] = &PeekReading{Kind: kind, Current: m.GetGauge().GetValue()}
	}

	type point struct {
		offset int
		value  float64
	}
	points := make(map[MetricKind][]point)
	for _, m := range families[WindowSampleMetric].GetMetric() {
		kind, err := ParseMetricKind(labelValue(m, "metric"))
		if err != nil {
			continue
		}
		offset, err := strconv.Atoi(labelValue(m, "offset"))
		if err != nil {
			continue
		}
		points[kind] = append(points[kind], point{offset, m.GetGauge().GetValue()})
	}

	readings := make([]PeekReading, 0, len(byKind))
	for _, kind := range MetricOrder {
		r, ok := byKind[kind]
		if !ok {
			continue
		}
		ps := points[kind]
		// oldest first
		slices.SortFunc(ps, func(a, b point) int {
			return cmp.Compare(a.offset, b.offset)
		})
		r.Window = make([]float64, len(ps))
		for i, p := range ps {
			r.Window[i] = p.value
		}
		r.Stats = windowStats(r.Window)
		readings = append(readings, *r)
	}
	return readings, nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, label := range m.GetLabel() {
		if label.GetName() == name {
			return label.GetValue()
		}
	}
	return ""
}

// RenderPeek formats readings as a table
func RenderPeek(readings []PeekReading) string {
	rows := make([][]string, 0, len(readings))
	for _, r := range readings {
		rows = append(rows, []string{
			r.Kind.String(),
			FormatReadout(r.Current),
			FormatReadout(r.Stats.Min),
			FormatReadout(r.Stats.Max),
			FormatReadout(r.Stats.Mean),
			strconv.Itoa(len(r.Window)),
		})
	}
	return NewWrapTable().
		Headers("Metric", "Now", "Min", "Max", "Mean", "Samples").
		Rows(rows...).
		Render()
}
