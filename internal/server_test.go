package simtop

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// waitFor polls cond until it holds or a second has passed.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

type mirrors struct {
	exporter *Exporter
	hub      *Hub
	coord    *Coordinator
	server   *httptest.Server
}

func startMirrors(t *testing.T) *mirrors {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	m := &mirrors{exporter: NewExporter(), hub: NewHub(nil)}
	go m.hub.Run(ctx)

	c, err := Setup(SetupOptions{
		Surface:   Tee(NewHeadlessSurface(nil), m.exporter, NewStreamSurface(m.hub)),
		Generator: NewGenerator(nil, 13),
		Capacity:  WINDOW_CAPACITY,
		Observer:  m.exporter,
	})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	m.coord = c
	waitFor(t, "setup frames to drain", func() bool { return len(m.hub.broadcast) == 0 })

	m.server = httptest.NewServer(NewRouter(m.exporter, m.hub, nil))
	t.Cleanup(func() {
		cancel()
		m.server.Close()
	})
	return m
}

func (m *mirrors) get(t *testing.T, path string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(m.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return resp.StatusCode, body
}

func TestRouter_Health(t *testing.T) {
	m := startMirrors(t)
	status, body := m.get(t, "/healthz")
	if status != http.StatusOK || !strings.Contains(string(body), `"ok"`) {
		t.Errorf("healthz = %d %s", status, body)
	}
}

func TestRouter_Metrics(t *testing.T) {
	m := startMirrors(t)
	_ = m.coord.Tick()

	status, body := m.get(t, "/metrics")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(string(body), "simtop_ticks_total 1") {
		t.Errorf("metrics missing tick count:\n%s", body)
	}
}

func TestRouter_Snapshot(t *testing.T) {
	m := startMirrors(t)

	status, body := m.get(t, "/api/snapshot")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var snap struct {
		Metrics []Frame `json:"metrics"`
		Clients int     `json:"clients"`
	}
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("decode: %v\n%s", err, body)
	}

	if len(snap.Metrics) != 4 {
		t.Fatalf("got %d metrics, want 4", len(snap.Metrics))
	}
	for i, kind := range MetricOrder {
		f := snap.Metrics[i]
		if f.Metric != kind.Slug() || f.Type != FrameChart {
			t.Errorf("frame %d = %s/%s, want chart/%s", i, f.Type, f.Metric, kind.Slug())
		}
		if len(f.Samples) != WINDOW_CAPACITY || len(f.Labels) != WINDOW_CAPACITY {
			t.Errorf("%s: %d samples, %d labels", kind, len(f.Samples), len(f.Labels))
		}
		if want := FormatReadout(m.coord.Series(kind).Current()); f.Text != want {
			t.Errorf("%s: text = %q, want %q", kind, f.Text, want)
		}
	}
	if snap.Clients != 0 {
		t.Errorf("clients = %d", snap.Clients)
	}
}

func TestRouter_Stream(t *testing.T) {
	m := startMirrors(t)

	url := "ws" + strings.TrimPrefix(m.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitFor(t, "client registration", func() bool { return m.hub.ClientCount() == 1 })

	read := func() Frame {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var f Frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("read frame: %v", err)
		}
		return f
	}

	// replay of the latest state
	for _, kind := range MetricOrder {
		f := read()
		if f.Type != FrameChart || f.Metric != kind.Slug() {
			t.Fatalf("snapshot frame = %s/%s, want chart/%s", f.Type, f.Metric, kind.Slug())
		}
	}

	if err := m.coord.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	for _, kind := range MetricOrder {
		readout, chart := read(), read()
		if readout.Type != FrameReadout || readout.Metric != kind.Slug() {
			t.Fatalf("got %s/%s, want readout/%s", readout.Type, readout.Metric, kind.Slug())
		}
		if readout.Text != FormatReadout(m.coord.Series(kind).Current()) {
			t.Errorf("%s readout = %q", kind, readout.Text)
		}
		if chart.Type != FrameChart || chart.Metric != kind.Slug() {
			t.Fatalf("got %s/%s, want chart/%s", chart.Type, chart.Metric, kind.Slug())
		}
		samples := m.coord.Series(kind).Samples()
		if chart.Samples[len(chart.Samples)-1] != samples[len(samples)-1] {
			t.Errorf("%s chart ends at %v, want %v", kind, chart.Samples[len(chart.Samples)-1], samples[len(samples)-1])
		}
	}

	conn.Close()
	waitFor(t, "client removal", func() bool { return m.hub.ClientCount() == 0 })
}

func TestHub_PublishBacklog(t *testing.T) {
	h := NewHub(nil)
	for i := range broadcastBuffer {
		if err := h.Publish(Frame{Type: FrameReadout, Metric: "cpu", Text: "1.0%"}); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}
	if err := h.Publish(Frame{Type: FrameReadout, Metric: "cpu"}); !errors.Is(err, ErrHubBacklog) {
		t.Errorf("err = %v, want ErrHubBacklog", err)
	}
}

func TestHub_SnapshotMergesReadout(t *testing.T) {
	h := NewHub(nil)
	_ = h.Publish(Frame{Type: FrameReadout, Metric: "gpu", Text: "9.0%"})
	if len(h.Snapshot()) != 0 {
		t.Error("readout alone produced a snapshot frame")
	}

	_ = h.Publish(Frame{Type: FrameChart, Metric: "gpu", Samples: []float64{9}})
	_ = h.Publish(Frame{Type: FrameChart, Metric: "cpu", Samples: []float64{1}})

	snap := h.Snapshot()
	if len(snap) != 2 || snap[0].Metric != "cpu" || snap[1].Metric != "gpu" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap[1].Text != "9.0%" {
		t.Errorf("gpu text = %q, want 9.0%%", snap[1].Text)
	}
	snap[0].Samples[0] = 99
	if h.Snapshot()[0].Samples[0] != 1 {
		t.Error("snapshot shares samples with the hub")
	}
}

func TestServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	addrs := make(chan net.Addr, 1)
	done := make(chan error, 1)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", handler, nil, func(a net.Addr) { addrs <- a })
	}()

	var addr net.Addr
	select {
	case addr = <-addrs:
	case err := <-done:
		t.Fatalf("Serve: %v", err)
	}

	resp, err := http.Get("http://" + addr.String())
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "pong" {
		t.Errorf("body = %q", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v after shutdown", err)
		}
	case <-time.After(time.Second * 6):
		t.Fatal("Serve did not stop")
	}
}

func TestServe_BadAddress(t *testing.T) {
	err := Serve(context.Background(), "256.0.0.1:bad", http.NotFoundHandler(), nil, nil)
	if err == nil {
		t.Error("expected a listen error")
	}
}
