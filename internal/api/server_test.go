package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/1broseidon/hyprcycle/internal/order"
	"github.com/1broseidon/hyprcycle/internal/switcher"
)

type fakeSwitcher struct {
	mu    sync.Mutex
	view  *switcher.View
	err   error
	steps []int
}

func (f *fakeSwitcher) View(context.Context) (*switcher.View, error) { return f.view, f.err }

func (f *fakeSwitcher) Step(_ context.Context, n int) (*switcher.Entry, error) {
	f.mu.Lock()
	f.steps = append(f.steps, n)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.view.Target(n)
}

func (f *fakeSwitcher) Jump(_ context.Context, k int) (*switcher.Entry, error) {
	if e, ok := f.view.ByLabel(k); ok {
		return e, nil
	}
	return nil, errors.New("no such label")
}

func (f *fakeSwitcher) Focus(_ context.Context, id string) (*switcher.Entry, error) {
	if e, ok := f.view.Lookup(id); ok {
		return e, nil
	}
	return nil, errors.New("unknown id")
}

type fakeFeed struct {
	ch        chan *switcher.View
	cancelled chan struct{}
}

func (f *fakeFeed) Subscribe(int) (<-chan *switcher.View, func()) {
	return f.ch, func() { close(f.cancelled) }
}

func intPtr(v int) *int { return &v }

func testView() *switcher.View {
	wins := []order.Window{
		{ID: "0xa", Class: "kitty", Rect: order.Rect{Width: 100, Height: 100}},
		{ID: "0xb", Class: "firefox", Rect: order.Rect{X: 100, Width: 100, Height: 100}},
	}
	return &switcher.View{
		Mode:     "per-workspace",
		Selected: 0,
		Entries: []switcher.Entry{
			{Index: 0, Label: intPtr(0), Selected: true, Window: &wins[0]},
			{Index: 1, Label: intPtr(1), Window: &wins[1]},
		},
		Groups: []switcher.Group{{Title: "DP-1 / workspace 1", Start: 0, End: 2}},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeSwitcher, *fakeFeed) {
	t.Helper()
	sw := &fakeSwitcher{view: testView()}
	feed := &fakeFeed{ch: make(chan *switcher.View, 1), cancelled: make(chan struct{})}
	monitors := func() []order.MonitorFrame {
		return []order.MonitorFrame{{Name: "DP-1", Rect: order.Rect{Width: 200, Height: 100}}}
	}
	s := NewServer(sw, feed, monitors, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, sw, feed
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func TestRoutes(t *testing.T) {
	ts, _, _ := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"health", "GET", "/api/health", "", 200, `"status":"healthy"`},
		{"view", "GET", "/api/view", "", 200, `"mode":"per-workspace"`},
		{"svg", "GET", "/api/view.svg?width=400", "", 200, `width="400"`},
		{"dot", "GET", "/api/view.dot", "", 200, "e1 -> e0"},
		{"step", "POST", "/api/step", `{"offset":1}`, 200, `"id":"0xb"`},
		{"step zero", "POST", "/api/step", `{"offset":0}`, 400, "offset must not be zero"},
		{"step bad body", "POST", "/api/step", `nope`, 400, "error"},
		{"jump", "POST", "/api/jump/1", "", 200, `"id":"0xb"`},
		{"jump negative unknown", "POST", "/api/jump/-3", "", 500, "no such label"},
		{"jump non numeric", "POST", "/api/jump/x", "", 404, ""},
		{"focus", "POST", "/api/focus/0xa", "", 200, `"class":"kitty"`},
		{"focus unknown", "POST", "/api/focus/0xff", "", 500, "unknown id"},
		{"wrong method", "GET", "/api/step", "", 405, "method GET not allowed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, tt.method, ts.URL+tt.path, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status %d, want %d (body %s)", resp.StatusCode, tt.wantStatus, body)
			}
			if !strings.Contains(string(body), tt.wantBody) {
				t.Fatalf("body %s does not contain %q", body, tt.wantBody)
			}
		})
	}
}

func TestNoWindowsIsConflict(t *testing.T) {
	ts, sw, _ := newTestServer(t)
	sw.err = switcher.ErrNoWindows

	resp, _ := do(t, "POST", ts.URL+"/api/step", `{"offset":1}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status %d, want 409", resp.StatusCode)
	}
}

func TestStreamPushesViews(t *testing.T) {
	ts, _, feed := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	read := func() switcher.View {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var v switcher.View
		if err := json.Unmarshal(data, &v); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return v
	}

	if first := read(); first.Len() != 2 {
		t.Fatalf("initial view has %d entries", first.Len())
	}

	next := testView()
	next.Entries = next.Entries[:1]
	next.Groups[0].End = 1
	feed.ch <- next
	if pushed := read(); pushed.Len() != 1 {
		t.Fatalf("pushed view has %d entries", pushed.Len())
	}

	conn.Close()
	select {
	case <-feed.cancelled:
	case <-time.After(2 * time.Second):
		t.Fatalf("subscription not cancelled after client left")
	}
}

func TestCrossOriginRejected(t *testing.T) {
	ts, sw, _ := newTestServer(t)

	tests := []struct {
		name       string
		origin     string
		wantStatus int
	}{
		{"no origin", "", http.StatusOK},
		{"same origin", ts.URL, http.StatusOK},
		{"other site", "http://evil.example", http.StatusForbidden},
		{"malformed", "://", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sw.mu.Lock()
			sw.steps = nil
			sw.mu.Unlock()
			req, err := http.NewRequest("POST", ts.URL+"/api/step", strings.NewReader(`{"offset":1}`))
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("post: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			sw.mu.Lock()
			stepped := len(sw.steps)
			sw.mu.Unlock()
			if tt.wantStatus == http.StatusForbidden && stepped != 0 {
				t.Fatalf("rejected request still stepped %d times", stepped)
			}
		})
	}
}

func TestStreamRejectsCrossOrigin(t *testing.T) {
	ts, _, _ := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	header := http.Header{"Origin": []string{"http://evil.example"}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		conn.Close()
		t.Fatalf("dial from another origin succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("dial response = %v, want 403", resp)
	}
}
