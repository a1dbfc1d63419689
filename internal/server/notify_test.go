package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var errTest = errors.New("subscription refused")

func newNotifyFixture(t *testing.T) (*fakeSubscriber, *httptest.Server) {
	t.Helper()
	fs := newFakeSubscriber()
	s := New(t.TempDir(), "localhost", 0, &fakeCompiler{}, fs, testLogger())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return fs, ts
}

func wsURL(ts *httptest.Server, file string) string {
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/_elmserve/notify"
	if file != "" {
		u += "?file=" + url.QueryEscape(file)
	}
	return u
}

func TestNotifyMissingParam(t *testing.T) {
	_, ts := newNotifyFixture(t)

	resp, err := http.Get(ts.URL + "/_elmserve/notify")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if resp.Header.Get("Upgrade") != "" {
		t.Error("no connection upgrade may happen without the file parameter")
	}
}

func TestNotifyMissingParamViaDial(t *testing.T) {
	_, ts := newNotifyFixture(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, ""), nil)
	if err == nil {
		t.Fatal("handshake should fail without the file parameter")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 handshake response, got %+v", resp)
	}
}

func TestNotifyStreamsEventsInOrder(t *testing.T) {
	fs, ts := newNotifyFixture(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "src/Main.elm"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	waitFor(t, func() bool { return fs.active("src/Main.elm") })

	for i := 0; i < 3; i++ {
		if !fs.emit("src/Main.elm") {
			t.Fatal("emit failed; subscription not registered")
		}
	}

	for i := 0; i < 3; i++ {
		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if string(msg) != "src/Main.elm" {
			t.Errorf("message %d = %q, want src/Main.elm", i, msg)
		}
	}
}

func TestNotifySubscriptionsAreIndependent(t *testing.T) {
	fs, ts := newNotifyFixture(t)

	connA, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "a.elm"), nil)
	if err != nil {
		t.Fatalf("dial A: %v", err)
	}
	defer connA.Close()
	connB, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "b.elm"), nil)
	if err != nil {
		t.Fatalf("dial B: %v", err)
	}
	defer connB.Close()

	waitFor(t, func() bool { return fs.active("a.elm") && fs.active("b.elm") })

	fs.emit("a.elm")

	// the subscribed connection gets its event
	connA.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, msg, err := connA.ReadMessage()
	if err != nil {
		t.Fatalf("read A: %v", err)
	}
	if string(msg) != "a.elm" {
		t.Errorf("A received %q, want a.elm", msg)
	}

	// the unrelated connection must stay silent
	connB.SetReadDeadline(time.Now().Add(250 * time.Millisecond))
	if _, _, err := connB.ReadMessage(); err == nil {
		t.Error("B received an event for a file it never subscribed to")
	}
}

func TestNotifyDisconnectReleasesSubscription(t *testing.T) {
	fs, ts := newNotifyFixture(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "f.elm"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	waitFor(t, func() bool { return fs.active("f.elm") })

	conn.Close()

	waitFor(t, func() bool { return !fs.active("f.elm") })
}

func TestNotifySubscribeRefused(t *testing.T) {
	fs := newFakeSubscriber()
	fs.err = errTest
	s := New(t.TempDir(), "localhost", 0, &fakeCompiler{}, fs, testLogger())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/_elmserve/notify?file=ghost.elm")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

// waitFor polls cond until it holds or the test times out.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
