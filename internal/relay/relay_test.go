package relay

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestServer() *httptest.Server {
	return httptest.NewServer(NewHandler(NewHub(), ""))
}

func chatURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + ChatPath
}

func dialClient(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(chatURL(server), nil)
	if err != nil {
		t.Fatal("Dial error:", err)
	}
	return ws
}

// await reads frames until want arrives, returning everything read up to and
// including it. Other clients' traffic may interleave, so skipping is part of
// the contract.
func await(t *testing.T, ws *websocket.Conn, want string) []string {
	t.Helper()
	var seen []string
	for {
		ws.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := ws.ReadMessage()
		if err != nil {
			t.Fatal("Read error while awaiting", want, ":", err)
		}
		seen = append(seen, string(msg))
		if string(msg) == want {
			return seen
		}
	}
}

// ready publishes a marker and waits for its echo, which proves the hub has
// processed this client's registration.
func ready(t *testing.T, ws *websocket.Conn, marker string) {
	t.Helper()
	if err := ws.WriteMessage(websocket.TextMessage, []byte(marker)); err != nil {
		t.Fatal("Write error:", err)
	}
	await(t, ws, marker)
}

func TestRoundTrip(t *testing.T) {
	t.Log("TestRoundTrip: a published message reaches every client verbatim, sender included")
	server := newTestServer()
	defer server.Close()

	x := dialClient(t, server)
	defer x.Close()
	ready(t, x, "x: ready")

	y := dialClient(t, server)
	defer y.Close()
	ready(t, y, "y: ready")

	if err := x.WriteMessage(websocket.TextMessage, []byte("Alice: hi")); err != nil {
		t.Fatal("Write error:", err)
	}
	await(t, y, "Alice: hi")

	// self-echo: the sender sees its own message through the same fan-out
	await(t, x, "Alice: hi")
}

func TestBroadcastOrder(t *testing.T) {
	t.Log("TestBroadcastOrder: all clients observe publishes in hub-acceptance order")
	server := newTestServer()
	defer server.Close()

	a := dialClient(t, server)
	defer a.Close()
	ready(t, a, "a: ready")

	b := dialClient(t, server)
	defer b.Close()
	ready(t, b, "b: ready")

	if err := a.WriteMessage(websocket.TextMessage, []byte("m1")); err != nil {
		t.Fatal("Write error:", err)
	}
	// b sends m2 only after observing m1, so the hub accepts m1 first
	await(t, b, "m1")
	if err := b.WriteMessage(websocket.TextMessage, []byte("m2")); err != nil {
		t.Fatal("Write error:", err)
	}

	seen := await(t, a, "m2")
	if indexOf(seen, "m1") == -1 {
		t.Fatal("Expectation: a sees m1 before m2, Received:", seen)
	}

	// b already consumed m1 above, before publishing m2; m1 must not show up
	// again after it
	seen = await(t, b, "m2")
	if indexOf(seen, "m1") != -1 {
		t.Fatal("Expectation: b sees m1 only once, before m2, Received:", seen)
	}
}

func TestNoBackfill(t *testing.T) {
	t.Log("TestNoBackfill: a reconnecting client never sees messages broadcast while it was down")
	server := newTestServer()
	defer server.Close()

	a := dialClient(t, server)
	defer a.Close()
	ready(t, a, "a: ready")

	b := dialClient(t, server)
	ready(t, b, "b: ready")
	b.Close()

	if err := a.WriteMessage(websocket.TextMessage, []byte("missed")); err != nil {
		t.Fatal("Write error:", err)
	}
	await(t, a, "missed")

	b2 := dialClient(t, server)
	defer b2.Close()
	ready(t, b2, "b2: ready")
	if err := a.WriteMessage(websocket.TextMessage, []byte("m2")); err != nil {
		t.Fatal("Write error:", err)
	}

	seen := await(t, b2, "m2")
	if indexOf(seen, "missed") != -1 {
		t.Fatal("ERR: reconnected client received backfilled message:", seen)
	}
}

func TestPostPublish(t *testing.T) {
	t.Log("TestPostPublish: POST /chat injects a message into the broadcast")
	server := newTestServer()
	defer server.Close()

	ws := dialClient(t, server)
	defer ws.Close()
	ready(t, ws, "ws: ready")

	resp, err := http.Post(server.URL+ChatPath, "text/plain", strings.NewReader("curl: hello"))
	if err != nil {
		t.Fatal("POST error:", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "OK\n" {
		t.Fatal("Expectation: OK, Received:", string(body))
	}

	await(t, ws, "curl: hello")
}

func TestHTMLPage(t *testing.T) {
	t.Log("TestHTMLPage: GET / serves the chat page with the resolved identity")
	server := newTestServer()
	defer server.Close()

	body := get(t, server.URL+"/?username=Alice")
	if !strings.Contains(body, "<html>") {
		t.Fatal("No HTML from server")
	}
	if !strings.Contains(body, "Alice") {
		t.Fatal("Identity not found in HTML")
	}

	body = get(t, server.URL+"/")
	if !strings.Contains(body, "anonymous") {
		t.Fatal("Anonymous placeholder not found in HTML")
	}
}

func TestXSS(t *testing.T) {
	t.Log("TestXSS: GET /?username=<xss> does not return <xss>")
	server := newTestServer()
	defer server.Close()

	body := get(t, server.URL+"/?username=%3Cxss%3E")
	if strings.Contains(body, "<xss>") {
		t.Fatal("HTML contains <xss>")
	}
}

func get(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal("GET error:", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal("Body read error:", err)
	}
	return string(body)
}

func indexOf(list []string, want string) int {
	for i, s := range list {
		if s == want {
			return i
		}
	}
	return -1
}
