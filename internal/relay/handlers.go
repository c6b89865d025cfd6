package relay

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ChatPath is the websocket endpoint. All chat traffic, both directions, flows
// over it as plain text frames.
const ChatPath = "/chat"

// NewHandler starts the hub and routes websocket upgrades, page requests and
// POST injections. An empty origin accepts all cross-origin handshakes;
// otherwise the Origin header must match scheme://host[:port].
func NewHandler(hub *Hub, origin string) http.Handler {
	go hub.Run()

	r := mux.NewRouter()

	// Route websocket requests
	r.Path(ChatPath).Headers(
		// Requests with these headers will use this handler
		"Connection", "Upgrade",
		"Upgrade", "websocket",
	).Handler(newWsHandler(hub, origin))

	// Route other GET and POST requests
	r.Path(ChatPath).Methods("POST").Handler(postHandler{hub: hub})
	r.Methods("GET").Handler(pageHandler{})

	return r
}

type wsHandler struct {
	hub      *Hub
	upgrader *websocket.Upgrader
}

func newWsHandler(hub *Hub, origin string) wsHandler {
	upgrader := &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if origin == "" {
		upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	} else {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return r.Header.Get("Origin") == origin
		}
	}
	return wsHandler{hub: hub, upgrader: upgrader}
}

func (wsh wsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := wsh.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := newConn(websocketInteractor{ws: ws}, wsh.hub)
	c.run()
}

type postHandler struct {
	hub *Hub
}

func (ph postHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Error: bad request. Unable to read POST body.",
			http.StatusBadRequest)
		return
	}
	ph.hub.Publish(body)
	w.Write([]byte("OK\n"))
}
