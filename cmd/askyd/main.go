// askyd relays chat messages between connected websocket clients.
//
//	askyd -addr=:8081
//
// Everything is as ephemeral as can be. A message is broadcast to all
// connected clients (the sender included) and then forgotten. There is no
// history and no backfill: a client that was down during a broadcast never
// sees it.
//
// Connect by opening a websocket to /chat and sending plain text messages of
// the form "<name>: <body>".
//
// Publish without a websocket by POSTing to the same path.
//
//	curl localhost:8081/chat -d "curl: Hello"
//
// Non-websocket GET requests are served an HTML chat client that reads the
// display name from the username query parameter.
//
//	http://localhost:8081/?username=Alice
package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/facebookgo/httpdown"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"askychat/internal/metrics"
	"askychat/internal/relay"
)

func main() {
	// Prepare the stoppable HTTP server
	server := &http.Server{
		Addr: ":8081",
	}
	hd := &httpdown.HTTP{
		StopTimeout: 10 * time.Second,
		KillTimeout: 1 * time.Second,
	}

	flag.StringVar(&server.Addr, "addr", server.Addr, "http service address")
	flag.DurationVar(&hd.StopTimeout, "stop-timeout", hd.StopTimeout, "stop timeout")
	flag.DurationVar(&hd.KillTimeout, "kill-timeout", hd.KillTimeout, "kill timeout")
	origin := flag.String("origin", "", "websocket server checks Origin headers against this scheme://host[:port] (default: accept all)")
	tick := flag.Duration("metrics.tick", 60*time.Second, "duration between metrics reports")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	metrics.Start(*tick)
	defer metrics.WriteOnce()

	// Start the server
	server.Handler = relay.NewHandler(relay.NewHub(), *origin)
	log.Info().Str("addr", server.Addr).Msg("relay listening")
	if err := httpdown.ListenAndServe(server, hd); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
