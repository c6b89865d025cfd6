// asky is the terminal chat client.
//
//	asky -user=Alice
//
// Messages starting with "Asky: " are additionally answered by the bot; the
// reply is broadcast to everyone like any other message. Configuration comes
// from the environment (ASKY_SERVER_URL, ASKY_GEMINI_API_KEY,
// ASKY_GEMINI_MODEL), optionally via a .env file.
package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"askychat/internal/config"
	"askychat/internal/gemini"
	"askychat/internal/session"
	"askychat/internal/tui"
	"askychat/internal/wsclient"
)

func main() {
	user := flag.String("user", "", "display name (default: anonymous)")
	server := flag.String("server", "", "relay websocket URL (overrides ASKY_SERVER_URL)")
	flag.Parse()

	// The TUI owns the terminal; keep logging out of its way.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatal().Err(err).Msg("load configuration")
	}
	if *server != "" {
		cfg.ServerURL = *server
	}

	channel, err := wsclient.Dial(cfg.ServerURL)
	if err != nil {
		log.Fatal().Err(err).Str("url", cfg.ServerURL).Msg("connect to relay")
	}
	defer channel.Close()

	completer := gemini.New(gemini.Config{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		HTTPClient: http.DefaultClient,
	})
	dispatcher := session.NewDispatcher(channel, completer)
	sess := session.New(*user, channel, dispatcher)
	sess.Attach()
	defer sess.Detach()

	if err := tui.Run(sess, dispatcher, channel.Done()); err != nil {
		log.Fatal().Err(err).Msg("run client")
	}
}
