// Package config loads client configuration from the environment (ASKY_
// prefix), with an optional .env file for local development.
package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Client configures the terminal client.
type Client struct {
	// ServerURL is the websocket endpoint of the relay.
	ServerURL string `envconfig:"SERVER_URL" default:"ws://localhost:8081/chat"`

	// GeminiAPIKey authorizes completion calls. Without it every bot
	// invocation settles with the fallback reply.
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`

	GeminiModel string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
}

func LoadClient() (Client, error) {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	var c Client
	if err := envconfig.Process("asky", &c); err != nil {
		return Client{}, errors.Wrap(err, "process environment")
	}
	return c, nil
}
