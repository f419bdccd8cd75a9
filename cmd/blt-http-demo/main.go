// blt-http-demo exercises the HTTP binding against a running endpoint:
// it writes a counter and an object, reads them back, and reads a sum fold.
//
// Usage: blt-http-demo [base-url] [token]
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/basslinehq/bltctl/internal/httpbind"
	"github.com/basslinehq/bltctl/internal/observability"
	"github.com/basslinehq/bltctl/internal/protocol"
)

func main() {
	observability.InitLogger("blt-http-demo")

	base := "http://localhost:8080"
	token := ""
	if len(os.Args) > 1 {
		base = os.Args[1]
	}
	if len(os.Args) > 2 {
		token = os.Args[2]
	}

	c := httpbind.New(base, token)
	ctx := context.Background()
	log.Info().Str("base", base).Msg("connected")

	if err := c.Write(ctx, "counter", protocol.NewInt(42)); err != nil {
		log.Fatal().Err(err).Msg("write counter")
	}
	counter, err := c.Read(ctx, "counter")
	if err != nil {
		log.Fatal().Err(err).Msg("read counter")
	}
	log.Info().Str("counter", counter.String()).Msg("counter round trip")

	user := protocol.NewStructured(map[string]any{"name": "alice", "active": true})
	if err := c.Write(ctx, "user", user); err != nil {
		log.Fatal().Err(err).Msg("write user")
	}
	got, err := c.Read(ctx, "user")
	if err != nil {
		log.Fatal().Err(err).Msg("read user")
	}
	log.Info().Str("user", got.String()).Msg("user round trip")

	if err := c.Write(ctx, "x", protocol.NewInt(10)); err != nil {
		log.Fatal().Err(err).Msg("write x")
	}
	if err := c.Write(ctx, "y", protocol.NewInt(20)); err != nil {
		log.Fatal().Err(err).Msg("write y")
	}
	sum, err := c.Read(ctx, protocol.FoldRef("sum", []string{"x", "y"}))
	if err != nil {
		log.Fatal().Err(err).Msg("read sum fold")
	}
	log.Info().Str("sum", sum.String()).Msg("fold over x,y")
}
