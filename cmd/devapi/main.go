package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/MonikaTammineni/fsadproject/internal/devserver"
)

func main() {
	if err := devserver.Run(); err != nil {
		log.Error().Err(err).Msg("devapi exited with error")
		os.Exit(1)
	}
}
