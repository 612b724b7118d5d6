package main

import (
	"log/slog"
	"os"

	"github.com/dasdy/softkeys/cmd/softkeys"
	"github.com/dasdy/softkeys/logging"
)

func main() {
	logging.Setup(os.Stderr, slog.LevelDebug, true)

	softkeys.Execute()
}
