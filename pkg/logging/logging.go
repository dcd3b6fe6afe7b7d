package logging

import (
	"log"
	"os"
)

func init() {
	// Route the global logger through standard error so that scan/list/remove
	// output on standard output is never interleaved with log lines.
	log.SetOutput(os.Stderr)
}
