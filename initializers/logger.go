package initializers

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// SetupLogger configures the standard logrus logger. Unknown levels fall back
// to info.
func SetupLogger(level string) {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("[SetupLogger] unknown LOG_LEVEL %q, using info", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
