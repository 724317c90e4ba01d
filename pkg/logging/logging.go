package logging

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// Setup configures the global logger from the log section of the config
// file. Called once from the CLI before any command runs.
func Setup() {
	log.SetOutput(os.Stderr)
	log.SetTimeFormat(time.Kitchen)
	log.SetReportTimestamp(true)

	switch viper.GetString("log.level") {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}
