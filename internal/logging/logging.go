package logging

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup configures the standard logrus logger. An empty file keeps output on stderr.
func Setup(level, file string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("unknown log level %q", level)
	}
	log.SetLevel(lvl)
	if file != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    32, // megabytes
			MaxBackups: 2,
			MaxAge:     28, // days
			Compress:   true,
		})
	} else {
		log.SetOutput(os.Stderr)
	}
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		PadLevelText:    true,
		DisableColors:   file != "",
		TimestampFormat: time.DateTime,
	})
	return nil
}
