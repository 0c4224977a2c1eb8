package main

import (
	"github.com/sirupsen/logrus"
)

// setupLogging configures the standard logger. verbose forces debug level.
func setupLogging(level string, verbose bool) error {
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if verbose {
		log.SetLevel(logrus.DebugLevel)
		return nil
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.SetLevel(logrus.InfoLevel)
		return err
	}
	log.SetLevel(lvl)
	return nil
}
