package main

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetupLogging(t *testing.T) {
	defer log.SetLevel(logrus.InfoLevel)

	tests := []struct {
		name    string
		level   string
		verbose bool
		want    logrus.Level
		wantErr bool
	}{
		{name: "info", level: "info", want: logrus.InfoLevel},
		{name: "warn", level: "warning", want: logrus.WarnLevel},
		{name: "verbose wins", level: "error", verbose: true, want: logrus.DebugLevel},
		{name: "invalid falls back", level: "chatty", want: logrus.InfoLevel, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := setupLogging(tt.level, tt.verbose)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, log.GetLevel())
		})
	}
}
