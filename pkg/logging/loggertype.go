package logging

import (
	"fmt"
	"strings"
)

// LoggerType is a type of logger output.
// Possible types:
//   - LoggerConsole: Human readable lines, the zap console encoder.
//   - LoggerJSON: One JSON object per line.
//   - LoggerConsoleDev: Console lines with caller and development timestamps.
type LoggerType int

const (
	LoggerConsole LoggerType = iota
	LoggerJSON
	LoggerConsoleDev
)

var loggerTypeNames = map[LoggerType]string{
	LoggerConsole:    "console",
	LoggerJSON:       "json",
	LoggerConsoleDev: "dev",
}

func (t LoggerType) String() string {
	if s, ok := loggerTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("LoggerType(%d)", int(t))
}

func (t *LoggerType) UnmarshalText(text []byte) error {
	s := strings.ToLower(string(text))
	for k, v := range loggerTypeNames {
		if v == s {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown logger type %q", string(text))
}

// Set and Type make LoggerType a command line flag value.
func (t *LoggerType) Set(s string) error {
	return t.UnmarshalText([]byte(s))
}

func (t *LoggerType) Type() string {
	return "type"
}
