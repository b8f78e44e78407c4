package logging

import (
	"fmt"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
)

// Parameters of the logger set from the command line. Level and Type are parsed by the flag set itself,
// Parse only applies flags that override them.
type Parameters struct {
	Level zapcore.Level
	Type  LoggerType

	verbose bool
}

// levelValue lets a zapcore.Level be a command line flag.
type levelValue struct {
	l *zapcore.Level
}

func (v levelValue) String() string {
	return v.l.String()
}

func (v levelValue) Set(s string) error {
	return v.l.UnmarshalText([]byte(s))
}

func (v levelValue) Type() string {
	return "level"
}

// Initialize adds logging command line parameters to the flag set.
func (p *Parameters) Initialize(fs *flag.FlagSet) {
	p.Level = zapcore.InfoLevel
	p.Type = LoggerConsole
	fs.Var(levelValue{&p.Level}, "log-level", "Logging level, one of: debug, info, warn, error")
	fs.Var(&p.Type, "log-type", "Logger output format, one of: console, json, dev")
	fs.BoolVar(&p.verbose, "verbose", false, "Logs additional information, same as \"--log-level debug\"")
}

// Parse applies the overriding flags. Call it after the flag set is parsed.
func (p *Parameters) Parse() error {
	if _, ok := loggerTypeNames[p.Type]; !ok {
		return fmt.Errorf("failed to parse logger parameters: unknown logger type %d", int(p.Type))
	}
	if p.verbose {
		p.Level = zapcore.DebugLevel
	}
	return nil
}

func (p *Parameters) String() string {
	return fmt.Sprintf("{Level: %s, Type: %s}", p.Level, p.Type)
}
