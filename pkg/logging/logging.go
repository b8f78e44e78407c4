package logging

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLogger creates a logger writing to stderr with the specified parameters.
func DefaultLogger(params Parameters) *zap.Logger {
	return NewLogger(params.Type, zap.NewAtomicLevelAt(params.Level), zapcore.Lock(os.Stderr))
}

// NewLogger creates a new logger based on the specified logger type and level.
func NewLogger(loggerType LoggerType, level zap.AtomicLevel, w zapcore.WriteSyncer) *zap.Logger {
	switch loggerType {
	case LoggerConsole:
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		return zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(ec), w, level))
	case LoggerJSON:
		return zap.New(zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), w, level))
	case LoggerConsoleDev:
		ec := zap.NewDevelopmentEncoderConfig()
		return zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(ec), w, level), zap.AddCaller(), zap.Development())
	default:
		panic(fmt.Sprintf("unsupported logger type %d", loggerType))
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Type returns a field that contains the type name of the value.
func Type(value any) zap.Field {
	return zap.String("type", fmt.Sprintf("%T", value))
}

// Error returns the error field, or a no-op field for nil error.
func Error(err error) zap.Field {
	if err == nil {
		return zap.Skip()
	}
	return zap.String("error", err.Error())
}

// ErrorTrace returns the stack trace recorded by github.com/pkg/errors, if any.
func ErrorTrace(err error) zap.Field {
	const key = "trace"
	if err == nil {
		return zap.Skip()
	}
	if st, ok := err.(stackTracer); ok {
		return zap.String(key, fmt.Sprintf("%+v", st.StackTrace()))
	}
	return zap.Skip()
}
