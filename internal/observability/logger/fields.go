package logger

import (
	"time"

	"go.uber.org/zap"
)

// Standard HTTP fields.

func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

func Method(v string) zap.Field {
	return zap.String("method", v)
}

func Path(v string) zap.Field {
	return zap.String("path", v)
}

func Status(v int) zap.Field {
	return zap.Int("status", v)
}

func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

func ClientIP(v string) zap.Field {
	return zap.String("client_ip", v)
}

func UserAgent(v string) zap.Field {
	return zap.String("user_agent", v)
}

// Standard business fields.

func UserID(v string) zap.Field {
	return zap.String("user_id", v)
}

func Provider(v string) zap.Field {
	return zap.String("provider", v)
}

// Standard system fields.

// Component tags the emitting component/module.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op tags the current operation.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Layer tags the layer (controller, service, store).
func Layer(v string) zap.Field {
	return zap.String("layer", v)
}

func Err(err error) zap.Field {
	return zap.Error(err)
}

// Generic fields.

func String(key, v string) zap.Field {
	return zap.String(key, v)
}

func Int(key string, v int) zap.Field {
	return zap.Int(key, v)
}

func Bool(key string, v bool) zap.Field {
	return zap.Bool(key, v)
}
