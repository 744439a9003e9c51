// Package logging hands out named zap loggers whose levels can be changed
// per package at runtime.
package logging

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var levels = &registry{
	fallback: zap.InfoLevel,
	levels:   make(map[string]zap.AtomicLevel),
}

// registry keeps one atomic level per logger name
type registry struct {
	mu       sync.Mutex
	fallback zapcore.Level
	levels   map[string]zap.AtomicLevel
}

// get returns the level for name, creating it at the fallback level
func (r *registry) get(name string) zap.AtomicLevel {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.levels[name]
	if !ok {
		l = zap.NewAtomicLevelAt(r.fallback)
		r.levels[name] = l
	}
	return l
}

func (r *registry) setAll(level zapcore.Level) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fallback = level
	for _, l := range r.levels {
		l.SetLevel(level)
	}
}

func config(level zap.AtomicLevel) zap.Config {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.RFC3339NanoTimeEncoder

	return zap.Config{
		Level:            level,
		Encoding:         "console",
		EncoderConfig:    enc,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stdout"},
	}
}

// New returns a named sugared logger. Its level follows SetLevel and any
// override given to SetLevels for the same name.
func New(name string) *zap.SugaredLogger {
	c := config(levels.get(name))
	return zap.Must(c.Build(zap.AddStacktrace(zapcore.PanicLevel))).Named(name).Sugar()
}

// SetLevel applies level to every logger, including ones created later.
// Unknown levels fall back to info.
func SetLevel(level string) {
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		l = zap.InfoLevel
	}
	levels.setAll(l)
}

// SetLevels overrides the level of individual loggers, keyed by logger name
func SetLevels(overrides map[string]string) error {
	for name, level := range overrides {
		l, err := zapcore.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid level for logger %s: %w", name, err)
		}
		levels.get(name).SetLevel(l)
	}
	return nil
}

// Level returns the current level of the named logger
func Level(name string) zapcore.Level {
	return levels.get(name).Level()
}
