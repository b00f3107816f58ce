// Kuroibara: A multi-source manga search and aggregation engine.
// Copyright (C) 2025 Luca M. Schmidt (LuMiSxh)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the interface the engine and providers log through
type Logger interface {
	Debug(message string, args ...interface{})
	Info(message string, args ...interface{})
	Warn(message string, args ...interface{})
	Error(message string, args ...interface{})
}

// Service provides logging capabilities backed by zap
type Service struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

// NewService creates a logger writing to stderr. Debug output is
// suppressed unless enabled via SetDebug.
func NewService() *Service {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = level
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	log, err := cfg.Build()
	if err != nil {
		// Fall back to a no-op logger rather than failing startup
		return Nop()
	}

	return &Service{sugar: log.Sugar(), level: level}
}

// Nop returns a logger that discards everything (used in tests)
func Nop() *Service {
	return &Service{
		sugar: zap.NewNop().Sugar(),
		level: zap.NewAtomicLevelAt(zapcore.InfoLevel),
	}
}

// SetDebug toggles debug-level output
func (l *Service) SetDebug(enabled bool) {
	if enabled {
		l.level.SetLevel(zapcore.DebugLevel)
	} else {
		l.level.SetLevel(zapcore.InfoLevel)
	}
}

// Sync flushes buffered log entries
func (l *Service) Sync() error {
	return l.sugar.Sync()
}

func (l *Service) Debug(message string, args ...interface{}) {
	l.sugar.Debugf(message, args...)
}

func (l *Service) Info(message string, args ...interface{}) {
	l.sugar.Infof(message, args...)
}

func (l *Service) Warn(message string, args ...interface{}) {
	l.sugar.Warnf(message, args...)
}

func (l *Service) Error(message string, args ...interface{}) {
	l.sugar.Errorf(message, args...)
}
