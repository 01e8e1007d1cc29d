// Package slogx provides small helpers for building structured log
// attributes used across the server and pipelines.
package slogx

import (
	"fmt"
	"log/slog"
)

// Error returns a slog.Attr with key "error" and the error's message.
func Error(err error) slog.Attr {
	return slog.String("error", err.Error())
}

// Stringer returns a slog.Attr rendering the value through its String method.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}
