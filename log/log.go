// Package log layers per-module filtering on top of logrus. Warnings and
// errors always print; info and debug entries only print for modules enabled
// through EnableDebugModules, so chatty decode logging stays free until
// someone asks for it.
package log

import (
	"io"

	"gopkg.in/Sirupsen/logrus.v0"
)

// Level mirrors the logrus severity order: lower values are more severe, so
// level <= WarnLevel means "always shown".
type Level uint32

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

func init() {
	// Severity filtering happens per module, logrus itself lets
	// everything through.
	logrus.SetLevel(logrus.DebugLevel)
}

// Disable routes all logging to the void.
func Disable() {
	logrus.SetOutput(io.Discard)
}
