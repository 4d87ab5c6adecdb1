// Package fslog is the ambient structured-logging layer: one
// logrus.Logger shared by every FileSystem operation, field-tagged by
// operation name plus call-specific fields such as path.
package fslog

import "github.com/sirupsen/logrus"

// New returns a fresh logger for a FileSystem instance.
func New() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Op returns a per-call entry tagged with the operation name, ready for
// .WithField("path", ...) etc. at the call site.
func Op(l *logrus.Logger, op string) *logrus.Entry {
	return l.WithField("op", op)
}
