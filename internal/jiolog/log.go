// Package jiolog centralizes the structured logging calls the engine makes
// during commit and recovery. It wraps logrus so callers that already
// configure a logrus logger elsewhere in their process can plug it in
// instead of getting a second, independently configured one.
package jiolog

import "github.com/sirupsen/logrus"

// Logger is the subset of *logrus.Logger the engine needs.
type Logger interface {
	WithField(key string, value interface{}) *logrus.Entry
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// Default returns a logrus logger configured the way a library dependency
// should be by default: quiet unless something is actually wrong.
func Default() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}
