// Package logrus adapts sirupsen/logrus to the asynclru Logger interface.
package logrus

import (
	"github.com/sirupsen/logrus"

	asynclru "github.com/Al0ry/async-lru-cache"
)

var _ asynclru.Logger = Logger{}

type Logger struct{ E *logrus.Entry }

func (l Logger) Debug(msg string, f asynclru.Fields) { l.E.WithFields(logrus.Fields(f)).Debug(msg) }
func (l Logger) Info(msg string, f asynclru.Fields)  { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l Logger) Warn(msg string, f asynclru.Fields)  { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l Logger) Error(msg string, f asynclru.Fields) { l.E.WithFields(logrus.Fields(f)).Error(msg) }
