// Package zap adapts go.uber.org/zap to the asynclru Logger interface.
package zap

import (
	"go.uber.org/zap"

	asynclru "github.com/Al0ry/async-lru-cache"
)

var _ asynclru.Logger = Logger{}

type Logger struct{ L *zap.Logger }

func (z Logger) Debug(msg string, f asynclru.Fields) { z.L.Debug(msg, zf(f)...) }
func (z Logger) Info(msg string, f asynclru.Fields)  { z.L.Info(msg, zf(f)...) }
func (z Logger) Warn(msg string, f asynclru.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z Logger) Error(msg string, f asynclru.Fields) { z.L.Error(msg, zf(f)...) }

func zf(f asynclru.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}
