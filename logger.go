package asynclru

import "github.com/Al0ry/async-lru-cache/backend"

// The logging surface is shared with the backend implementations, which log
// the persistence faults they swallow. Aliased here so callers only deal
// with one package.

type Fields = backend.Fields
type Logger = backend.Logger
type NopLogger = backend.NopLogger
