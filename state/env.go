// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"svgcss/config"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// used by resolve subcommand
	NoDirs     bool
	Overwrite  bool
	CodePage   encoding.Encoding
	ExtraStyle []byte

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// Workers returns number of concurrent matches requested by configuration.
func (e *LocalEnv) Workers() int {
	if e.Cfg == nil {
		return 0
	}
	return e.Cfg.Cascade.Workers
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
