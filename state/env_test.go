package state

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"svgcss/config"
)

func TestContextWithEnv(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
	if env.Log == nil {
		t.Error("Default logger must be set")
	}
}

func TestEnvFromContext_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))

	time.Sleep(10 * time.Millisecond)
	if uptime := env.Uptime(); uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
}

func TestLocalEnv_Workers(t *testing.T) {
	env := &LocalEnv{}
	if env.Workers() != 0 {
		t.Error("Workers() without configuration must be 0")
	}
	env.Cfg = &config.Config{Cascade: config.CascadeConfig{Workers: 3}}
	if env.Workers() != 3 {
		t.Errorf("Workers() = %d, want 3", env.Workers())
	}
}

func TestLocalEnv_RedirectAndRestore(t *testing.T) {
	env := &LocalEnv{
		Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
	}
	for i := range 3 {
		env.RedirectStdLog()
		if env.restoreStdLog == nil {
			t.Errorf("Iteration %d: restoreStdLog not set", i)
		}
		env.RestoreStdLog()
	}

	empty := &LocalEnv{}
	empty.RedirectStdLog()
	if empty.restoreStdLog != nil {
		t.Error("Expected restoreStdLog to remain nil without logger")
	}
	empty.RestoreStdLog()
}
