package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"svgcss/misc"
)

type LoggerConfig struct {
	Level       string `yaml:"level" validate:"required,oneof=none debug normal"`
	Destination string `yaml:"destination,omitempty" sanitize:"path_clean,assure_dir_exists_for_file" validate:"omitempty,filepath"`
	Mode        string `yaml:"mode,omitempty" validate:"omitempty,oneof=append overwrite"`
}

type LoggingConfig struct {
	FileLogger    LoggerConfig `yaml:"file"`
	ConsoleLogger LoggerConfig `yaml:"console"`
}

// Prepare returns program logger: console output split between stdout and
// stderr plus optional file log. When report is requested file log is always
// written at debug level and stored in the report.
func (conf *LoggingConfig) Prepare(rpt *Report) (*zap.Logger, error) {
	consoleLP, consoleHP := consoleCores(conf.ConsoleLogger.Level)

	level, mode := conf.FileLogger.Level, conf.FileLogger.Mode
	if rpt != nil {
		level, mode = "debug", "overwrite"
	}

	fileCore, redirected, err := fileCore(conf.FileLogger.Destination, level, mode, rpt)
	if err != nil {
		return nil, err
	}

	log := zap.New(zapcore.NewTee(consoleHP, consoleLP, fileCore), zap.AddCaller())
	if len(redirected) != 0 {
		log.Warn("Log file was redirected to new location", zap.String("location", redirected))
	}
	return log.Named(misc.GetAppName()), nil
}

func consoleEncoderConfig(stream *os.File) zapcore.EncoderConfig {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	if EnableColorOutput(stream) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return ec
}

// consoleCores returns low priority (stdout) and high priority (stderr) cores.
func consoleCores(level string) (zapcore.Core, zapcore.Core) {
	var lowest zapcore.Level
	switch level {
	case "normal":
		lowest = zapcore.InfoLevel
	case "debug":
		lowest = zapcore.DebugLevel
	default:
		return zapcore.NewNopCore(), zapcore.NewNopCore()
	}

	lp := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig(os.Stdout)), zapcore.Lock(os.Stdout),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lowest <= lvl && lvl < zapcore.ErrorLevel
		}))
	hp := zapcore.NewCore(newEncoder(consoleEncoderConfig(os.Stderr)), zapcore.Lock(os.Stderr),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= zapcore.ErrorLevel
		}))
	return lp, hp
}

func openLog(fname, mode string) (*os.File, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if mode == "append" {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	return os.OpenFile(fname, flags, 0644)
}

// fileCore opens file log. When destination is not accessible log goes to
// temporary file and its name is returned.
func fileCore(destination, level, mode string, rpt *Report) (zapcore.Core, string, error) {
	var lvl zapcore.Level
	switch level {
	case "debug":
		lvl = zapcore.DebugLevel
	case "normal":
		lvl = zapcore.InfoLevel
	default:
		return zapcore.NewNopCore(), "", nil
	}

	// capture panic log if possible
	if ef, err := openLog(filepath.Join(filepath.Dir(destination), misc.GetAppName()+"-panic.log"), mode); err == nil {
		debug.SetCrashOutput(ef, debug.CrashOptions{})
		rpt.Store("panic.log", ef.Name())
		ef.Close()
	} else if ef, err = os.CreateTemp("", misc.GetAppName()+"-panic.*.log"); err == nil {
		debug.SetCrashOutput(ef, debug.CrashOptions{})
		rpt.Store("panic.log", ef.Name())
		ef.Close()
	}

	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())

	if f, err := openLog(destination, mode); err == nil {
		rpt.Store("final.log", f.Name())
		return zapcore.NewCore(enc, zapcore.Lock(f), zap.NewAtomicLevelAt(lvl)), "", nil
	}
	f, err := os.CreateTemp("", misc.GetAppName()+".*.log")
	if err != nil {
		return nil, "", fmt.Errorf("unable to access file log destination (%s): %w", destination, err)
	}
	rpt.Store("final.log", f.Name())
	return zapcore.NewCore(enc, zapcore.Lock(f), zap.NewAtomicLevelAt(lvl)), f.Name(), nil
}

// When logging error to console - do not output verbose message.

type consoleEnc struct {
	zapcore.Encoder
}

func newEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return consoleEnc{zapcore.NewConsoleEncoder(cfg)}
}

func (c consoleEnc) Clone() zapcore.Encoder {
	return consoleEnc{c.Encoder.Clone()}
}

func (c consoleEnc) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	newFields := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		if f.Type == zapcore.ErrorType {
			if e, ok := f.Interface.(error); ok {
				f.Interface = errors.New(e.Error())
			}
		}
		newFields = append(newFields, f)
	}
	return c.Encoder.EncodeEntry(ent, newFields)
}
