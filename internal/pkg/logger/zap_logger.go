package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ILogger interface {
	Debug(module, message string, details map[string]interface{})
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
	Sync() error
}

type ZapLogger struct {
	logger *zap.Logger
}

func fileCore(logFilePath string) zapcore.Core {
	rotator := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}

	return zapcore.NewCore(
		zapcore.NewJSONEncoder(jsonEncoderConfig()),
		zapcore.AddSync(rotator),
		zap.InfoLevel,
	)
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.MessageKey = "message"
	cfg.LevelKey = "level"
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

// NewZapLogger writes JSON to a rotated file and mirrors everything to stdout.
// Stdout is JSON in production and the colored console format otherwise.
func NewZapLogger(logFilePath string, isProd bool) *ZapLogger {
	var consoleEncoder zapcore.Encoder
	if isProd {
		consoleEncoder = zapcore.NewJSONEncoder(jsonEncoderConfig())
	} else {
		devCfg := zap.NewDevelopmentEncoderConfig()
		devCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleEncoder = zapcore.NewConsoleEncoder(devCfg)
	}

	consoleCore := zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), zap.DebugLevel)
	core := zapcore.NewTee(fileCore(logFilePath), consoleCore)

	return &ZapLogger{
		logger: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)),
	}
}

// NewIsolatedLogger writes to the file only. Used for chatty subsystems like the realtime hub.
func NewIsolatedLogger(logFilePath string) *ZapLogger {
	return &ZapLogger{
		logger: zap.New(fileCore(logFilePath), zap.AddCaller(), zap.AddCallerSkip(1)),
	}
}

func NewNopLogger() *ZapLogger {
	return &ZapLogger{logger: zap.NewNop()}
}

func (l *ZapLogger) Debug(module, message string, details map[string]interface{}) {
	l.logger.Debug(message, fields(module, details)...)
}

func (l *ZapLogger) Info(module, message string, details map[string]interface{}) {
	l.logger.Info(message, fields(module, details)...)
}

func (l *ZapLogger) Warn(module, message string, details map[string]interface{}) {
	l.logger.Warn(message, fields(module, details)...)
}

func (l *ZapLogger) Error(module, message string, details map[string]interface{}) {
	f := fields(module, details)
	if err, ok := details["error"]; ok {
		f = append(f, zap.Any("error_ref", err))
	}
	l.logger.Error(message, f...)
}

func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

func fields(module string, details map[string]interface{}) []zap.Field {
	if details == nil {
		details = make(map[string]interface{})
	}
	return []zap.Field{zap.String("module", module), zap.Any("details", details)}
}
