package logger

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	once   sync.Once
	logger = zap.NewNop()

	// Log é o logger global. Até o Init ser chamado ele descarta tudo.
	Log = logger.Sugar()
)

var (
	AppName = "RetroScan"
	Env     = "desktop"
	LogPath = "logs/retroscan.log"
)

// Init configura o logger (console + arquivo rotacionado). Só a primeira chamada tem efeito.
func Init(level, path string) error {
	var initErr error
	once.Do(func() {
		logLevel, err := zapcore.ParseLevel(level)
		if err != nil {
			initErr = fmt.Errorf("nível de log inválido %q: %w", level, err)
			return
		}
		if path != "" {
			LogPath = path
		}

		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.TimeKey = "timestamp"
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderCfg.CallerKey = "caller"
		encoderCfg.LevelKey = "level"
		encoderCfg.MessageKey = "message"
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

		consoleCfg := encoderCfg
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleEncoder := zapcore.NewConsoleEncoder(consoleCfg)

		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   LogPath,
			MaxSize:    50,
			MaxBackups: 7,
			MaxAge:     30,
			Compress:   true,
		})

		// Console vai para stderr: o stdout do comando scan é o JSON do resultado.
		core := zapcore.NewTee(
			zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stderr), logLevel),
			zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), fileWriter, logLevel),
		)

		logger = zap.New(core,
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
			zap.Fields(
				zap.String("app", AppName),
				zap.String("env", Env),
			),
		)
		Log = logger.Sugar()
	})
	return initErr
}

func Sync() {
	_ = logger.Sync()
}

func Trace(fn string, start time.Time) {
	elapsed := time.Since(start)
	Log.Debugf("%s executado em %d ms", fn, elapsed.Milliseconds())
}

func TraceAuto() func() {
	start := time.Now()
	pc, _, _, ok := runtime.Caller(1)
	funcName := "unknown"
	if ok {
		fullName := runtime.FuncForPC(pc).Name()
		funcName = trimPackagePath(fullName)
	}
	Log.Debugw("Início da função", "function", funcName, "start", start.Format(time.RFC3339Nano))
	return func() {
		Log.Debugw("Fim da função", "function", funcName, "duration", time.Since(start).String())
	}
}

func trimPackagePath(fullName string) string {
	if idx := strings.LastIndex(fullName, "/"); idx != -1 {
		fullName = fullName[idx+1:]
	}
	if idx := strings.Index(fullName, "."); idx != -1 {
		return fullName[idx+1:]
	}
	return fullName
}
