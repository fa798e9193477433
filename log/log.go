package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger(plugin zapcore.Core, options ...zap.Option) *zap.Logger {
	return zap.New(plugin, append(DefaultOption(), options...)...)
}

func NewPlugin(writer zapcore.WriteSyncer, enabler zapcore.LevelEnabler) zapcore.Core {
	return zapcore.NewCore(DefaultEncoder(), writer, enabler)
}

func NewStdoutPlugin(enabler zapcore.LevelEnabler) zapcore.Core {
	return NewPlugin(zapcore.Lock(os.Stdout), enabler)
}

func NewStderrPlugin(enabler zapcore.LevelEnabler) zapcore.Core {
	return NewPlugin(zapcore.Lock(os.Stderr), enabler)
}

// NewFilePlugin writes to a lumberjack-rotated file. The returned closer
// flushes the rotation handle; defer it in main.
func NewFilePlugin(filePath string, enabler zapcore.LevelEnabler) (zapcore.Core, io.Closer) {
	writer := DefaultLumberjackLogger()
	writer.Filename = filePath
	return NewPlugin(zapcore.AddSync(writer), enabler), writer
}
