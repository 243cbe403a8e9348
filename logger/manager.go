package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Manager owns one logger per module
type Manager struct {
	baseConfig ManagerConfig
	console    zapcore.WriteSyncer
	loggers    map[string]*CtxZapLogger
	zapLoggers map[string]*zap.Logger
	writers    map[string][]*lumberjack.Logger // closed by CloseAll
	mu         sync.RWMutex
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// NewManager creates a standalone Manager; zero-valued fields of cfg take defaults
func NewManager(cfg ManagerConfig) *Manager {
	cfg.ApplyDefaults()
	return &Manager{
		baseConfig: cfg,
		console:    zapcore.AddSync(os.Stdout),
		loggers:    make(map[string]*CtxZapLogger),
		zapLoggers: make(map[string]*zap.Logger),
		writers:    make(map[string][]*lumberjack.Logger),
	}
}

// InitManager initializes the global Manager (first call wins)
func InitManager(cfg ManagerConfig) {
	managerOnce.Do(func() {
		globalManager = NewManager(cfg)
	})
}

// SetConsoleOutput redirects console output, must be called before the first GetLogger
func (m *Manager) SetConsoleOutput(w zapcore.WriteSyncer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.console = w
}

// Config returns the configuration the Manager runs with
func (m *Manager) Config() ManagerConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.baseConfig
}

// GetLogger returns the module logger, creating it on first use
func (m *Manager) GetLogger(module string) *CtxZapLogger {
	m.mu.RLock()
	if l, ok := m.loggers[module]; ok {
		m.mu.RUnlock()
		return l
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.loggers[module]; ok {
		return l
	}

	zl := m.createLogger(module).With(zap.String("module", module))
	l := &CtxZapLogger{
		// skip the CtxZapLogger wrapper frame
		base:   zl.WithOptions(zap.AddCallerSkip(1)),
		module: module,
		config: &m.baseConfig,
	}

	m.loggers[module] = l
	m.zapLoggers[module] = zl
	return l
}

// createLogger tees console output and, when enabled, info/error files rotated by lumberjack
func (m *Manager) createLogger(module string) *zap.Logger {
	cfg := m.baseConfig
	encoder := createEncoder(cfg.Encoding)
	level := ParseLevel(cfg.Level)

	var cores []zapcore.Core
	if cfg.EnableConsole {
		cores = append(cores, zapcore.NewCore(encoder, m.console, level))
	}

	if cfg.EnableFile {
		dir := filepath.Join(cfg.BaseLogDir, module)
		infoWriter := m.fileWriter(module, filepath.Join(dir, module+".log"))
		errorWriter := m.fileWriter(module, filepath.Join(dir, module+"-error.log"))

		cores = append(cores,
			zapcore.NewCore(encoder, zapcore.AddSync(infoWriter), zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return lvl >= level && lvl < zapcore.ErrorLevel
			})),
			zapcore.NewCore(encoder, zapcore.AddSync(errorWriter), zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return lvl >= zapcore.ErrorLevel
			})),
		)
	}

	var opts []zap.Option
	if cfg.EnableCaller {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(zapcore.NewTee(cores...), opts...)
}

func (m *Manager) fileWriter(module, filename string) *lumberjack.Logger {
	_ = os.MkdirAll(filepath.Dir(filename), 0o755)
	w := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    m.baseConfig.MaxSize,
		MaxBackups: m.baseConfig.MaxBackups,
		MaxAge:     m.baseConfig.MaxAge,
		Compress:   m.baseConfig.Compress,
		LocalTime:  true,
	}
	m.writers[module] = append(m.writers[module], w)
	return w
}

// CloseAll flushes every logger and closes the log files
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, l := range m.zapLoggers {
		_ = l.Sync()
	}
	for _, ws := range m.writers {
		for _, w := range ws {
			_ = w.Close()
		}
	}

	m.loggers = make(map[string]*CtxZapLogger)
	m.zapLoggers = make(map[string]*zap.Logger)
	m.writers = make(map[string][]*lumberjack.Logger)
}

// Shutdown closes every logger; it lets a do injector release the Manager
func (m *Manager) Shutdown() {
	m.CloseAll()
}

// ReloadConfig swaps the configuration; loggers are rebuilt lazily on next GetLogger
func (m *Manager) ReloadConfig(cfg ManagerConfig) error {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid logger config: %w", err)
	}
	m.CloseAll()

	m.mu.Lock()
	m.baseConfig = cfg
	m.mu.Unlock()
	return nil
}

func createEncoder(encoding string) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		CallerKey:      "caller",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if encoding == "console" {
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}

// GetLogger returns a module logger from the global Manager, initializing it with defaults if needed
func GetLogger(module string) *CtxZapLogger {
	InitManager(DefaultManagerConfig())
	return globalManager.GetLogger(module)
}

// CloseAll closes the global Manager's loggers
func CloseAll() {
	if globalManager != nil {
		globalManager.CloseAll()
	}
}
