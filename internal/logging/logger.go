package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
	gormlogger "gorm.io/gorm/logger"
)

// Logger is the process-wide logger.
var Logger = logrus.New()
var once sync.Once

// Options controls where and how log entries are written.
type Options struct {
	Level   string
	File    string
	JSON    bool
	Service string
}

// Init configures Logger. Entries always go to stdout; when File is set they
// are also written to a rotated file.
func Init(opts Options) {
	once.Do(func() {
		var out io.Writer = os.Stdout
		if opts.File != "" {
			out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			})
		}
		Logger.SetOutput(out)

		if opts.JSON {
			Logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
		} else {
			Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		}

		level, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			level = logrus.InfoLevel
		}
		Logger.SetLevel(level)

		if opts.Service != "" {
			Logger.AddHook(serviceHook{name: opts.Service})
		}
	})
}

type serviceHook struct {
	name string
}

func (h serviceHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h serviceHook) Fire(entry *logrus.Entry) error {
	entry.Data["service"] = h.name
	return nil
}

// GormLogger routes GORM's SQL log through Logger.
func GormLogger() gormlogger.Interface {
	level := gormlogger.Warn
	if Logger.IsLevelEnabled(logrus.DebugLevel) {
		level = gormlogger.Info
	}
	return gormlogger.New(Logger, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
