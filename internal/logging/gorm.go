package logging

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SlowQueryThreshold is the duration above which gorm queries log at Warn.
const SlowQueryThreshold = 200 * time.Millisecond

type gormLogger struct {
	log   logrus.FieldLogger
	level logger.LogLevel
}

// GormLogger routes gorm's query log through log. Record-not-found errors
// are not logged; callers handle them.
func GormLogger(log logrus.FieldLogger) logger.Interface {
	return &gormLogger{log: log.WithField("component", "gorm"), level: logger.Warn}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormLogger) Info(_ context.Context, msg string, args ...any) {
	if l.level >= logger.Info {
		l.log.Infof(msg, args...)
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, args ...any) {
	if l.level >= logger.Warn {
		l.log.Warnf(msg, args...)
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, args ...any) {
	if l.level >= logger.Error {
		l.log.Errorf(msg, args...)
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.log.WithFields(logrus.Fields{"elapsed": elapsed.String(), "rows": rows, "sql": sql}).
			WithError(err).Error("query failed")
	case elapsed > SlowQueryThreshold && l.level >= logger.Warn:
		sql, rows := fc()
		l.log.WithFields(logrus.Fields{"elapsed": elapsed.String(), "rows": rows, "sql": sql}).
			Warn("slow query")
	case l.level >= logger.Info:
		sql, rows := fc()
		l.log.WithFields(logrus.Fields{"elapsed": elapsed.String(), "rows": rows, "sql": sql}).
			Debug("query")
	}
}
