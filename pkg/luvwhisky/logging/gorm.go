package logging

import (
	"fmt"
	"strings"
	"time"
)

// SlowQueryThreshold is the duration above which gorm reports a query.
const SlowQueryThreshold = 200 * time.Millisecond

// GormLogWriter forwards gorm's logger output to zerolog.
type GormLogWriter struct{}

// GormWriter returns a writer for gorm's logger.
func GormWriter() GormLogWriter {
	return GormLogWriter{}
}

// Printf implements gorm's logger.Writer.
func (GormLogWriter) Printf(format string, args ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))
	Warn().Str("component", "gorm").Msg(msg)
}
