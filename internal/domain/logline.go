package domain

import (
	"strings"
	"time"
)

// LogLineTimestampLayout matches the prefix logcat writes in threadtime format,
// e.g. "10-19 14:03:27.512".
const LogLineTimestampLayout = "01-02 15:04:05.000"

const LogLineTimestampLen = len(LogLineTimestampLayout)

// LogTime is a year-less log line timestamp with millisecond precision.
type LogTime struct {
	t time.Time
}

func ParseLogTime(value string) (LogTime, error) {
	t, err := time.Parse(LogLineTimestampLayout, value)
	if err != nil {
		return LogTime{}, err
	}

	return LogTime{t: t}, nil
}

func IsValidLogTime(value string) bool {
	if len(value) != LogLineTimestampLen {
		return false
	}
	_, err := ParseLogTime(value)
	return err == nil
}

// LogTimeOf truncates a wall clock time to the log line representation.
func LogTimeOf(t time.Time) LogTime {
	parsed, err := ParseLogTime(t.Format(LogLineTimestampLayout))
	if err != nil {
		return LogTime{}
	}

	return parsed
}

// Compare returns -1, 0 or +1 depending on whether lt is before, equal to or
// after other.
func (lt LogTime) Compare(other LogTime) int {
	return lt.t.Compare(other.t)
}

func (lt LogTime) String() string {
	return lt.t.Format(LogLineTimestampLayout)
}

// InRange reports whether lt lies within [begin, end], both ends inclusive.
func (lt LogTime) InRange(begin, end LogTime) bool {
	return begin.Compare(lt) <= 0 && end.Compare(lt) >= 0
}

// NormalizeLogTimestamp makes a log line timestamp safe to embed in a file name.
func NormalizeLogTimestamp(value string) string {
	return strings.NewReplacer(" ", "_", ":", "-").Replace(value)
}
