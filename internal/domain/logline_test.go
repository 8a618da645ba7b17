package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidLogTime(t *testing.T) {
	assert.True(t, IsValidLogTime("10-19 14:03:27.512"))
	assert.False(t, IsValidLogTime("10-19 14:03:27.51"))
	assert.False(t, IsValidLogTime("13-19 14:03:27.512"))
	assert.False(t, IsValidLogTime("--------- beginni"))
}

func TestLogTimeInRangeIsInclusive(t *testing.T) {
	begin, err := ParseLogTime("10-19 14:00:00.000")
	require.NoError(t, err)
	end, err := ParseLogTime("10-19 14:00:10.000")
	require.NoError(t, err)
	inside, err := ParseLogTime("10-19 14:00:05.250")
	require.NoError(t, err)
	after, err := ParseLogTime("10-19 14:00:10.001")
	require.NoError(t, err)

	assert.True(t, begin.InRange(begin, end))
	assert.True(t, end.InRange(begin, end))
	assert.True(t, inside.InRange(begin, end))
	assert.False(t, after.InRange(begin, end))
}

func TestLogTimeOfTruncatesToMilliseconds(t *testing.T) {
	lt := LogTimeOf(time.Date(2026, time.October, 19, 14, 3, 27, 512_900_000, time.UTC))

	assert.Equal(t, "10-19 14:03:27.512", lt.String())
}

func TestNormalizeLogTimestamp(t *testing.T) {
	assert.Equal(t, "10-19_14-03-27.512", NormalizeLogTimestamp("10-19 14:03:27.512"))
}
