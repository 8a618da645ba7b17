package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, KindUnknown, KindOf(errors.New("other")))
	assert.Equal(t, KindConfiguration, KindOf(fmt.Errorf("load: %w", ErrNotAttached)))
	assert.Equal(t, KindTimeout, KindOf(NewDeviceError("serialA", "wait", ErrBootTimeout)))
	assert.Equal(t, KindProtocol, KindOf(errors.Join(ErrChannel, ErrDuplicateSession)))
	assert.Equal(t, "transient", KindOf(ErrChannel).String())
}

func TestDeviceErrorKeepsChain(t *testing.T) {
	err := NewDeviceError("serialA", "start logcat", ErrLogcatRunning)

	assert.ErrorIs(t, err, ErrLogcatRunning)
	assert.EqualError(t, err, "device serialA: start logcat: "+ErrLogcatRunning.Error())

	var deviceErr *DeviceError
	assert.True(t, errors.As(err, &deviceErr))
	assert.Equal(t, Serial("serialA"), deviceErr.Serial)
	assert.NoError(t, NewDeviceError("serialA", "noop", nil))
}
