package shutdown

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRequestShutdownReturnsImmediately(t *testing.T) {
	c := NewCoordinator(true, testLogger())
	c.exit = func(int) {}

	start := time.Now()
	c.RequestShutdown(200 * time.Millisecond)

	assert.Less(t, time.Since(start), 100*time.Millisecond, "RequestShutdown must not block")
}

func TestReloadModeExits(t *testing.T) {
	exited := make(chan int, 1)
	signaled := false

	c := NewCoordinator(true, testLogger())
	c.exit = func(code int) { exited <- code }
	c.signal = func() error { signaled = true; return nil }

	c.RequestShutdown(10 * time.Millisecond)

	select {
	case code := <-exited:
		assert.Equal(t, 0, code)
	case <-time.After(time.Second):
		t.Fatal("process did not exit within the expected delay")
	}
	assert.False(t, signaled, "reload mode must not signal")
}

func TestProductionModeSignalsSelf(t *testing.T) {
	signaled := make(chan struct{}, 1)

	c := NewCoordinator(false, testLogger())
	c.exit = func(int) { t.Error("unexpected exit in production mode") }
	c.signal = func() error { signaled <- struct{}{}; return nil }

	c.RequestShutdown(10 * time.Millisecond)

	select {
	case <-signaled:
	case <-time.After(time.Second):
		t.Fatal("process was not signaled within the expected delay")
	}
}

func TestProductionModeFallsBackToExitWhenSignalFails(t *testing.T) {
	exited := make(chan int, 1)

	c := NewCoordinator(false, testLogger())
	c.exit = func(code int) { exited <- code }
	c.signal = func() error { return errors.New("signal failed") }

	c.RequestShutdown(10 * time.Millisecond)

	select {
	case code := <-exited:
		assert.Equal(t, 0, code)
	case <-time.After(time.Second):
		t.Fatal("process did not exit after the signal failure")
	}
}

func TestRequestShutdownArmsOnce(t *testing.T) {
	exited := make(chan int, 2)

	c := NewCoordinator(true, testLogger())
	c.exit = func(code int) { exited <- code }

	c.RequestShutdown(10 * time.Millisecond)
	c.RequestShutdown(10 * time.Millisecond)

	require.Eventually(t, func() bool { return len(exited) > 0 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, exited, 1, "the timer must fire only once")
}
