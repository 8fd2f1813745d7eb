package shutdown

import (
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

// Coordinator terminates the process a short while after being asked to, so
// the HTTP response that triggered the shutdown can still be flushed to the
// client.
type Coordinator struct {
	reload bool
	logger *logrus.Logger

	once sync.Once

	// overridable in tests
	exit   func(code int)
	signal func() error
}

func NewCoordinator(reload bool, logger *logrus.Logger) *Coordinator {
	return &Coordinator{
		reload: reload,
		logger: logger,
		exit:   os.Exit,
		signal: signalSelf,
	}
}

// RequestShutdown schedules process termination after delay and returns
// immediately. Repeated calls arm the timer only once.
func (c *Coordinator) RequestShutdown(delay time.Duration) {
	c.once.Do(func() {
		c.logger.Infof("shutdown scheduled in %v", delay)
		time.AfterFunc(delay, c.terminate)
	})
}

func (c *Coordinator) terminate() {
	if c.reload {
		// Dev reloaders restart the process on SIGTERM, so a hard exit is
		// the only way to actually stop in reload mode.
		c.logger.Info("reload mode, exiting")
		c.exit(0)
		return
	}

	if err := c.signal(); err != nil {
		c.logger.Warnf("sending SIGTERM to self: %v", err)
		c.exit(0)
	}
}

func signalSelf() error {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		return err
	}
	return p.Signal(syscall.SIGTERM)
}
