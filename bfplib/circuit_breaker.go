package bfplib

import (
	"context"
	"net/http"
	"sync"
	"time"
)

const (
	circuitBreakerStateClosed uint8 = iota
	circuitBreakerStateHalfOpened
	circuitBreakerStateOpened
)

type circuitBreakerCallback func(ctx context.Context) (*http.Response, error)

// circuitBreaker keeps a persistently failing netloc from being
// hammered. After openThreshold consecutive-window failures it opens;
// after halfOpenTimeout a single probe request is let through.
type circuitBreaker struct {
	mutex sync.Mutex

	state            uint8
	failuresCount    uint32
	lastFailureTime  time.Time
	openedAt         time.Time
	halfOpenInFlight bool

	openThreshold        uint32
	halfOpenTimeout      time.Duration
	resetFailuresTimeout time.Duration
}

func (c *circuitBreaker) Do(ctx context.Context, callback circuitBreakerCallback) (*http.Response, error) {
	if err := c.acquire(); err != nil {
		return nil, err
	}

	resp, err := callback(ctx)

	c.record(err)

	return resp, err
}

func (c *circuitBreaker) acquire() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	switch c.state {
	case circuitBreakerStateOpened:
		if time.Since(c.openedAt) < c.halfOpenTimeout {
			return ErrCircuitBreakerOpened
		}

		c.state = circuitBreakerStateHalfOpened
		c.halfOpenInFlight = true
	case circuitBreakerStateHalfOpened:
		if c.halfOpenInFlight {
			return ErrCircuitBreakerOpened
		}

		c.halfOpenInFlight = true
	default:
		if c.failuresCount > 0 && time.Since(c.lastFailureTime) > c.resetFailuresTimeout {
			c.failuresCount = 0
		}
	}

	return nil
}

func (c *circuitBreaker) record(err error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.state == circuitBreakerStateHalfOpened {
		c.halfOpenInFlight = false

		if err != nil {
			c.open()
		} else {
			c.close()
		}

		return
	}

	if err == nil {
		return
	}

	c.failuresCount++
	c.lastFailureTime = time.Now()

	if c.failuresCount > c.openThreshold {
		c.open()
	}
}

func (c *circuitBreaker) open() {
	c.state = circuitBreakerStateOpened
	c.openedAt = time.Now()
	c.failuresCount = 0
}

func (c *circuitBreaker) close() {
	c.state = circuitBreakerStateClosed
	c.failuresCount = 0
}

func newCircuitBreaker(openThreshold uint32,
	halfOpenTimeout, resetFailuresTimeout time.Duration) *circuitBreaker {
	return &circuitBreaker{
		openThreshold:        openThreshold,
		halfOpenTimeout:      halfOpenTimeout,
		resetFailuresTimeout: resetFailuresTimeout,
	}
}
