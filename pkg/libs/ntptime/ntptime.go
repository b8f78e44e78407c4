package ntptime

import (
	"context"
	"sync"
	"time"

	"github.com/beevik/ntp"
	"github.com/pkg/errors"
)

const queryTimeout = 5 * time.Second

// Clock reports current time.
type Clock interface {
	Now() (time.Time, error)
}

type inner interface {
	Query(addr string) (*ntp.Response, error)
}

type ntpInner struct {
}

func (a ntpInner) Query(addr string) (*ntp.Response, error) {
	resp, err := ntp.QueryWithOptions(addr, ntp.QueryOptions{Timeout: queryTimeout})
	if err != nil {
		return nil, err
	}
	if err := resp.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid response from %s", addr)
	}
	return resp, nil
}

// NtpClock is the local clock corrected by the offset reported by an NTP server.
type NtpClock struct {
	mu     sync.RWMutex
	err    error
	offset time.Duration
	addr   string
	inner  inner
}

// New queries the server once. A failed query is reported by Now until a later query succeeds.
func New(addr string) *NtpClock {
	return newClock(addr, ntpInner{})
}

func newClock(addr string, inner inner) *NtpClock {
	a := &NtpClock{
		addr:  addr,
		inner: inner,
	}
	a.update()
	return a
}

func (a *NtpClock) update() {
	tm, err := a.inner.Query(a.addr)
	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.err = errors.Wrapf(err, "failed to query NTP server %s", a.addr)
		return
	}
	a.offset = tm.ClockOffset
	a.err = nil
}

// Run refreshes the offset every interval until the context is done. Start it in its own goroutine.
func (a *NtpClock) Run(ctx context.Context, interval time.Duration) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
			a.update()
		}
	}
}

func (a *NtpClock) Now() (time.Time, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return time.Now().Add(a.offset), a.err
}

// Offset is the last correction received from the server.
func (a *NtpClock) Offset() time.Duration {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.offset
}

// Local is the uncorrected system clock.
type Local struct{}

func (Local) Now() (time.Time, error) {
	return time.Now(), nil
}
