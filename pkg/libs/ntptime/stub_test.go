package ntptime

import (
	"sync"

	"github.com/beevik/ntp"
)

type stub struct {
	mu    sync.Mutex
	resp  *ntp.Response
	err   error
	calls int
}

func (a *stub) Query(string) (*ntp.Response, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	return a.resp, a.err
}

func (a *stub) set(resp *ntp.Response, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resp, a.err = resp, err
}
