package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// fakeAcpi emulates the WMAX method of a laptop.
type fakeAcpi struct {
	mu sync.Mutex

	method   string
	results  map[string]int64
	failures map[string]error
	gMode    bool
	calls    []string
}

func newFakeAcpi(method string) *fakeAcpi {
	return &fakeAcpi{
		method:   method,
		results:  map[string]int64{},
		failures: map[string]error{},
	}
}

func (f *fakeAcpi) call(method, args string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, args)

	if method != f.method {
		return 0, errors.New("Error: AE_NOT_FOUND")
	}
	if err, ok := f.failures[args]; ok {
		return 0, err
	}
	switch args {
	case cmdToggleGMode.encode():
		f.gMode = !f.gMode
		return 0, nil
	case cmdGetGMode.encode():
		if f.gMode {
			return 1, nil
		}
		return 0, nil
	}
	return f.results[args], nil
}

func (f *fakeAcpi) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

func (f *fakeAcpi) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// fakeRunner records executed commands.
type fakeRunner struct {
	mu       sync.Mutex
	commands []string
	output   string
	err      error
}

func (f *fakeRunner) run(ctx context.Context, executable string, args []string, timeout time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, fmt.Sprintf("%s %v", executable, args))
	return f.output, f.err
}

func fakeEnumerator(devices []string, err error) UsbEnumerator {
	return func(vendorId uint16, productIds []uint16) ([]string, error) {
		return devices, err
	}
}
