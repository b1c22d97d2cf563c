// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/better-wallet/trustlink/pkg/query"
)

// Responder builds the callback URL the simulated wallet returns for an
// opened URL. Returning "" sends no callback.
type Responder func(openedURL string) string

// MockLinker simulates the OS URL-scheme facility with a wallet app
// installed (or not).
type MockLinker struct {
	mu sync.Mutex

	// Behavior controls
	installed  bool
	canOpenErr error
	openErr    error
	responder  Responder

	// Recorded calls
	opened       []string
	canOpenCalls int
	listeners    map[int]func(string)
	nextListener int
	openedCh     chan string
}

// NewMockLinker creates a linker with the wallet installed.
func NewMockLinker() *MockLinker {
	return &MockLinker{
		installed: true,
		listeners: make(map[int]func(string)),
		openedCh:  make(chan string, 64),
	}
}

// SetInstalled controls what CanOpenURL reports.
func (m *MockLinker) SetInstalled(installed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.installed = installed
}

// SetCanOpenError makes CanOpenURL fail.
func (m *MockLinker) SetCanOpenError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.canOpenErr = err
}

// SetOpenError makes OpenURL fail.
func (m *MockLinker) SetOpenError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErr = err
}

// SetResponder makes the simulated wallet answer every opened URL
// asynchronously.
func (m *MockLinker) SetResponder(r Responder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responder = r
}

// CanOpenURL implements bridge.Linker.
func (m *MockLinker) CanOpenURL(ctx context.Context, url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.canOpenCalls++
	if m.canOpenErr != nil {
		return false, m.canOpenErr
	}
	return m.installed, nil
}

// OpenURL implements bridge.Linker.
func (m *MockLinker) OpenURL(ctx context.Context, url string) error {
	m.mu.Lock()
	if m.openErr != nil {
		err := m.openErr
		m.mu.Unlock()
		return err
	}
	m.opened = append(m.opened, url)
	responder := m.responder
	m.mu.Unlock()

	select {
	case m.openedCh <- url:
	default:
	}

	if responder != nil {
		if callback := responder(url); callback != "" {
			go m.Deliver(callback)
		}
	}
	return nil
}

// AddURLListener implements bridge.Linker.
func (m *MockLinker) AddURLListener(handler func(url string)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextListener
	m.nextListener++
	m.listeners[id] = handler

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// Deliver hands url to every registered listener, as the OS does when the
// wallet opens the host application.
func (m *MockLinker) Deliver(url string) {
	m.mu.Lock()
	handlers := make([]func(string), 0, len(m.listeners))
	for _, h := range m.listeners {
		handlers = append(handlers, h)
	}
	m.mu.Unlock()

	for _, h := range handlers {
		h(url)
	}
}

// Opened returns a channel receiving every successfully opened URL.
func (m *MockLinker) Opened() <-chan string {
	return m.openedCh
}

// OpenedURLs returns the URLs opened so far.
func (m *MockLinker) OpenedURLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.opened...)
}

// CanOpenCalls returns how many times CanOpenURL was called.
func (m *MockLinker) CanOpenCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canOpenCalls
}

// ListenerCount returns the number of registered listeners.
func (m *MockLinker) ListenerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners)
}

// IDOf extracts the id parameter of an opened URL.
func IDOf(openedURL string) string {
	return query.Decode(openedURL)["id"]
}

// Callback builds a callback URL for openedURL's id with extra parameters
// (alternating key, value).
func Callback(scheme, openedURL string, kv ...string) string {
	pairs := query.Pairs{{Key: "id", Value: IDOf(openedURL)}}
	for i := 0; i+1 < len(kv); i += 2 {
		pairs = pairs.Add(kv[i], kv[i+1])
	}
	return fmt.Sprintf("%s?%s", scheme, query.Encode(pairs))
}
