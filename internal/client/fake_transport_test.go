package client

import (
	"context"
	"sync"
)

// fakeTransport answers requests from a responder function and records what was asked.
type fakeTransport struct {
	mu      sync.Mutex
	urls    []string
	bodies  []any
	respond func(url string, body any) (string, error)
}

func (f *fakeTransport) GetJSON(_ context.Context, url string, out any) error {
	return f.do(url, nil, out)
}

func (f *fakeTransport) PostJSON(_ context.Context, url string, body any, out any) error {
	return f.do(url, body, out)
}

func (f *fakeTransport) do(url string, body any, out any) error {
	f.mu.Lock()
	f.urls = append(f.urls, url)
	f.bodies = append(f.bodies, body)
	f.mu.Unlock()

	raw, err := f.respond(url, body)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), out)
}

func (f *fakeTransport) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.urls)
}
