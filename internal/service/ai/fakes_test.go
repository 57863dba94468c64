package ai

import (
	"context"
	"sync"
)

type fakeSession struct {
	mu        sync.Mutex
	reply     string
	err       error
	panicWith any
	received  []string
}

func (f *fakeSession) Send(_ context.Context, message string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.received = append(f.received, message)
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeSession) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.received...)
}

type stubProvider struct {
	session Session
	err     error
}

func (p stubProvider) GetOrCreateSession(context.Context) (Session, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.session, nil
}
