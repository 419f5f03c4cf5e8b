package ocr

import (
	"context"
	"sync"
)

// The shared engine is expensive to create (Tesseract loads language data),
// so concurrent first callers must not each build their own. The first caller
// installs an in-flight init future; later callers wait on it. A failed init
// clears the slot so the next call can retry cleanly.
var (
	sharedMu   sync.Mutex
	sharedEng  *Engine
	sharedInit *initFuture
)

type initFuture struct {
	done chan struct{}
	eng  *Engine
	err  error
}

// SharedEngine returns the process-wide engine, creating it on first use.
func SharedEngine(ctx context.Context) (*Engine, error) {
	sharedMu.Lock()
	if sharedEng != nil {
		eng := sharedEng
		sharedMu.Unlock()
		return eng, nil
	}
	if sharedInit != nil {
		fut := sharedInit
		sharedMu.Unlock()
		select {
		case <-fut.done:
			return fut.eng, fut.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	fut := &initFuture{done: make(chan struct{})}
	sharedInit = fut
	sharedMu.Unlock()

	eng, err := NewEngine()

	sharedMu.Lock()
	fut.eng, fut.err = eng, err
	if err == nil {
		sharedEng = eng
	}
	sharedInit = nil
	sharedMu.Unlock()
	close(fut.done)
	return eng, err
}

// CloseShared tears down the shared engine, if any. Intended for shutdown and
// tests.
func CloseShared() error {
	sharedMu.Lock()
	eng := sharedEng
	sharedEng = nil
	sharedMu.Unlock()
	if eng != nil {
		return eng.Close()
	}
	return nil
}
