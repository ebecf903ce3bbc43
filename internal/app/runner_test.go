package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// fakeRunner records commands and answers them from a table keyed by
// "name arg1 arg2".
type fakeRunner struct {
	mu       sync.Mutex
	outputs  map[string]string
	failures map[string]error
	calls    []fakeCall
}

type fakeCall struct {
	Dir  string
	Line string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		outputs:  map[string]string{},
		failures: map[string]error{},
	}
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	f.calls = append(f.calls, fakeCall{Dir: dir, Line: line})
	if err, ok := f.failures[line]; ok {
		return "", err
	}
	if out, ok := f.outputs[line]; ok {
		return out, nil
	}
	return "", fmt.Errorf("%s: %w", name, errNotInstalled)
}

func (f *fakeRunner) lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Line)
	}
	return out
}

var errNotInstalled = errors.New("executable file not found in $PATH")
