package client

import (
	"fmt"
	"io"
	"sync"
)

// Notifier shows error toasts.
type Notifier interface {
	Error(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Error(msg string) { f(msg) }

// LogNotifier sends notifications to the package logger.
type LogNotifier struct{}

func (LogNotifier) Error(msg string) { logger.Error("client: notification", "message", msg) }

// WriterNotifier prints notifications, one per line.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Error(msg string) { fmt.Fprintf(n.W, "error: %s\n", msg) }

// Navigator tracks the current view and performs redirects.
type Navigator interface {
	Location() string
	Redirect(path string)
}

// MemoryNavigator records the current view in memory.
type MemoryNavigator struct {
	mu        sync.Mutex
	current   string
	redirects []string
}

func NewMemoryNavigator(start string) *MemoryNavigator {
	if start == "" {
		start = "/"
	}
	return &MemoryNavigator{current: start}
}

func (n *MemoryNavigator) Location() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *MemoryNavigator) Redirect(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = path
	n.redirects = append(n.redirects, path)
}

// Navigate moves to path without counting it as a redirect.
func (n *MemoryNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = path
}

// Redirects returns the redirect targets seen so far.
func (n *MemoryNavigator) Redirects() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.redirects...)
}
