package session

import (
	"sync"

	"github.com/goliatone/go-print"
)

// Container holds the current State and is its only writer. Dispatch
// applies the pure reducer under lock; readers take value snapshots.
type Container struct {
	mu          sync.RWMutex
	state       State
	subscribers map[int]func(State)
	nextSubID   int
	logger      Logger
	debug       bool
}

// ContainerOption customizes container construction.
type ContainerOption func(*Container)

// WithContainerLogger overrides the logger used for debug dumps.
func WithContainerLogger(logger Logger) ContainerOption {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithContainerDebug enables pretty-printed state dumps on every dispatch.
func WithContainerDebug() ContainerOption {
	return func(c *Container) {
		c.debug = true
	}
}

// NewContainer returns a container seeded with the empty snapshot.
func NewContainer(opts ...ContainerOption) *Container {
	c := &Container{
		state:       NewState(),
		subscribers: map[int]func(State){},
		logger:      defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// State returns the current snapshot.
func (c *Container) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Dispatch applies an action through the reducer and notifies
// subscribers with the resulting snapshot.
func (c *Container) Dispatch(action Action) State {
	c.mu.Lock()
	c.state = Reduce(c.state, action)
	next := c.state
	subs := make([]func(State), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	if c.debug {
		c.logger.Debug("session state: %s", print.MaybePrettyJSON(next))
	}

	for _, fn := range subs {
		fn(next)
	}
	return next
}

// Subscribe registers a listener invoked after every dispatch with the
// new snapshot. The returned function removes the listener.
func (c *Container) Subscribe(fn func(State)) func() {
	if fn == nil {
		return func() {}
	}

	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}
