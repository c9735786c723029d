package events

import (
	"sync"

	"github.com/google/uuid"
)

type Name string

// Scraper lifecycle events fire at most once per run.
const (
	ScraperStart   Name = "scraper:start"
	ScraperFail    Name = "scraper:fail"
	ScraperSuccess Name = "scraper:success"
)

const (
	PageLog   Name = "page:log"
	PageError Name = "page:error"

	JobScrape  Name = "job:scrape"
	JobSuccess Name = "job:success"
	JobFail    Name = "job:fail"
	JobAdded   Name = "job:added"
	JobRetry   Name = "job:retry"
)

// Request is the outgoing fetch of a job.
type Request struct {
	URL     string
	Retries int
}

type Job struct {
	ID  uuid.UUID
	Req *Request
}

// Payload carries whatever the emitter has for an event; unused fields are nil.
type Payload struct {
	Job  *Job
	Data any
	Req  *Request
	Err  error
}

// URL returns the most specific URL in the payload.
func (p Payload) URL() string {
	switch {
	case p.Job != nil && p.Job.Req != nil:
		return p.Job.Req.URL
	case p.Req != nil:
		return p.Req.URL
	default:
		return ""
	}
}

type Handler func(Payload)

// Subscriber is what plugins attach to.
type Subscriber interface {
	On(name Name, h Handler)
	Once(name Name, h Handler)
}

type subscription struct {
	handler Handler
	once    bool
}

// Bus is an in-process emitter. Handlers run synchronously in registration
// order and never concurrently with each other. Handlers must not Emit.
type Bus struct {
	mu       sync.Mutex
	emitMu   sync.Mutex
	handlers map[Name][]*subscription
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Name][]*subscription)}
}

func (b *Bus) On(name Name, h Handler) {
	b.subscribe(name, h, false)
}

// Once registers h to run for the first emit of name only.
func (b *Bus) Once(name Name, h Handler) {
	b.subscribe(name, h, true)
}

func (b *Bus) subscribe(name Name, h Handler, once bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], &subscription{handler: h, once: once})
}

// Emit delivers p to every handler of name.
func (b *Bus) Emit(name Name, p Payload) {
	b.mu.Lock()
	subs := b.handlers[name]
	kept := subs[:0:0]
	for _, s := range subs {
		if !s.once {
			kept = append(kept, s)
		}
	}
	if len(kept) != len(subs) {
		b.handlers[name] = kept
	}
	b.mu.Unlock()

	b.emitMu.Lock()
	defer b.emitMu.Unlock()
	for _, s := range subs {
		s.handler(p)
	}
}

// Count returns the number of live handlers for name.
func (b *Bus) Count(name Name) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[name])
}
