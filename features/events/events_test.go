package events

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOnFiresEveryEmit(t *testing.T) {
	bus := NewBus()
	var got []string
	bus.On(JobAdded, func(p Payload) { got = append(got, p.URL()) })

	bus.Emit(JobAdded, Payload{Job: &Job{ID: uuid.New(), Req: &Request{URL: "http://a"}}})
	bus.Emit(JobAdded, Payload{Job: &Job{ID: uuid.New(), Req: &Request{URL: "http://b"}}})
	bus.Emit(JobFail, Payload{})

	assert.Equal(t, []string{"http://a", "http://b"}, got)
	assert.Equal(t, 1, bus.Count(JobAdded))
}

func TestOnceFiresOnlyFirstEmit(t *testing.T) {
	bus := NewBus()
	var calls int
	bus.Once(ScraperStart, func(Payload) { calls++ })

	bus.Emit(ScraperStart, Payload{})
	bus.Emit(ScraperStart, Payload{})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.Count(ScraperStart))
}

func TestOnceUnderConcurrentEmit(t *testing.T) {
	bus := NewBus()
	var calls atomic.Int32
	bus.Once(ScraperSuccess, func(Payload) { calls.Add(1) })

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Emit(ScraperSuccess, Payload{})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestHandlersRunInOrder(t *testing.T) {
	bus := NewBus()
	var order []int
	bus.On(PageLog, func(Payload) { order = append(order, 1) })
	bus.Once(PageLog, func(Payload) { order = append(order, 2) })
	bus.On(PageLog, func(Payload) { order = append(order, 3) })

	bus.Emit(PageLog, Payload{})
	bus.Emit(PageLog, Payload{})

	assert.Equal(t, []int{1, 2, 3, 1, 3}, order)
}

func TestPayloadURL(t *testing.T) {
	assert.Equal(t, "http://job", Payload{Job: &Job{Req: &Request{URL: "http://job"}}, Req: &Request{URL: "http://req"}}.URL())
	assert.Equal(t, "http://req", Payload{Req: &Request{URL: "http://req"}, Err: errors.New("x")}.URL())
	assert.Equal(t, "", Payload{}.URL())
}
