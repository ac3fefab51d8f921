package tactical

import (
	"sync"
)

// Pool is a fixed size pool of workers used to run the stateless per frame
// stages concurrently.  Results are handed back in input order so stateful
// consumers see frames strictly in sequence.
type Pool[In, Out any] struct {
	// pool of worker slots
	slots chan int
	// size of pool
	size   int
	work   func(In) Out
	closed bool
	close  sync.Once
	sync.Mutex
}

// NewPool creates a new worker pool of the given size running work on
// each item
func NewPool[In, Out any](size int, work func(In) Out) *Pool[In, Out] {

	if size < 1 {
		size = 1
	}

	p := &Pool[In, Out]{
		slots: make(chan int, size),
		size:  size,
		work:  work,
	}

	for i := 0; i < size; i++ {
		// attach to pool
		p.Return(i)
	}

	return p
}

// Size returns the number of workers in the pool
func (p *Pool[In, Out]) Size() int {
	return p.size
}

// Get a worker slot from the pool, ok is false once the pool is closed
func (p *Pool[In, Out]) Get() (int, bool) {
	slot, ok := <-p.slots
	return slot, ok
}

// Return a worker slot to the pool
func (p *Pool[In, Out]) Return(slot int) {
	p.Lock()
	defer p.Unlock()

	if p.closed {
		return
	}

	select {
	case p.slots <- slot:
	default:
		// pool is full
	}
}

// Close the pool, pending Map calls stop dispatching new items
func (p *Pool[In, Out]) Close() {
	p.close.Do(func() {
		p.Lock()
		defer p.Unlock()

		p.closed = true
		close(p.slots)
	})
}

// Map runs the work function over items on the pool's workers and calls
// emit with each result in input order.  If emit returns an error no
// further items are dispatched and the error is returned.
func (p *Pool[In, Out]) Map(items []In, emit func(i int, out Out) error) error {

	results := make([]chan Out, len(items))

	for i := range results {
		results[i] = make(chan Out, 1)
	}

	stop := make(chan struct{})
	defer close(stop)

	go func() {
		for i, item := range items {
			select {
			case <-stop:
				return
			default:
			}

			slot, ok := p.Get()

			if !ok {
				select {
				case <-stop:
					return
				default:
				}

				// closed pool, run remaining items inline so Map returns
				results[i] <- p.work(item)
				continue
			}

			select {
			case <-stop:
				p.Return(slot)
				return
			default:
			}

			go func(i int, item In, slot int) {
				results[i] <- p.work(item)
				p.Return(slot)
			}(i, item, slot)
		}
	}()

	for i := range items {
		if err := emit(i, <-results[i]); err != nil {
			return err
		}
	}

	return nil
}
