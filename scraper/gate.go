package scraper

import "sync"

// Gate caps the number of site-fetch tasks running at once. Excess
// submissions block in submission order until a slot frees up. Tasks never
// cancel each other; the gate only admits and joins.
type Gate struct {
	semaphore chan struct{}
	wg        sync.WaitGroup
}

// NewGate creates a gate admitting at most limit concurrent tasks.
func NewGate(limit int) *Gate {
	if limit < 1 {
		limit = 1
	}
	return &Gate{semaphore: make(chan struct{}, limit)}
}

// Submit enqueues a task. The task is responsible for capturing its own
// errors; panics and error propagation across sibling tasks are not part of
// the contract.
func (g *Gate) Submit(task func()) {
	g.wg.Add(1)
	g.semaphore <- struct{}{}

	go func() {
		defer g.wg.Done()
		defer func() { <-g.semaphore }()
		task()
	}()
}

// Wait blocks until every submitted task has completed.
func (g *Gate) Wait() {
	g.wg.Wait()
}
