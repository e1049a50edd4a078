// Package parallel runs independent jobs on a fixed set of worker goroutines.
package parallel

import (
	"runtime"
	"sync"
)

type (
	WorkerFunc func(func())
	WaitFunc   func()
)

// Pool hands jobs to its workers. A pool of one worker runs every job inline, in the order it was given.
type Pool struct {
	wg   sync.WaitGroup
	Do   WorkerFunc // Do queues a job, blocking while every worker is busy and the queue is full.
	Wait WaitFunc   // Wait stops accepting jobs and returns once every queued job has finished.
}

// Start creates a pool with numWorkers workers, or one per CPU if numWorkers is less than 1.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		Do: func(f func()) {
			f()
		},
		Wait: func() {},
	}

	if numWorkers > 1 {
		workChan := make(chan func(), numWorkers)

		for range numWorkers {
			pool.wg.Go(func() {
				for f := range workChan {
					f()
				}
			})
		}

		pool.Do = func(f func()) {
			workChan <- f
		}
		closeWork := sync.OnceFunc(func() { close(workChan) })
		pool.Wait = func() {
			closeWork()
			pool.wg.Wait()
		}
	}

	return pool
}

// Each runs f for every index in [0, n) on a new pool, and returns once all of them are done.
func Each(numWorkers, n int, f func(i int)) {
	pool := Start(numWorkers)
	for i := range n {
		pool.Do(func() { f(i) })
	}
	pool.Wait()
}
