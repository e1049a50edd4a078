package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolRunsEveryJob(t *testing.T) {
	for _, workers := range []int{0, 1, 2, 7} {
		var n atomic.Int64
		pool := Start(workers)
		for i := 1; i <= 100; i++ {
			pool.Do(func() { n.Add(int64(i)) })
		}
		pool.Wait()
		assert.Equal(t, int64(5050), n.Load(), "%d workers", workers)
	}
}

func TestSingleWorkerIsInline(t *testing.T) {
	var order []int
	pool := Start(1)
	for i := range 5 {
		pool.Do(func() { order = append(order, i) })
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order, "jobs run before Wait")
	pool.Wait()
}

func TestWaitTwice(t *testing.T) {
	pool := Start(3)
	pool.Do(func() {})
	pool.Wait()
	assert.NotPanics(t, func() { pool.Wait() })
}

func TestEach(t *testing.T) {
	out := make([]int, 50)
	Each(4, len(out), func(i int) { out[i] = i * i })
	for i, v := range out {
		assert.Equal(t, i*i, v)
	}

	assert.NotPanics(t, func() { Each(4, 0, func(int) { t.Fail() }) })
}
