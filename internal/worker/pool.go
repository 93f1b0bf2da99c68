package worker

import (
	"hash/fnv"
	"sync"

	"github.com/baharkarakas/payledger/internal/metrics"
)

type task func()

// Pool runs jobs on a fixed set of workers, each with its own queue.
// Jobs sharing a key land on the same worker and therefore run in
// submission order; jobs with different keys proceed in parallel.
type Pool struct {
	wg     sync.WaitGroup
	shards []chan task
}

func NewPool(n, queueSize int) *Pool {
	if n <= 0 {
		n = 1
	}
	if queueSize <= 0 {
		queueSize = 1024
	}
	p := &Pool{shards: make([]chan task, n)}
	for i := range p.shards {
		jobs := make(chan task, queueSize)
		p.shards[i] = jobs
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range jobs {
				job()
				metrics.WorkerQueueDepth.Dec()
			}
		}()
	}
	return p
}

// Submit enqueues f on the shard owned by key, blocking if that shard's
// queue is full.
func (p *Pool) Submit(key uint16, f task) {
	metrics.WorkerQueueDepth.Inc()
	p.shards[shardFor(key, len(p.shards))] <- f
}

// Stop closes the queues and waits for in-flight jobs to drain.
func (p *Pool) Stop() {
	for _, jobs := range p.shards {
		close(jobs)
	}
	p.wg.Wait()
}

func shardFor(key uint16, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte{byte(key >> 8), byte(key)})
	return int(h.Sum32() % uint32(n))
}
