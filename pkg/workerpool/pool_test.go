package workerpool_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VDECKSHOP/backend/pkg/workerpool"
)

func TestPoolExecutesTasks(t *testing.T) {
	p := workerpool.New(4)
	defer p.Shutdown()

	var counter int64
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		require.NoError(t, p.SubmitWait(func() {
			defer wg.Done()
			atomic.AddInt64(&counter, 1)
		}))
	}

	wg.Wait()
	assert.EqualValues(t, 20, atomic.LoadInt64(&counter))
}

func TestPoolFull(t *testing.T) {
	p := workerpool.New(1)
	defer p.Shutdown()

	block := make(chan struct{})
	started := make(chan struct{})

	// Occupy the single worker.
	require.NoError(t, p.Submit(func() {
		close(started)
		<-block
	}))
	<-started

	// Fill the queue until Submit reports backpressure.
	var sawFull bool
	for i := 0; i < 10; i++ {
		if err := p.Submit(func() {}); err != nil {
			assert.ErrorIs(t, err, workerpool.ErrPoolFull)
			sawFull = true
			break
		}
	}
	assert.True(t, sawFull, "expected Submit to report a full pool")

	close(block)
}

func TestPoolClosed(t *testing.T) {
	p := workerpool.New(2)
	p.Shutdown()

	assert.ErrorIs(t, p.Submit(func() {}), workerpool.ErrPoolClosed)
	assert.ErrorIs(t, p.SubmitWait(func() {}), workerpool.ErrPoolClosed)
}

func TestShutdownWaitsForInFlight(t *testing.T) {
	p := workerpool.New(2)

	var done int64
	for i := 0; i < 4; i++ {
		require.NoError(t, p.SubmitWait(func() {
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt64(&done, 1)
		}))
	}

	p.Shutdown()
	assert.EqualValues(t, 4, atomic.LoadInt64(&done))
}

func TestPanickingTaskDoesNotKillWorker(t *testing.T) {
	p := workerpool.New(1)
	defer p.Shutdown()

	require.NoError(t, p.SubmitWait(func() { panic("boom") }))

	ran := make(chan struct{})
	require.NoError(t, p.SubmitWait(func() { close(ran) }))

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive the panic")
	}
}
