package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PerProducerFIFO(t *testing.T) {
	b := NewBus()
	p := b.Producer()

	for i := 0; i < 5; i++ {
		p.Status(i, "svc", StatusGreen, "")
	}

	var got []int
	for i := 0; i < 5; i++ {
		e := <-b.Events()
		ss, ok := e.(ServiceStatus)
		require.True(t, ok)
		got = append(got, ss.Order)
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestBus_DoesNotBlockProducerWhenConsumerIdle(t *testing.T) {
	b := NewBus()
	p := b.Producer()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			p.Log(LevelInfo, "line %d", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("producer blocked on unbounded bus")
	}

	count := 0
	for count < 100 {
		<-b.Events()
		count++
	}
}

func TestBus_MultiProducerConcurrentSendSafe(t *testing.T) {
	b := NewBus()

	var wg sync.WaitGroup
	const producers = 8
	const perProducer = 20
	wg.Add(producers)
	for i := 0; i < producers; i++ {
		go func(n int) {
			defer wg.Done()
			p := b.Producer()
			for j := 0; j < perProducer; j++ {
				p.Status(n, "svc", StatusGreen, "")
			}
		}(i)
	}

	received := 0
	go func() {
		wg.Wait()
	}()
	for received < producers*perProducer {
		<-b.Events()
		received++
	}
	assert.Equal(t, producers*perProducer, received)
}

func TestProducer_SendAfterCloseDoesNotPanic(t *testing.T) {
	b := NewBus()
	p := b.Producer()
	b.Close()

	assert.NotPanics(t, func() {
		p.Send(FatalError{Message: "dropped"})
	})
}
