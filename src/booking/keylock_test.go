package booking

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLocksMutualExclusion(t *testing.T) {
	kl := newKeyLocks()

	const workers = 16
	const iterations = 200
	counter := 0

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				unlock := kl.Lock("flight:1")
				counter++
				unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*iterations, counter)
}

func TestKeyLocksEntriesReleased(t *testing.T) {
	kl := newKeyLocks()

	unlockA := kl.Lock(airplaneKey(1))
	unlockB := kl.Lock(flightKey(2))
	unlockA()
	unlockB()

	kl.mu.Lock()
	defer kl.mu.Unlock()
	assert.Empty(t, kl.entries)
}

func TestKeyLocksIndependentKeys(t *testing.T) {
	kl := newKeyLocks()

	unlockA := kl.Lock(airplaneKey(1))
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := kl.Lock(airplaneKey(2))
		unlockB()
		close(done)
	}()
	<-done
}
