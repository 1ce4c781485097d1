package handlers

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSessionLocks_Serializes(t *testing.T) {
	locks := newSessionLocks()
	id := uuid.New()

	var wg sync.WaitGroup
	counter, inside, maxInside := 0, 0, 0
	var mu sync.Mutex

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock(id)
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()

			counter++

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 1, maxInside)
	assert.Equal(t, 0, locks.size(), "idle entries are dropped")
}

func TestSessionLocks_IndependentSessions(t *testing.T) {
	locks := newSessionLocks()
	unlockA := locks.lock(uuid.New())
	unlockB := locks.lock(uuid.New())
	assert.Equal(t, 2, locks.size())
	unlockA()
	unlockB()
	assert.Equal(t, 0, locks.size())
}
