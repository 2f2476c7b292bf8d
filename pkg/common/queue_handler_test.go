package common

import (
	"sync"
	"testing"
)

func TestQueueHandlerProcessesInChunks(t *testing.T) {
	var mu sync.Mutex
	batches := [][]int{}
	q := NewQueueHandler(func(items []int) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, append([]int(nil), items...))
	}, 2)
	defer q.Close()

	q.Add(1, 2, 3, 4, 5)
	q.Wait()

	mu.Lock()
	defer mu.Unlock()
	total := 0
	for _, b := range batches {
		if len(b) > 2 {
			t.Errorf("batch larger than chunk size: %v", b)
		}
		total += len(b)
	}
	if total != 5 {
		t.Errorf("expected 5 processed items got %d", total)
	}
}
