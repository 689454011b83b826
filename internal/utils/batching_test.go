package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchBuffer_AddReportsFull(t *testing.T) {
	b := NewBatchBufferSize[int](3)

	assert.False(t, b.Add(1))
	assert.False(t, b.Add(2))
	assert.True(t, b.Add(3))
	assert.Equal(t, 3, b.Size())
}

func TestBatchBuffer_GetAndClear(t *testing.T) {
	b := NewBatchBuffer[string]()
	assert.Nil(t, b.GetAndClear())

	b.Add("a")
	b.Add("b")
	assert.Equal(t, []string{"a", "b"}, b.GetAndClear())
	assert.Zero(t, b.Size())
	assert.Nil(t, b.GetAndClear())
}

func TestBatchBuffer_InvalidCapacityUsesDefault(t *testing.T) {
	b := NewBatchBufferSize[int](0)
	for i := 1; i < BATCH_SIZE; i++ {
		assert.False(t, b.Add(i))
	}
	assert.True(t, b.Add(BATCH_SIZE))
}

func TestBatchBuffer_ConcurrentAdds(t *testing.T) {
	b := NewBatchBufferSize[int](1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				b.Add(j)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, b.GetAndClear(), 500)
}
