package goid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_NonZero(t *testing.T) {
	require.NotZero(t, ID(), "current goroutine should have a parsable ID")
}

func TestID_StableWithinGoroutine(t *testing.T) {
	assert.Equal(t, ID(), ID(), "repeated calls on one goroutine should agree")
}

func TestID_DistinctAcrossGoroutines(t *testing.T) {
	const goroutines = 50

	var wg sync.WaitGroup
	ids := make(chan int64, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- ID()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		require.NotZero(t, id)
		assert.False(t, seen[id], "goroutine ID %d seen twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, goroutines)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int64
	}{
		{"typical header", "goroutine 123 [running]:\nmain.main()", 123},
		{"single digit", "goroutine 7 [running]:", 7},
		{"not a header", "panic: something", 0},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parse([]byte(tt.in)))
		})
	}
}
