package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dichuniv/internal/data"
)

func TestFixedRunIDGenerator_Sequence(t *testing.T) {
	g := NewFixedRunIDGenerator("")

	assert.Equal(t, "test-run-0001", g.Generate())
	assert.Equal(t, "test-run-0002", g.Generate())

	g2 := NewFixedRunIDGenerator("golden")
	assert.Equal(t, "golden-0001", g2.Generate())
}

func TestFixedRunIDGenerator_Concurrent(t *testing.T) {
	g := NewFixedRunIDGenerator("c")

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[string]bool)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := g.Generate()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 50)
}

func TestFixtures_Validate(t *testing.T) {
	obs, err := data.New(ExampleContext())
	require.NoError(t, err)
	assert.Equal(t, 3, obs.Z())

	empty, err := data.New(EmptyContext())
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Z())

	assert.Equal(t, []float64{0.25}, Inits(0.25, 1).Reals("alpha"))
}
