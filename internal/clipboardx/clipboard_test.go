package clipboardx

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_RecordsWrites(t *testing.T) {
	m := NewMemory()

	require.NoError(t, m.Write("one"))
	require.NoError(t, m.Write("two"))
	require.NoError(t, m.Write(""))

	assert.Equal(t, "", m.Current())
	assert.Equal(t, 3, m.WriteCount())
}

func TestMemory_ConcurrentWrites(t *testing.T) {
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Write("x")
		}()
	}
	wg.Wait()

	assert.Equal(t, 16, m.WriteCount())
	assert.Equal(t, "x", m.Current())
}
