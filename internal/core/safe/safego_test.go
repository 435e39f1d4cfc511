package safe

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGo_Runs(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	ran := false
	Go("test", func() {
		defer wg.Done()
		ran = true
	})
	wg.Wait()
	assert.True(t, ran)
}

func TestGoWithCallback_RecoversPanic(t *testing.T) {
	before := GetStats()
	got := make(chan interface{}, 1)

	GoWithCallback("panicky", func() {
		panic("boom")
	}, func(r interface{}) {
		got <- r
	})

	select {
	case r := <-got:
		assert.Equal(t, "boom", r)
	case <-time.After(5 * time.Second):
		t.Fatal("onPanic not called")
	}

	require.Eventually(t, func() bool {
		return GetStats().PanicCount == before.PanicCount+1
	}, time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, GetStats().Total, before.Total+1)
}
