package goroutine

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

func TestGroup_WaitsAndRecovers(t *testing.T) {
	g := NewGroup(logger.NewNopLogger())
	var ran atomic.Int32

	g.Go("ok", func() { ran.Add(1) })
	g.Go("panics", func() { panic("boom") })
	g.Go("ok-again", func() { ran.Add(1) })
	g.Wait()

	assert.Equal(t, int32(2), ran.Load())
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	done := make(chan struct{})
	SafeGo(logger.NewNopLogger(), "panics", func() {
		defer close(done)
		panic("boom")
	})
	<-done
}
