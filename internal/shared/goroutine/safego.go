// Package goroutine launches background work with panic recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

// SafeGo launches fn in a goroutine. A panic is logged with its stack
// instead of crashing the process.
func SafeGo(log logger.Interface, name string, fn func()) {
	go run(log, name, fn)
}

// Group is SafeGo with a Wait for shutdown, so in-flight side effects
// such as e-mails can finish before the process exits.
type Group struct {
	log logger.Interface
	wg  sync.WaitGroup
}

func NewGroup(log logger.Interface) *Group {
	return &Group{log: log}
}

func (g *Group) Go(name string, fn func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		run(g.log, name, fn)
	}()
}

func (g *Group) Wait() {
	g.wg.Wait()
}

func run(log logger.Interface, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("goroutine panicked",
				"goroutine", name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	fn()
}
