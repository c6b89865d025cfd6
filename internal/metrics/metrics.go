// Package metrics wraps go-metrics counters behind a package API so callers
// never touch the registry directly.
package metrics

import (
	"io"
	"os"
	"time"

	gometrics "github.com/rcrowley/go-metrics"
)

type metrics struct {
	log  io.Writer
	reg  gometrics.Registry
	tick time.Duration
}

var m = &metrics{
	log:  os.Stderr,
	reg:  gometrics.DefaultRegistry,
	tick: 60 * time.Second,
}

// Start begins periodic JSON reports to stderr.
func Start(tick time.Duration) {
	if tick > 0 {
		m.tick = tick
	}
	m.start()
}

// WriteOnce writes a final report, for shutdown.
func WriteOnce() {
	m.writeOnce()
}

func Incr(name string, i int64) {
	m.incr(name, i)
}

func Decr(name string, i int64) {
	m.decr(name, i)
}

func (m metrics) start() {
	go gometrics.WriteJSON(m.reg, m.tick, m.log)
}

func (m metrics) writeOnce() {
	gometrics.WriteJSONOnce(m.reg, m.log)
}

func (m metrics) incr(name string, i int64) {
	gometrics.GetOrRegisterCounter(name, m.reg).Inc(i)
}

func (m metrics) decr(name string, i int64) {
	gometrics.GetOrRegisterCounter(name, m.reg).Dec(i)
}
