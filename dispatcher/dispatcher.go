// Package dispatcher sits between the producer-side ring and the
// backend readers: it drains a ring.Ring[record.Record] and republishes
// each record onto an SPMC snapshot channel, so any number of backend
// readers see the latest record without contending with each other or
// slowing the producer down.
//
// Because the SPMC channel is last-writer-wins, a slow reader can miss
// intermediate records between two of its TryRead calls - this
// dispatcher is a broadcast of current state, not a delivery-guaranteed
// queue. Readers that need every record (the durable backend, in
// particular) must drain the ring directly instead of going through the
// dispatcher; readers that only care about the latest value (monitors,
// dashboards) use the SPMC channel.
package dispatcher

import (
	"runtime"

	"github.com/UglyPusher/Cncl-RT-WAL/lifecycle"
	"github.com/UglyPusher/Cncl-RT-WAL/record"
	"github.com/UglyPusher/Cncl-RT-WAL/ring"
	"github.com/UglyPusher/Cncl-RT-WAL/snapshot"
)

// Dispatcher drains one ring into one SPMC snapshot channel.
type Dispatcher struct {
	lc       *lifecycle.Lifecycle
	source   *ring.Ring[record.Record]
	channel  *snapshot.SPMCChannel[record.Record]
	producer *snapshot.SPMCProducer[record.Record]
}

// New returns a Dispatcher that drains source and republishes onto a
// freshly allocated SPMC channel sized for readers concurrent readers.
func New(lc *lifecycle.Lifecycle, source *ring.Ring[record.Record], readers int) *Dispatcher {
	channel := snapshot.NewSPMCChannel[record.Record](readers)
	return &Dispatcher{
		lc:       lc,
		source:   source,
		channel:  channel,
		producer: channel.NewProducer(),
	}
}

// Reader derives a consumer handle for reader slot index. index must be
// unique per goroutine calling TryRead.
func (d *Dispatcher) Reader(index int) *snapshot.SPMCConsumer[record.Record] {
	return d.channel.NewConsumer(index)
}

// Run drains the source ring and republishes every record until the
// bound lifecycle leaves RUN, then drains whatever remains in the ring
// once more before returning - matching the DRAINING stage's contract
// that no record already accepted into the ring is dropped on a
// controlled shutdown.
func (d *Dispatcher) Run() {
	for d.lc.Running() || d.lc.Draining() {
		if rec, ok := d.source.Pop(); ok {
			d.producer.Publish(rec)
			d.lc.SignalActivity()
			continue
		}
		if d.lc.Draining() {
			return
		}
		runtime.Gosched()
	}
}
