package taskwrapper

import (
	"testing"
	"time"

	"github.com/UglyPusher/Cncl-RT-WAL/lifecycle"
)

func TestBeatPublishesIncreasingSeq(t *testing.T) {
	lc := lifecycle.New()
	tw := New(lc, []byte("seed-a"))
	cons := tw.Consumer()

	tw.Beat()
	tw.Beat()
	tw.Beat()

	hb := cons.Read()
	if hb.Seq != 3 {
		t.Fatalf("Seq = %d, want 3", hb.Seq)
	}
}

func TestSessionTagDiffersAcrossSeeds(t *testing.T) {
	a := New(lifecycle.New(), []byte("seed-a"))
	b := New(lifecycle.New(), []byte("seed-b"))

	a.Beat()
	b.Beat()

	hbA := a.Consumer().Read()
	hbB := b.Consumer().Read()

	if hbA.SessionTag == hbB.SessionTag {
		t.Fatal("SessionTag identical across different seeds")
	}
}

func TestSessionTagStableAcrossBeats(t *testing.T) {
	tw := New(lifecycle.New(), []byte("seed-stable"))
	cons := tw.Consumer()

	tw.Beat()
	first := cons.Read().SessionTag

	tw.Beat()
	second := cons.Read().SessionTag

	if first != second {
		t.Fatal("SessionTag changed between beats from the same TaskWrapper")
	}
}

func TestRunStopsWhenLifecycleLeavesRunning(t *testing.T) {
	lc := lifecycle.New()
	lc.Run()
	tw := New(lc, []byte("seed-run"))

	done := make(chan struct{})
	go func() {
		tw.Run(2 * time.Millisecond)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	lc.Drain()

	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("Run() did not return after lifecycle left RUN")
	}

	if tw.Consumer().Read().Seq == 0 {
		t.Fatal("no heartbeats were published before shutdown")
	}
}
