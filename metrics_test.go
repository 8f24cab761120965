package rtfiber

import (
	"testing"
	"time"
)

func TestLatenessMetricsSmallSampleExactPercentiles(t *testing.T) {
	var m LatenessMetrics
	for _, d := range []time.Duration{1, 2, 3, 4} {
		m.Record(d * time.Millisecond)
	}
	if n := m.Sample(); n != 4 {
		t.Fatalf("Sample() = %d, want 4", n)
	}
	if m.Max != 4*time.Millisecond {
		t.Errorf("Max = %v, want 4ms", m.Max)
	}
	if m.Mean != 2500*time.Microsecond {
		t.Errorf("Mean = %v, want 2.5ms", m.Mean)
	}
}

func TestLatenessMetricsEmptySampleReportsZero(t *testing.T) {
	var m LatenessMetrics
	if n := m.Sample(); n != 0 {
		t.Errorf("Sample() on an empty metric = %d, want 0", n)
	}
}

func TestQueueDepthMetricsTracksMaxAndCurrent(t *testing.T) {
	var q QueueDepthMetrics
	q.UpdateWaiting(3)
	q.UpdateWaiting(1)
	q.UpdateWaiting(5)

	if q.WaitingCurrent != 5 {
		t.Errorf("WaitingCurrent = %d, want 5", q.WaitingCurrent)
	}
	if q.WaitingMax != 5 {
		t.Errorf("WaitingMax = %d, want 5", q.WaitingMax)
	}
}

func TestDispatchRateCounterCountsWithinWindow(t *testing.T) {
	c := NewDispatchRateCounter(time.Second, 100*time.Millisecond)
	for i := 0; i < 10; i++ {
		c.Increment()
	}
	if rate := c.Rate(); rate <= 0 {
		t.Errorf("Rate() = %v after 10 increments, want > 0", rate)
	}
}

func TestDispatchRateCounterPanicsOnInvalidWindow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewDispatchRateCounter must panic when bucketSize exceeds windowSize")
		}
	}()
	NewDispatchRateCounter(time.Millisecond, time.Second)
}
