package sysmon

import "testing"

func TestSample_ReturnsValidRanges(t *testing.T) {
	s := Sample()
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
}

func TestSample_MemPercentNonZero(t *testing.T) {
	s := Sample()
	if s.MemPercent == 0 {
		t.Error("expected non-zero MemPercent on a running system")
	}
}

func TestSamplerBoundsHistory(t *testing.T) {
	sampler := NewSampler(3, nil)
	for i := 0; i < 5; i++ {
		sampler.Sample()
	}
	if got := len(sampler.History()); got != 3 {
		t.Errorf("history length = %d, want 3", got)
	}
}

func TestSamplerLast(t *testing.T) {
	sampler := NewSampler(4, nil)
	if got := sampler.Last(); got != (Stats{}) {
		t.Errorf("Last() on empty sampler = %+v, want zero", got)
	}

	snap := sampler.Sample()
	if got := sampler.Last(); got != snap {
		t.Errorf("Last() = %+v, want %+v", got, snap)
	}
}
