package clipboard

import (
	"go-clipboard-converter/monitor"
	"testing"
)

var _ monitor.TextSource = Source{}

func TestSource_RoundTrip(t *testing.T) {
	s := Source{}
	if !s.Available() {
		t.Skip("no clipboard utility available")
	}

	previous, err := s.Read()
	if err != nil {
		t.Skipf("clipboard not readable here: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Write(previous); err != nil {
			t.Errorf("restoring clipboard: %v", err)
		}
	})

	if err := s.Write("$12.50"); err != nil {
		t.Skipf("clipboard not writable here: %v", err)
	}

	got, err := s.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != "$12.50" {
		t.Errorf("Read() = %q, want %q", got, "$12.50")
	}
}
