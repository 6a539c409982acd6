package capture

import (
	"image"
	"testing"
)

func TestNewDisplaysPrimary(t *testing.T) {
	tests := []struct {
		name        string
		bounds      []image.Rectangle
		wantPrimary int
	}{
		{"single", []image.Rectangle{image.Rect(0, 0, 1920, 1080)}, 0},
		{"origin second", []image.Rectangle{image.Rect(-1280, 0, 0, 1024), image.Rect(0, 0, 1920, 1080)}, 1},
		{"no display at origin", []image.Rectangle{image.Rect(1920, 0, 3840, 1080), image.Rect(3840, 0, 5120, 1024)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monitors := newDisplays(tt.bounds)
			if len(monitors) != len(tt.bounds) {
				t.Fatalf("got %d displays, want %d", len(monitors), len(tt.bounds))
			}
			primaries := 0
			for i, m := range monitors {
				if m.Index() != i || m.Bounds() != tt.bounds[i] {
					t.Fatalf("display %d = %d %v", i, m.Index(), m.Bounds())
				}
				ok, err := m.IsPrimary()
				if err != nil {
					t.Fatalf("IsPrimary: %v", err)
				}
				if ok {
					primaries++
					if i != tt.wantPrimary {
						t.Fatalf("primary = %d, want %d", i, tt.wantPrimary)
					}
				}
			}
			if primaries != 1 {
				t.Fatalf("expected exactly one primary, got %d", primaries)
			}

			m, err := selectMonitor(monitors, nil, nil)
			if err != nil {
				t.Fatalf("selectMonitor: %v", err)
			}
			if m.Index() != tt.wantPrimary {
				t.Fatalf("selected %d, want %d", m.Index(), tt.wantPrimary)
			}
		})
	}
}

func TestNewDisplaysEmpty(t *testing.T) {
	if got := newDisplays(nil); len(got) != 0 {
		t.Fatalf("expected no displays, got %d", len(got))
	}
}
