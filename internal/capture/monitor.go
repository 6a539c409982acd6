package capture

import (
	"image"

	"github.com/kbinani/screenshot"
)

// Monitor is a handle to one physical display.
type Monitor interface {
	Index() int
	// Bounds is the display rectangle in virtual-desktop coordinates.
	Bounds() image.Rectangle
	IsPrimary() (bool, error)
}

// Enumerator lists the displays currently attached.
type Enumerator interface {
	Monitors() ([]Monitor, error)
}

// MonitorInfo is a serializable description of a display.
type MonitorInfo struct {
	Index   int  `json:"index"`
	X       int  `json:"x"`
	Y       int  `json:"y"`
	Width   int  `json:"width"`
	Height  int  `json:"height"`
	Primary bool `json:"primary"`
}

// display is a kbinani/screenshot display.
type display struct {
	index   int
	bounds  image.Rectangle
	primary bool
}

func (d display) Index() int               { return d.index }
func (d display) Bounds() image.Rectangle  { return d.bounds }
func (d display) IsPrimary() (bool, error) { return d.primary, nil }

// ScreenEnumerator enumerates displays through kbinani/screenshot.
type ScreenEnumerator struct{}

func (ScreenEnumerator) Monitors() ([]Monitor, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return nil, newErrorf(ErrEnumeration, "list displays", "no active displays")
	}
	bounds := make([]image.Rectangle, n)
	for i := range bounds {
		bounds[i] = screenshot.GetDisplayBounds(i)
	}
	return newDisplays(bounds), nil
}

// newDisplays marks the display at the virtual-desktop origin as primary.
// screenshot exposes no primary flag: Windows and macOS always place the main
// display at the origin, but an X11 RandR layout may not, in which case the
// first display reported is taken as primary.
func newDisplays(bounds []image.Rectangle) []Monitor {
	primary := 0
	for i, b := range bounds {
		if b.Min == (image.Point{}) {
			primary = i
			break
		}
	}
	out := make([]Monitor, 0, len(bounds))
	for i, b := range bounds {
		out = append(out, display{index: i, bounds: b, primary: i == primary})
	}
	return out
}

// selectMonitor picks the display with the given index, or the primary one
// when index is nil. A failed primary query counts as "not primary".
func selectMonitor(monitors []Monitor, index *int, onQueryErr func(Monitor, error)) (Monitor, error) {
	if index != nil {
		for _, m := range monitors {
			if m.Index() == *index {
				return m, nil
			}
		}
		return nil, newErrorf(ErrMonitorNotFound, "select monitor", "no display with index %d", *index)
	}
	for _, m := range monitors {
		primary, err := m.IsPrimary()
		if err != nil {
			if onQueryErr != nil {
				onQueryErr(m, err)
			}
			continue
		}
		if primary {
			return m, nil
		}
	}
	return nil, newError(ErrNoPrimaryMonitor, "select monitor", nil)
}

func describe(m Monitor) MonitorInfo {
	b := m.Bounds()
	info := MonitorInfo{
		Index:  m.Index(),
		X:      b.Min.X,
		Y:      b.Min.Y,
		Width:  b.Dx(),
		Height: b.Dy(),
	}
	info.Primary, _ = m.IsPrimary()
	return info
}
