package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// Grabber captures a rectangle of a monitor. The rectangle is relative to
// the monitor's top-left corner.
type Grabber interface {
	Grab(m Monitor, region image.Rectangle) (image.Image, error)
}

// ScreenGrabber captures through kbinani/screenshot. Regions extending past
// the monitor edge are clipped to it.
type ScreenGrabber struct{}

func (ScreenGrabber) Grab(m Monitor, region image.Rectangle) (image.Image, error) {
	target, err := clip(m, region)
	if err != nil {
		return nil, err
	}
	img, err := screenshot.CaptureRect(target)
	if err != nil {
		return nil, fmt.Errorf("capture screen: %w", err)
	}
	return img, nil
}

// clip translates a monitor-relative region to virtual-desktop coordinates
// and cuts it to the monitor's bounds.
func clip(m Monitor, region image.Rectangle) (image.Rectangle, error) {
	bounds := m.Bounds()
	target := region.Add(bounds.Min).Intersect(bounds)
	if target.Empty() {
		return image.Rectangle{}, fmt.Errorf("region %v lies outside display %d (%dx%d)", region, m.Index(), bounds.Dx(), bounds.Dy())
	}
	return target, nil
}
