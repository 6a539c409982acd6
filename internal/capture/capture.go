// Package capture grabs a rectangle of a display and returns it as PNG bytes.
package capture

import (
	"image"
	"math"
	"os"
	"time"

	"go.uber.org/zap"
)

// DefaultRegionSize is used for a width or height the caller leaves unset.
const DefaultRegionSize uint32 = 100

// Request describes one capture. X and Y are relative to the selected
// monitor's top-left corner.
type Request struct {
	X      uint32
	Y      uint32
	Width  *uint32
	Height *uint32
	// Monitor selects a display by index; nil selects the primary display.
	Monitor *int
}

// Region resolves the requested rectangle, applying the default size.
func (r Request) Region() (image.Rectangle, error) {
	w, h := DefaultRegionSize, DefaultRegionSize
	if r.Width != nil {
		w = *r.Width
	}
	if r.Height != nil {
		h = *r.Height
	}
	if w == 0 || h == 0 {
		return image.Rectangle{}, newErrorf(ErrInvalidRegion, "resolve region", "size %dx%d is empty", w, h)
	}
	maxX := uint64(r.X) + uint64(w)
	maxY := uint64(r.Y) + uint64(h)
	if maxX > math.MaxInt32 || maxY > math.MaxInt32 {
		return image.Rectangle{}, newErrorf(ErrInvalidRegion, "resolve region", "region (%d,%d %dx%d) exceeds coordinate range", r.X, r.Y, w, h)
	}
	return image.Rect(int(r.X), int(r.Y), int(maxX), int(maxY)), nil
}

// GrabStats describes one completed grab.
type GrabStats struct {
	Monitor   int
	Requested image.Rectangle
	Width     int
	Height    int
	Elapsed   time.Duration
}

// GrabHook observes completed grabs.
type GrabHook func(GrabStats)

// Capturer runs the capture pipeline. It holds no mutable state and is safe
// for concurrent use.
type Capturer struct {
	enum    Enumerator
	grabber Grabber
	encoder Encoder
	onGrab  GrabHook
	log     *zap.Logger
}

type Option func(*Capturer)

func WithEnumerator(e Enumerator) Option { return func(c *Capturer) { c.enum = e } }

func WithGrabber(g Grabber) Option { return func(c *Capturer) { c.grabber = g } }

func WithEncoder(e Encoder) Option { return func(c *Capturer) { c.encoder = e } }

// WithGrabHook replaces the default timing log line. A nil hook disables it.
func WithGrabHook(h GrabHook) Option { return func(c *Capturer) { c.onGrab = h } }

func WithLogger(l *zap.Logger) Option {
	return func(c *Capturer) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a Capturer backed by kbinani/screenshot unless overridden.
func New(opts ...Option) *Capturer {
	c := &Capturer{
		enum:    ScreenEnumerator{},
		grabber: ScreenGrabber{},
		encoder: PNGEncoder{},
		log:     zap.NewNop(),
	}
	c.onGrab = c.logGrab
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Capturer) logGrab(s GrabStats) {
	c.log.Info("region grabbed",
		zap.Int("monitor", s.Monitor),
		zap.Int("width", s.Width),
		zap.Int("height", s.Height),
		zap.Stringer("requested", s.Requested),
		zap.Duration("elapsed", s.Elapsed),
	)
}

// CaptureRegion captures the requested region and returns it PNG-encoded.
func (c *Capturer) CaptureRegion(req Request) ([]byte, error) {
	monitors, err := c.enum.Monitors()
	if err != nil {
		return nil, ensureKind(ErrEnumeration, "list displays", err)
	}

	m, err := selectMonitor(monitors, req.Monitor, func(m Monitor, err error) {
		c.log.Debug("primary query failed", zap.Int("monitor", m.Index()), zap.Error(err))
	})
	if err != nil {
		return nil, err
	}

	region, err := req.Region()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	img, err := c.grabber.Grab(m, region)
	if err != nil {
		return nil, newError(ErrCapture, "grab region", err)
	}
	elapsed := time.Since(start)

	rgba, err := normalize(img)
	if err != nil {
		return nil, newError(ErrCapture, "grab region", err)
	}
	if c.onGrab != nil {
		c.onGrab(GrabStats{
			Monitor:   m.Index(),
			Requested: region,
			Width:     rgba.Rect.Dx(),
			Height:    rgba.Rect.Dy(),
			Elapsed:   elapsed,
		})
	}

	data, err := c.encoder.Encode(rgba)
	if err != nil {
		return nil, newError(ErrEncoding, "encode png", err)
	}
	return data, nil
}

// CaptureAndSave captures like CaptureRegion and, when savePath is not
// empty, writes the bytes to it. A failed write does not repeat the
// capture; the encoded bytes are returned together with the error.
func (c *Capturer) CaptureAndSave(req Request, savePath string) ([]byte, error) {
	data, err := c.CaptureRegion(req)
	if err != nil {
		return nil, err
	}
	if savePath == "" {
		return data, nil
	}
	if err := os.WriteFile(savePath, data, 0o644); err != nil {
		return data, newError(ErrPersistence, "save "+savePath, err)
	}
	c.log.Debug("capture saved", zap.String("path", savePath), zap.Int("bytes", len(data)))
	return data, nil
}

// Monitors describes every attached display.
func (c *Capturer) Monitors() ([]MonitorInfo, error) {
	monitors, err := c.enum.Monitors()
	if err != nil {
		return nil, ensureKind(ErrEnumeration, "list displays", err)
	}
	out := make([]MonitorInfo, 0, len(monitors))
	for _, m := range monitors {
		out = append(out, describe(m))
	}
	return out, nil
}
