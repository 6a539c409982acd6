package capture

import (
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// BGRA is an in-memory image whose pixels are stored blue, green, red,
// alpha, non-premultiplied. Platform grabbers that read a framebuffer in
// its native byte order return this type.
type BGRA struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

func NewBGRA(r image.Rectangle) *BGRA {
	return &BGRA{
		Pix:    make([]uint8, 4*r.Dx()*r.Dy()),
		Stride: 4 * r.Dx(),
		Rect:   r,
	}
}

func (p *BGRA) ColorModel() color.Model { return color.NRGBAModel }

func (p *BGRA) Bounds() image.Rectangle { return p.Rect }

func (p *BGRA) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(p.Rect)) {
		return color.NRGBA{}
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+4 : i+4]
	return color.NRGBA{R: s[2], G: s[1], B: s[0], A: s[3]}
}

func (p *BGRA) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*4
}

// normalize converts a grabbed image into a tightly packed,
// non-premultiplied RGBA8 buffer anchored at the origin.
func normalize(img image.Image) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("grabber returned no image")
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("grabber returned an empty image (%dx%d)", b.Dx(), b.Dy())
	}
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	rowLen := 4 * w

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowLen], src.Pix[i:i+rowLen])
		}
	case *image.RGBA:
		// Premultiplied and straight alpha agree only for opaque pixels.
		if !src.Opaque() {
			xdraw.Draw(dst, dst.Rect, src, b.Min, xdraw.Src)
			break
		}
		for y := 0; y < h; y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowLen], src.Pix[i:i+rowLen])
		}
	case *BGRA:
		for y := 0; y < h; y++ {
			s := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			d := dst.Pix[y*dst.Stride:]
			for x := 0; x < rowLen; x += 4 {
				d[x+0] = s[x+2]
				d[x+1] = s[x+1]
				d[x+2] = s[x+0]
				d[x+3] = s[x+3]
			}
		}
	default:
		xdraw.Draw(dst, dst.Rect, src, b.Min, xdraw.Src)
	}
	return dst, nil
}
