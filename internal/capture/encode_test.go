package capture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestPNGEncoderRoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 5, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 80), B: 17, A: uint8(255 - x*10)})
		}
	}

	for _, level := range []png.CompressionLevel{png.DefaultCompression, png.NoCompression, png.BestSpeed, png.BestCompression} {
		data, err := PNGEncoder{Compression: level}.Encode(src)
		if err != nil {
			t.Fatalf("encode (level %d): %v", level, err)
		}
		decoded, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decode (level %d): %v", level, err)
		}
		got, ok := decoded.(*image.NRGBA)
		if !ok {
			t.Fatalf("decoded %T, want *image.NRGBA", decoded)
		}
		if got.Rect != src.Rect || !bytes.Equal(got.Pix, src.Pix) {
			t.Fatalf("round trip mismatch at level %d", level)
		}
	}
}

func TestPNGEncoderOpaqueKeepsAlphaChannel(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	data, err := PNGEncoder{}.Encode(src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, _, depth, ct := ihdr(t, data); depth != 8 || ct != 6 {
		t.Fatalf("depth=%d color type=%d, want 8/6", depth, ct)
	}
}

func TestPNGEncoderRejectsBadBuffers(t *testing.T) {
	short := &image.NRGBA{Pix: make([]uint8, 10), Stride: 16, Rect: image.Rect(0, 0, 4, 4)}
	if _, err := (PNGEncoder{}).Encode(short); err == nil {
		t.Fatalf("expected error for short buffer")
	}
	if _, err := (PNGEncoder{}).Encode(image.NewNRGBA(image.Rectangle{})); err == nil {
		t.Fatalf("expected error for empty image")
	}
	if _, err := (PNGEncoder{}).Encode(nil); err == nil {
		t.Fatalf("expected error for nil image")
	}
}
