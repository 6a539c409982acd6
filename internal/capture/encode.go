package capture

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"io"
)

// Encoder serializes a normalized RGBA8 buffer.
type Encoder interface {
	Encode(img *image.NRGBA) ([]byte, error)
}

const pngSignature = "\x89PNG\r\n\x1a\n"

const (
	pngBitDepth      = 8
	pngColorTypeRGBA = 6
)

// PNGEncoder writes 8-bit RGBA PNGs. Unlike image/png it always declares
// color type 6, including for fully opaque captures. Output is
// deterministic for a given buffer and compression level.
type PNGEncoder struct {
	Compression png.CompressionLevel
}

func (e PNGEncoder) Encode(img *image.NRGBA) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", w, h)
	}
	rowLen := 4 * w
	if img.Stride < rowLen || len(img.Pix) < (h-1)*img.Stride+rowLen {
		return nil, fmt.Errorf("pixel buffer too short for %dx%d: len=%d stride=%d", w, h, len(img.Pix), img.Stride)
	}

	var buf bytes.Buffer
	buf.Grow(rowLen*h/2 + 64)
	buf.WriteString(pngSignature)

	var ihdr [13]byte
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(w))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(h))
	ihdr[8] = pngBitDepth
	ihdr[9] = pngColorTypeRGBA
	// compression, filter and interlace methods are all 0
	if err := writeChunk(&buf, "IHDR", ihdr[:]); err != nil {
		return nil, err
	}

	var data bytes.Buffer
	zw, err := zlib.NewWriterLevel(&data, zlibLevel(e.Compression))
	if err != nil {
		return nil, fmt.Errorf("zlib writer: %w", err)
	}
	row := make([]byte, 1+rowLen)
	for y := 0; y < h; y++ {
		// filter type 0 (None)
		off := y * img.Stride
		copy(row[1:], img.Pix[off:off+rowLen])
		if _, err := zw.Write(row); err != nil {
			return nil, fmt.Errorf("compress row %d: %w", y, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}
	if err := writeChunk(&buf, "IDAT", data.Bytes()); err != nil {
		return nil, err
	}
	if err := writeChunk(&buf, "IEND", nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeChunk(w io.Writer, name string, data []byte) error {
	var header [8]byte
	binary.BigEndian.PutUint32(header[:4], uint32(len(data)))
	copy(header[4:], name)
	crc := crc32.NewIEEE()
	crc.Write(header[4:8])
	crc.Write(data)
	var footer [4]byte
	binary.BigEndian.PutUint32(footer[:], crc.Sum32())

	for _, b := range [][]byte{header[:], data, footer[:]} {
		if _, err := w.Write(b); err != nil {
			return fmt.Errorf("write %s chunk: %w", name, err)
		}
	}
	return nil
}

func zlibLevel(l png.CompressionLevel) int {
	switch l {
	case png.NoCompression:
		return zlib.NoCompression
	case png.BestSpeed:
		return zlib.BestSpeed
	case png.BestCompression:
		return zlib.BestCompression
	default:
		return zlib.DefaultCompression
	}
}
