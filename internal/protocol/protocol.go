package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ximeiorg/jietu/internal/capture"
)

// Command names accepted by the bridge.
const (
	CmdCaptureRegion = "capture_region"
	// CmdCaptureRegionLegacy is the older frontend name for capture_region.
	CmdCaptureRegionLegacy = "xcap_start"
	CmdCapture             = "capture"
	CmdMonitors            = "monitors"
)

// Status codes carried in Response.Code.
const (
	CodeOK         = 200
	CodeBadRequest = 400
	CodeFailed     = 500
)

// DefaultMaxFrameSize bounds a single frame read from the peer.
const DefaultMaxFrameSize = 64 << 20

// ErrFrameTooLarge is returned when a peer announces an oversized frame.
var ErrFrameTooLarge = errors.New("frame exceeds size limit")

// Request 为前端发给后端的命令
type Request struct {
	ID       string  `json:"id,omitempty"`
	Command  string  `json:"command"`
	X        uint32  `json:"x"`
	Y        uint32  `json:"y"`
	Width    *uint32 `json:"width,omitempty"`
	Height   *uint32 `json:"height,omitempty"`
	Monitor  *int    `json:"monitor,omitempty"`
	SavePath *string `json:"save_path,omitempty"`
}

// CaptureRequest converts the wire fields into a pipeline request.
func (r Request) CaptureRequest() capture.Request {
	return capture.Request{
		X:       r.X,
		Y:       r.Y,
		Width:   r.Width,
		Height:  r.Height,
		Monitor: r.Monitor,
	}
}

// Response 为后端返回给前端的统一消息体
type Response struct {
	ID       string                `json:"id,omitempty"`
	Code     int                   `json:"code"`
	Kind     string                `json:"kind,omitempty"`
	Error    string                `json:"error,omitempty"`
	Data     []byte                `json:"data,omitempty"`
	Monitors []capture.MonitorInfo `json:"monitors,omitempty"`
}

// SendWithLengthPrefix 按 4 字节大端长度前缀发送
func SendWithLengthPrefix(w io.Writer, data []byte) error {
	if uint64(len(data)) > 1<<32-1 {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(data))
	}
	var lengthBuf [4]byte
	binary.BigEndian.PutUint32(lengthBuf[:], uint32(len(data)))
	if _, err := w.Write(lengthBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// ReadWithLengthPrefix 读取 4 字节大端长度前缀帧，超过 maxSize 的帧被拒绝
func ReadWithLengthPrefix(r io.Reader, maxSize int) ([]byte, error) {
	var lengthBuf [4]byte
	if _, err := io.ReadFull(r, lengthBuf[:]); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(lengthBuf[:])
	if maxSize <= 0 {
		maxSize = DefaultMaxFrameSize
	}
	if uint64(length) > uint64(maxSize) {
		return nil, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, length, maxSize)
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}
