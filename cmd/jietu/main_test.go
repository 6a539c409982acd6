package main

import (
	"image"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ximeiorg/jietu/internal/capture"
	"github.com/ximeiorg/jietu/internal/logging"
)

func newCaptureFlags() *cobra.Command {
	cmd := &cobra.Command{Use: "capture"}
	cmd.Flags().Uint32("x", 0, "")
	cmd.Flags().Uint32("y", 0, "")
	cmd.Flags().Uint32("width", 100, "")
	cmd.Flags().Uint32("height", 100, "")
	cmd.Flags().Int("monitor", 0, "")
	return cmd
}

func TestCaptureRequestDefaults(t *testing.T) {
	cmd := newCaptureFlags()
	if err := cmd.Flags().Parse([]string{"--x", "12", "--y", "34"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	req, err := captureRequest(cmd)
	if err != nil {
		t.Fatalf("captureRequest: %v", err)
	}
	if req.X != 12 || req.Y != 34 {
		t.Fatalf("origin = %d,%d", req.X, req.Y)
	}
	if req.Width != nil || req.Height != nil || req.Monitor != nil {
		t.Fatalf("unset flags should stay nil: %+v", req)
	}
}

func TestCaptureRequestExplicit(t *testing.T) {
	cmd := newCaptureFlags()
	if err := cmd.Flags().Parse([]string{"--width", "0", "--height", "20", "--monitor", "1"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	req, err := captureRequest(cmd)
	if err != nil {
		t.Fatalf("captureRequest: %v", err)
	}
	if req.Width == nil || *req.Width != 0 || req.Height == nil || *req.Height != 20 {
		t.Fatalf("unexpected size %+v", req)
	}
	if req.Monitor == nil || *req.Monitor != 1 {
		t.Fatalf("monitor not set")
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"serve": false, "capture": false, "monitors": false, "version": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

type oneDisplay struct{}

func (oneDisplay) Index() int               { return 0 }
func (oneDisplay) Bounds() image.Rectangle  { return image.Rect(0, 0, 320, 240) }
func (oneDisplay) IsPrimary() (bool, error) { return true, nil }

type blankScreen struct{}

func (blankScreen) Monitors() ([]capture.Monitor, error) { return []capture.Monitor{oneDisplay{}}, nil }

func (blankScreen) Grab(_ capture.Monitor, r image.Rectangle) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy())), nil
}

func TestNewCapturerUsesComponentLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := newCapturer(zap.New(core), capture.WithEnumerator(blankScreen{}), capture.WithGrabber(blankScreen{}))

	if _, err := svc.Monitors(); err != nil {
		t.Fatalf("Monitors: %v", err)
	}
	if _, err := svc.CaptureRegion(capture.Request{}); err != nil {
		t.Fatalf("CaptureRegion: %v", err)
	}

	entries := logs.FilterMessage("region grabbed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one grab entry, got %d", len(entries))
	}
	e := entries[0]
	if e.LoggerName != "capture" {
		t.Fatalf("logger name = %q", e.LoggerName)
	}
	if got := e.ContextMap()[logging.KeyComponent]; got != "capture" {
		t.Fatalf("component = %v", got)
	}
}
