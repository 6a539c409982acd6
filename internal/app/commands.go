package app

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ximeiorg/jietu/internal/capture"
	"github.com/ximeiorg/jietu/internal/logging"
	"github.com/ximeiorg/jietu/internal/protocol"
)

// dispatch runs one command and builds its response. Every failure is
// terminal for the request.
func (a *App) dispatch(req protocol.Request) protocol.Response {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	log := logging.WithRequest(a.log, req.ID, req.Command)
	resp := protocol.Response{ID: req.ID, Code: protocol.CodeOK}

	var err error
	switch req.Command {
	case protocol.CmdCaptureRegion, protocol.CmdCaptureRegionLegacy:
		resp.Data, err = a.svc.CaptureRegion(req.CaptureRequest())
	case protocol.CmdCapture:
		savePath := ""
		if req.SavePath != nil {
			savePath = *req.SavePath
		}
		resp.Data, err = a.svc.CaptureAndSave(req.CaptureRequest(), savePath)
	case protocol.CmdMonitors:
		resp.Monitors, err = a.svc.Monitors()
	default:
		log.Warn("unknown command")
		return protocol.Response{ID: req.ID, Code: protocol.CodeBadRequest, Kind: "unknown_command", Error: "unknown command: " + req.Command}
	}

	if err != nil {
		log.Warn("command failed", zap.Error(err))
		return protocol.Response{ID: req.ID, Code: codeFor(err), Kind: capture.KindName(err), Error: err.Error()}
	}
	log.Debug("command done", zap.Int("bytes", len(resp.Data)))
	return resp
}

func codeFor(err error) int {
	if errors.Is(err, capture.ErrInvalidRegion) || errors.Is(err, capture.ErrMonitorNotFound) {
		return protocol.CodeBadRequest
	}
	return protocol.CodeFailed
}
