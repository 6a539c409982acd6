package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/ximeiorg/jietu/internal/protocol"
)

// Handler 注册 HTTP 路由
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /capture", a.handleCapture)
	mux.HandleFunc("GET /monitors", a.handleMonitors)
	return mux
}

// handleCapture 截取区域并直接返回 PNG；不支持写盘，保存只能走 TCP 桥
func (a *App) handleCapture(w http.ResponseWriter, r *http.Request) {
	req, err := parseCaptureQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := a.dispatch(req)
	if resp.Code != protocol.CodeOK {
		w.Header().Set("X-Error-Kind", resp.Kind)
		http.Error(w, resp.Error, resp.Code)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(resp.Data)))
	w.Header().Set("X-Request-Id", resp.ID)
	if _, err := w.Write(resp.Data); err != nil {
		a.log.Debug("write png response failed", zap.Error(err))
	}
}

func (a *App) handleMonitors(w http.ResponseWriter, r *http.Request) {
	resp := a.dispatch(protocol.Request{Command: protocol.CmdMonitors})
	if resp.Code != protocol.CodeOK {
		w.Header().Set("X-Error-Kind", resp.Kind)
		http.Error(w, resp.Error, resp.Code)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp.Monitors); err != nil {
		a.log.Debug("write monitors response failed", zap.Error(err))
	}
}

var errSaveOverHTTP = errors.New("save is not accepted over http; use the capture command on the bridge")

func parseCaptureQuery(q url.Values) (protocol.Request, error) {
	req := protocol.Request{Command: protocol.CmdCaptureRegion}

	var err error
	if req.X, err = parseUint32(q, "x", 0); err != nil {
		return req, err
	}
	if req.Y, err = parseUint32(q, "y", 0); err != nil {
		return req, err
	}
	for _, dim := range []struct {
		key string
		dst **uint32
	}{{"width", &req.Width}, {"height", &req.Height}} {
		if !q.Has(dim.key) {
			continue
		}
		v, err := parseUint32(q, dim.key, 0)
		if err != nil {
			return req, err
		}
		*dim.dst = &v
	}
	if q.Has("monitor") {
		idx, err := strconv.Atoi(q.Get("monitor"))
		if err != nil {
			return req, fmt.Errorf("invalid monitor %q", q.Get("monitor"))
		}
		req.Monitor = &idx
	}
	// A GET can be triggered by any page the user visits.
	if q.Has("save") {
		return req, errSaveOverHTTP
	}
	return req, nil
}

func parseUint32(q url.Values, key string, def uint32) (uint32, error) {
	s := q.Get(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return uint32(v), nil
}
