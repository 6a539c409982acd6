package app

import (
	"encoding/json"
	"errors"
	"io"
	"net"

	"go.uber.org/zap"

	"github.com/ximeiorg/jietu/internal/protocol"
)

func (a *App) serveTCP(listener net.Listener) error {
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			a.log.Warn("accept failed", zap.Error(err))
			continue
		}
		go a.handleTCPClient(conn)
	}
}

// handleTCPClient 循环读取命令帧并逐个回复，直到对端关闭
func (a *App) handleTCPClient(conn net.Conn) {
	session := a.addClient(conn)
	log := a.log.With(zap.String("session", session), zap.String("remote", conn.RemoteAddr().String()))
	defer func() {
		conn.Close()
		a.removeClient(conn)
	}()
	log.Info("frontend connected")

	for {
		frame, err := protocol.ReadWithLengthPrefix(conn, a.cfg.MaxFrameBytes)
		if err != nil {
			switch {
			case err == io.EOF, errors.Is(err, net.ErrClosed):
				log.Info("frontend disconnected")
			default:
				log.Warn("read command failed", zap.Error(err))
			}
			return
		}

		var resp protocol.Response
		var req protocol.Request
		if err := json.Unmarshal(frame, &req); err != nil {
			resp = protocol.Response{Code: protocol.CodeBadRequest, Kind: "bad_request", Error: "malformed request: " + err.Error()}
		} else {
			resp = a.dispatch(req)
		}

		b, err := json.Marshal(resp)
		if err != nil {
			log.Error("marshal response failed", zap.Error(err))
			return
		}
		if err := protocol.SendWithLengthPrefix(conn, b); err != nil {
			log.Warn("send response failed", zap.Error(err))
			return
		}
		log.Debug("sent response", zap.String("id", resp.ID), zap.Int("code", resp.Code), zap.Int("size", len(b)))
	}
}
