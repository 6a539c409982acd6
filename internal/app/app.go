// Package app exposes the capture commands to the frontend over a loopback
// TCP bridge and an HTTP endpoint.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ximeiorg/jietu/internal/capture"
	"github.com/ximeiorg/jietu/internal/config"
	"github.com/ximeiorg/jietu/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Service is the capture pipeline the bridge dispatches commands to.
type Service interface {
	CaptureRegion(req capture.Request) ([]byte, error)
	CaptureAndSave(req capture.Request, savePath string) ([]byte, error)
	Monitors() ([]capture.MonitorInfo, error)
}

// App 持有命令桥运行期状态（已连接的前端集合等）
type App struct {
	*state
	cfg *config.Config
	svc Service
	log *zap.Logger
}

// New 创建应用实例
func New(cfg *config.Config, svc Service, log *zap.Logger) *App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		state: newState(),
		cfg:   cfg,
		svc:   svc,
		log:   logging.Component(log, "bridge"),
	}
}

// Run 监听配置中的地址并阻塞直到 ctx 取消
func (a *App) Run(ctx context.Context) error {
	tcpLn, err := net.Listen("tcp", a.cfg.BridgeAddr)
	if err != nil {
		return fmt.Errorf("listen bridge %s: %w", a.cfg.BridgeAddr, err)
	}
	var httpLn net.Listener
	if a.cfg.HTTPAddr != "" {
		httpLn, err = net.Listen("tcp", a.cfg.HTTPAddr)
		if err != nil {
			tcpLn.Close()
			return fmt.Errorf("listen http %s: %w", a.cfg.HTTPAddr, err)
		}
	}
	return a.Serve(ctx, tcpLn, httpLn)
}

// Serve 并行运行 TCP 桥与 HTTP 服务；httpLn 为 nil 时不启用 HTTP
func (a *App) Serve(ctx context.Context, tcpLn, httpLn net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	a.log.Info("bridge listening", zap.String("addr", tcpLn.Addr().String()))
	g.Go(func() error { return a.serveTCP(tcpLn) })

	var srv *http.Server
	if httpLn != nil {
		srv = &http.Server{Handler: a.Handler(), ReadHeaderTimeout: 10 * time.Second}
		a.log.Info("http listening", zap.String("addr", httpLn.Addr().String()))
		g.Go(func() error {
			if err := srv.Serve(httpLn); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutting down", zap.Int("clients", a.numClients()))
		tcpLn.Close()
		a.closeClients()
		if srv != nil {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(sctx); err != nil {
				return fmt.Errorf("http shutdown: %w", err)
			}
		}
		return nil
	})

	return g.Wait()
}
