// Command archer runs the full tracing backend: every ingest listener,
// the query HTTP API, and the storage engine that backs both. This file
// only assembles the pieces internal/config, internal/storage,
// internal/ingest, and internal/queryapi already provide.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/apache/thrift/lib/go/thrift"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/archer-go/archer/internal/config"
	"github.com/archer-go/archer/internal/idlpb"
	"github.com/archer-go/archer/internal/ingest"
	"github.com/archer-go/archer/internal/queryapi"
	"github.com/archer-go/archer/internal/quivertls"
	"github.com/archer-go/archer/internal/storage"
)

// shutdownGrace bounds how long the HTTP servers get to finish in-flight
// requests once the graceful-shutdown signal fires. The gRPC servers stop
// gracefully with no deadline; the UDP and Quiver listeners stop when the
// shared context is cancelled.
const shutdownGrace = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "archer:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	store, err := storage.Open(cfg.SQLitePath(), logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	cert, certPEM, err := quivertls.Bootstrap(cfg.QuiverCertDir())
	if err != nil {
		return fmt.Errorf("bootstrap quiver tls: %w", err)
	}
	logger.Info("quiver certificate ready, paste as client trust material", zap.ByteString("cert_pem", certPEM))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, 8)

	runListener := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil && ctx.Err() == nil {
				logger.Error("listener exited", zap.String("listener", name), zap.Error(err))
				errCh <- fmt.Errorf("%s: %w", name, err)
			}
		}()
	}

	udpCompact := &ingest.UDPAgentListener{
		Addr:     cfg.AgentUDPAddr(),
		Protocol: thrift.NewTCompactProtocolFactory(),
		Sink:     store,
		Logger:   logger.Named("agent-compact"),
	}
	runListener("agent-udp-compact", udpCompact.ListenAndServe)

	udpBinary := &ingest.UDPAgentListener{
		Addr:     cfg.AgentBinaryUDPAddr(),
		Protocol: thrift.NewTBinaryProtocolFactoryDefault(),
		Sink:     store,
		Logger:   logger.Named("agent-binary"),
	}
	runListener("agent-udp-binary", udpBinary.ListenAndServe)

	collectorHTTPSrv := &http.Server{
		Addr: cfg.CollectorHTTPAddr(),
		Handler: withRoute("/api/traces", &ingest.CollectorHTTPHandler{
			Sink:   store,
			Logger: logger.Named("collector-http"),
		}),
	}
	runListener("collector-http", serveHTTP(collectorHTTPSrv))

	otlpHTTPSrv := &http.Server{
		Addr: cfg.OTLPHTTPAddr(),
		Handler: withRoute("/v1/traces", &ingest.OTLPHTTPHandler{
			Sink:   store,
			Logger: logger.Named("otlp-http"),
		}),
	}
	runListener("otlp-http", serveHTTP(otlpHTTPSrv))

	collectorGRPCSrv := grpc.NewServer(idlpb.ServerCodecOption())
	ingest.RegisterCollectorGRPC(collectorGRPCSrv, store, logger.Named("collector-grpc"))
	runListener("collector-grpc", serveGRPC(collectorGRPCSrv, cfg.CollectorGRPCAddr()))

	otlpGRPCSrv := grpc.NewServer()
	ingest.RegisterOTLPGRPC(otlpGRPCSrv, store, logger.Named("otlp-grpc"))
	runListener("otlp-grpc", serveGRPC(otlpGRPCSrv, cfg.OTLPGRPCAddr()))

	quiverListener := &ingest.QuiverListener{
		Addr:   cfg.QuiverAddr(),
		TLS:    quivertls.ServerTLSConfig(cert),
		Sink:   store,
		Logger: logger.Named("quiver"),
	}
	runListener("quiver", quiverListener.ListenAndServe)

	querySrv := &http.Server{
		Addr:    cfg.QueryHTTPAddr(),
		Handler: withHealthz(queryapi.NewRouter(store, logger.Named("query")), store),
	}
	runListener("query-http", serveHTTP(querySrv))

	logger.Info("archer ready", zap.String("data_dir", cfg.DataDir))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("shutting down after listener failure", zap.Error(err))
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer shutdownCancel()

	collectorHTTPSrv.Shutdown(shutdownCtx)
	otlpHTTPSrv.Shutdown(shutdownCtx)
	querySrv.Shutdown(shutdownCtx)
	collectorGRPCSrv.GracefulStop()
	otlpGRPCSrv.GracefulStop()

	wg.Wait()
	return nil
}

func serveHTTP(srv *http.Server) func(context.Context) error {
	return func(ctx context.Context) error {
		ln, err := net.Listen("tcp", srv.Addr)
		if err != nil {
			return err
		}
		err = srv.Serve(ln)
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func serveGRPC(srv *grpc.Server, addr string) func(context.Context) error {
	return func(ctx context.Context) error {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		go func() {
			<-ctx.Done()
			srv.GracefulStop()
		}()
		return srv.Serve(ln)
	}
}

// withRoute mounts handler at exactly one path, replying 404 to anything
// else; the Thrift/OTLP HTTP ingest endpoints each own a single fixed
// route and never needed a full router.
func withRoute(path string, handler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	return mux
}

// healthzStore is the minimal surface withHealthz needs to confirm storage
// is open and serving.
type healthzStore interface {
	ListServices(ctx context.Context) ([]string, error)
}

// withHealthz adds a minimal /healthz probe ahead of the query API's own
// routing, returning 200 once storage answers a query successfully.
func withHealthz(next http.Handler, store healthzStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			if _, err := store.ListServices(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
