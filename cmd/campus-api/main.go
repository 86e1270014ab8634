package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MikeMC777/campus-eats/internal/config"
	"github.com/MikeMC777/campus-eats/internal/credential"
	"github.com/MikeMC777/campus-eats/internal/httpx"
	"github.com/MikeMC777/campus-eats/internal/logging"
	"github.com/MikeMC777/campus-eats/internal/relay"
)

// @title        Campus Eats API
// @version      1.0
// @description  Students order from campus food stalls; stalls manage menus and order status.
// @BasePath     /
func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[config] %v", err)
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("[logging] %v", err)
	}
	gin.SetMode(cfg.GinMode)
	if err := httpx.RegisterValidators(); err != nil {
		log.Fatalf("[http] %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("[store] %v", err)
	}

	instance := uuid.NewString()
	var opts []relay.Option
	var bridge *relay.Bridge
	if len(cfg.KafkaBrokers) > 0 {
		bridge = relay.NewBridge(cfg.KafkaBrokers, cfg.KafkaTopic, instance)
		opts = append(opts, relay.WithForwarder(bridge))
	}
	dedupe := relay.NewDedupe(cfg.DedupeSize, cfg.DedupeTTL)
	a := newApp(store, credential.NewBcrypt(cfg.BcryptCost), instance, dedupe, cfg.StoreTimeout, opts...)

	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		a.hub.Run(ctx)
	}()
	if bridge != nil {
		go bridge.Run(ctx, a.hub)
	}

	grpcSrv, hs := startHealth(cfg.GRPCAddr)
	go watchStore(ctx, hs, a.ready)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(a, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithFields(log.Fields{"addr": cfg.HTTPAddr, "instance": instance}).Info("[http] listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[http] %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("[main] shutting down")
	hs.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("[http] shutdown")
	}
	grpcSrv.GracefulStop()
	<-hubDone
	if bridge != nil {
		if err := bridge.Close(); err != nil {
			log.WithError(err).Warn("[relay] bridge close")
		}
	}
	store.close(shutdownCtx)
	log.Info("[main] bye")
}

// startHealth serves grpc.health.v1 on addr. The overall status starts NOT_SERVING until the
// first successful store ping.
func startHealth(addr string) (*grpc.Server, *health.Server) {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("[grpc] listen %s: %v", addr, err)
	}
	go func() {
		log.WithField("addr", addr).Info("[grpc] health listening")
		if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.WithError(err).Error("[grpc] serve")
		}
	}()
	return srv, hs
}

func watchStore(ctx context.Context, hs *health.Server, ping func(context.Context) error) {
	t := time.NewTicker(10 * time.Second)
	defer t.Stop()
	last := healthpb.HealthCheckResponse_UNKNOWN
	for {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		next := healthpb.HealthCheckResponse_SERVING
		if err := ping(pctx); err != nil {
			next = healthpb.HealthCheckResponse_NOT_SERVING
			if last != next {
				log.WithError(err).Warn("[grpc] store unreachable")
			}
		}
		cancel()
		if next != last {
			hs.SetServingStatus("", next)
			last = next
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
