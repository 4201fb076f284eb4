package core

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/anoideaopen/mbean/core/config"
	"github.com/anoideaopen/mbean/core/logger"
	"github.com/anoideaopen/mbean/core/registry"
	"github.com/anoideaopen/mbean/core/resource"
	"github.com/anoideaopen/mbean/core/routing"
	grpcrouting "github.com/anoideaopen/mbean/core/routing/grpc"
	"github.com/anoideaopen/mbean/core/routing/mux"
	"github.com/anoideaopen/mbean/core/telemetry"
	"github.com/anoideaopen/mbean/transport/wshub"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	// SystemDomain is the domain of the resources the server publishes itself.
	SystemDomain = "mbean"
	// ServerInfoName is the object name of the ServerInfo resource.
	ServerInfoName = "Server"

	// WebSocketPath and HealthPath are served on the HTTP listener.
	WebSocketPath = "/ws"
	HealthPath    = "/healthz"

	readHeaderTimeout = 5 * time.Second
)

var (
	ErrReservedDomain = errors.New("domain is reserved")
	ErrServerStarted  = errors.New("server already started")
	ErrServerStopped  = errors.New("server stopped")
)

// Server publishes resources to remote clients.
type Server struct {
	cfg config.Config
	log logrus.FieldLogger

	resources *registry.Registry
	system    *registry.Registry
	handler   *mux.Router
	info      *ServerInfo

	grpcServer *grpc.Server
	health     *health.Server
	httpServer *http.Server
	grpcLis    net.Listener
	httpLis    net.Listener

	traceShutdown telemetry.ShutdownFunc
	serving       atomic.Bool
	dropConns     context.CancelFunc // ends the context of hijacked WebSocket connections

	mu      sync.Mutex
	started bool
	stopped bool
	wg      sync.WaitGroup
}

// NewServer builds a server from cfg. Nothing listens until Start.
func NewServer(cfg config.Config, opts ...ServerOption) (*Server, error) {
	o := &serverOptions{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply server option: %w", err)
		}
	}

	if o.grpcLis != nil && cfg.Server.GRPCAddress == "" {
		cfg.Server.GRPCAddress = o.grpcLis.Addr().String()
	}
	if o.httpLis != nil && cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = o.httpLis.Addr().String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:       cfg,
		log:       o.log,
		resources: registry.New(),
		system:    registry.New(),
		grpcLis:   o.grpcLis,
		httpLis:   o.httpLis,
	}
	if s.log == nil {
		s.log = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	if o.tp == nil && cfg.Telemetry.CollectorEndpoint != "" {
		shutdown, err := telemetry.InstallTraceProvider(telemetry.CollectorEndpoint{
			Endpoint: cfg.Telemetry.CollectorEndpoint,
			CACerts:  cfg.Telemetry.CollectorCACerts,
		}, cfg.Telemetry.ServiceName)
		if err != nil {
			return nil, fmt.Errorf("install trace provider: %w", err)
		}
		s.traceShutdown = shutdown
	}

	routerOpts := []routing.RouterOption{routing.WithLogger(s.log)}
	if o.tp != nil {
		routerOpts = append(routerOpts, routing.WithTracerProvider(o.tp))
	}
	s.handler = mux.NewRouter(routing.NewRouter(s.resources, routerOpts...))
	if err := s.handler.Handle(SystemDomain, routing.NewRouter(s.system, routerOpts...)); err != nil {
		return nil, err
	}

	s.info = newServerInfo(s.resources)
	if err := s.system.Register(resource.MustNew(s.info, resource.Identity{
		Domain:      SystemDomain,
		ObjectName:  ServerInfoName,
		Description: "management server build and uptime",
	})); err != nil {
		return nil, err
	}

	tlsMaterial, err := resolveTLS(cfg.TLS, o.tls)
	if err != nil {
		return nil, err
	}

	grpcOpts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(grpcrouting.LoggingInterceptor(s.log)),
	}
	router := chi.NewRouter()
	router.Get(HealthPath, s.healthz)
	router.Get(WebSocketPath, wshub.Serve(s.handler, s.log))
	baseCtx, dropConns := context.WithCancel(context.Background())
	s.dropConns = dropConns
	s.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	if tlsMaterial != nil {
		tlsConfig, err := serverTLSConfig(tlsMaterial)
		if err != nil {
			return nil, err
		}
		grpcOpts = append(grpcOpts, grpc.Creds(credentials.NewTLS(tlsConfig)))
		s.httpServer.TLSConfig = tlsConfig
	}

	s.grpcServer = grpc.NewServer(grpcOpts...)
	s.health = health.NewServer()
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	grpcrouting.Register(s.grpcServer, s.handler)
	s.health.SetServingStatus(grpcrouting.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	return s, nil
}

// Handler returns the request handler behind both listeners.
func (s *Server) Handler() routing.Handler {
	return s.handler
}

// Registry returns the registry of published resources.
func (s *Server) Registry() *registry.Registry {
	return s.resources
}

func (s *Server) Info() *ServerInfo {
	return s.info
}

// Register publishes w. The system domain is refused.
func (s *Server) Register(w *resource.Wrapper) error {
	if w.Identity().Domain == SystemDomain {
		return fmt.Errorf("%w: %s", ErrReservedDomain, SystemDomain)
	}

	if err := s.resources.Register(w); err != nil {
		return err
	}

	s.log.WithField("resource", w.Identity().String()).Debug("resource registered")
	return nil
}

// Publish wraps target and registers it.
func (s *Server) Publish(target any, id resource.Identity, opts ...resource.Option) (*resource.Wrapper, error) {
	w, err := resource.New(target, id, opts...)
	if err != nil {
		return nil, err
	}

	if err = s.Register(w); err != nil {
		return nil, err
	}

	return w, nil
}

func (s *Server) Unregister(id resource.Identity) error {
	if err := s.resources.Unregister(id); err != nil {
		return err
	}

	s.log.WithField("resource", id.String()).Debug("resource unregistered")
	return nil
}

func (s *Server) UnregisterWrapper(w *resource.Wrapper) error {
	return s.Unregister(w.Identity())
}

// GRPCAddr returns the address of the gRPC listener, nil before Start or when disabled.
func (s *Server) GRPCAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.grpcLis == nil {
		return nil
	}
	return s.grpcLis.Addr()
}

// HTTPAddr returns the address of the HTTP listener, nil before Start or when disabled.
func (s *Server) HTTPAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.httpLis == nil {
		return nil
	}
	return s.httpLis.Addr()
}

// Start binds the listeners and serves in the background. A server starts once.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.stopped:
		return ErrServerStopped
	case s.started:
		return ErrServerStarted
	}

	var (
		lc         net.ListenConfig
		openedGRPC bool
	)
	if s.grpcLis == nil && s.cfg.Server.GRPCAddress != "" {
		lis, err := lc.Listen(ctx, "tcp", s.cfg.Server.GRPCAddress)
		if err != nil {
			return fmt.Errorf("listen gRPC: %w", err)
		}
		s.grpcLis = lis
		openedGRPC = true
	}
	if s.httpLis == nil && s.cfg.Server.HTTPAddress != "" {
		lis, err := lc.Listen(ctx, "tcp", s.cfg.Server.HTTPAddress)
		if err != nil {
			if openedGRPC {
				_ = s.grpcLis.Close()
				s.grpcLis = nil
			}
			return fmt.Errorf("listen HTTP: %w", err)
		}
		s.httpLis = lis
	}

	if s.grpcLis != nil {
		s.wg.Add(1)
		go func(lis net.Listener) {
			defer s.wg.Done()
			s.log.WithField("addr", lis.Addr().String()).Info("grpc server started")
			if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				s.log.WithError(err).Error("grpc server failed")
			}
		}(s.grpcLis)
	}

	if s.httpLis != nil {
		s.wg.Add(1)
		go func(lis net.Listener) {
			defer s.wg.Done()
			s.log.WithField("addr", lis.Addr().String()).Info("http server started")
			var err error
			if s.httpServer.TLSConfig != nil {
				err = s.httpServer.ServeTLS(lis, "", "")
			} else {
				err = s.httpServer.Serve(lis)
			}
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.WithError(err).Error("http server failed")
			}
		}(s.httpLis)
	}

	s.started = true
	s.serving.Store(true)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(grpcrouting.ServiceName, healthpb.HealthCheckResponse_SERVING)

	return nil
}

// Stop reports NOT_SERVING, drains both listeners and clears the registry.
// In-flight calls get until ctx ends, or the configured shutdown timeout
// when ctx has no deadline; then connections are closed.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil
	}
	s.stopped = true

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Server.ShutdownTimeout)
		defer cancel()
	}

	s.serving.Store(false)
	s.health.Shutdown()
	s.dropConns()

	var errs []error
	if s.started {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}

		done := make(chan struct{})
		go func() {
			s.grpcServer.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			s.grpcServer.Stop()
			<-done
		}

		s.wg.Wait()
	}

	if s.traceShutdown != nil {
		if err := s.traceShutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("trace provider shutdown: %w", err))
		}
	}

	n := s.resources.Clear()
	s.log.WithField("resources", n).Info("server stopped")

	return errors.Join(errs...)
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if !s.serving.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("stopping\n"))
		return
	}
	_, _ = w.Write([]byte("ok\n"))
}
