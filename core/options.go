package core

import (
	"errors"
	"net"
	"os"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TLS environment variables carrying PEM data directly. They take
	// precedence over the files named in the configuration.
	// tlsKeyEnv is the environment variable that specifies the private key for TLS communication.
	tlsKeyEnv = "MBEAN_TLS_KEY"
	// tlsCertEnv is the environment variable that specifies the public key certificate for TLS communication.
	tlsCertEnv = "MBEAN_TLS_CERT"
	// tlsClientCACertsEnv is the environment variable that specifies the client CA certificates for TLS communication.
	tlsClientCACertsEnv = "MBEAN_TLS_CLIENT_CA_CERTS"
)

// TLS holds the key and certificate data for TLS communication, as well as
// client CA certificates for peer verification if needed.
type TLS struct {
	Key           []byte // Private key for TLS authentication.
	Cert          []byte // Public certificate for TLS authentication.
	ClientCACerts []byte // Optional client CA certificates for verifying connecting peers.
}

// ServerOption adjusts how NewServer builds a Server.
type ServerOption func(opts *serverOptions) error

type serverOptions struct {
	log     logrus.FieldLogger
	tls     *TLS
	tp      trace.TracerProvider
	grpcLis net.Listener
	httpLis net.Listener
}

// WithLogger replaces the process logger.
func WithLogger(log logrus.FieldLogger) ServerOption {
	return func(o *serverOptions) error {
		if log == nil {
			return errors.New("logger is nil")
		}
		o.log = log
		return nil
	}
}

// WithTLS is a ServerOption that specifies the TLS configuration of both listeners.
// It overrides the configuration files and the environment.
func WithTLS(tls *TLS) ServerOption {
	return func(o *serverOptions) error {
		o.tls = tls
		return nil
	}
}

// WithTLSFromFiles returns a ServerOption that sets the TLS configuration
// from PEM files. clientCACertPath may be empty.
//
// Example:
//
//	tlsOpt, err := core.WithTLSFromFiles("tls/key.pem", "tls/cert.pem", "tls/ca.pem")
//	if err != nil {
//	    log.Fatalf("Error configuring TLS: %v", err)
//	}
//	srv, err := core.NewServer(cfg, tlsOpt)
func WithTLSFromFiles(keyPath, certPath, clientCACertPath string) (ServerOption, error) {
	tls, err := readTLSFiles(keyPath, certPath, clientCACertPath)
	if err != nil {
		return nil, err
	}

	return WithTLS(tls), nil
}

// WithTracerProvider replaces the global trace provider for request spans.
func WithTracerProvider(tp trace.TracerProvider) ServerOption {
	return func(o *serverOptions) error {
		o.tp = tp
		return nil
	}
}

// WithGRPCListener serves gRPC on lis instead of listening on the configured address.
func WithGRPCListener(lis net.Listener) ServerOption {
	return func(o *serverOptions) error {
		o.grpcLis = lis
		return nil
	}
}

// WithHTTPListener serves HTTP on lis instead of listening on the configured address.
func WithHTTPListener(lis net.Listener) ServerOption {
	return func(o *serverOptions) error {
		o.httpLis = lis
		return nil
	}
}

func readTLSFiles(keyPath, certPath, clientCACertPath string) (*TLS, error) {
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, errors.New("failed to read TLS key: " + err.Error())
	}

	cert, err := os.ReadFile(certPath)
	if err != nil {
		return nil, errors.New("failed to read TLS certificate: " + err.Error())
	}

	tls := &TLS{
		Key:  key,
		Cert: cert,
	}

	if clientCACertPath != "" {
		clientCACerts, err := os.ReadFile(clientCACertPath)
		if err != nil {
			return nil, errors.New("failed to read client CA certificates: " + err.Error())
		}
		tls.ClientCACerts = clientCACerts
	}

	return tls, nil
}

// readTLSConfigFromEnv returns the PEM data found in the environment. Any
// part may be nil.
func readTLSConfigFromEnv() *TLS {
	var t TLS
	if keyEnv := os.Getenv(tlsKeyEnv); keyEnv != "" {
		t.Key = []byte(keyEnv)
	}
	if certEnv := os.Getenv(tlsCertEnv); certEnv != "" {
		t.Cert = []byte(certEnv)
	}
	if caCertsEnv := os.Getenv(tlsClientCACertsEnv); caCertsEnv != "" {
		t.ClientCACerts = []byte(caCertsEnv)
	}
	if t.Key == nil && t.Cert == nil {
		return nil
	}
	return &t
}
