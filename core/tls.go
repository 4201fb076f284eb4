package core

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/anoideaopen/mbean/core/config"
)

// resolveTLS picks the TLS material by priority: options, environment,
// configured files. It returns nil when TLS is off.
func resolveTLS(cfg config.TLS, fromOpts *TLS) (*TLS, error) {
	if fromOpts != nil {
		return fromOpts, nil
	}

	if fromEnv := readTLSConfigFromEnv(); fromEnv != nil {
		return fromEnv, nil
	}

	if !cfg.Enabled() {
		return nil, nil
	}

	return readTLSFiles(cfg.KeyFile, cfg.CertFile, cfg.ClientCACertsFile)
}

// serverTLSConfig builds the listener configuration. Connecting peers must
// present a certificate signed by ClientCACerts when those are set.
func serverTLSConfig(t *TLS) (*tls.Config, error) {
	if len(t.Key) == 0 || len(t.Cert) == 0 {
		return nil, errors.New("TLS key and certificate are both required")
	}

	cert, err := tls.X509KeyPair(t.Cert, t.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS key pair: %w", err)
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}

	if len(t.ClientCACerts) > 0 {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(t.ClientCACerts) {
			return nil, errors.New("failed to parse client CA certificates")
		}
		tlsConfig.ClientCAs = pool
		tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
	}

	return tlsConfig, nil
}
