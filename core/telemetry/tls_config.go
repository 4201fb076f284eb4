package telemetry

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
)

var pemPrefix = []byte("-----BEGIN")

// collectorTLSConfig trusts the CA certificates in caCerts, given either as
// PEM or as base64 encoded PEM.
func collectorTLSConfig(caCerts string) (*tls.Config, error) {
	pemBytes := []byte(caCerts)
	if !bytes.HasPrefix(bytes.TrimSpace(pemBytes), pemPrefix) {
		decoded, err := base64.StdEncoding.DecodeString(caCerts)
		if err != nil {
			return nil, fmt.Errorf("decode collector CA certificates: %w", err)
		}
		pemBytes = decoded
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemBytes) {
		return nil, errors.New("no collector CA certificate found")
	}

	return &tls.Config{
		RootCAs:    pool,
		MinVersion: tls.VersionTLS12,
	}, nil
}
