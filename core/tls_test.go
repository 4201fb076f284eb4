package core

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/anoideaopen/mbean/core/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selfSigned(t *testing.T) (keyPEM, certPEM []byte) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "mbean-test"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}),
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}

func TestServerTLSConfig(t *testing.T) {
	key, cert := selfSigned(t)

	cfg, err := serverTLSConfig(&TLS{Key: key, Cert: cert})
	require.NoError(t, err)
	assert.Len(t, cfg.Certificates, 1)
	assert.Equal(t, tls.NoClientCert, cfg.ClientAuth)

	cfg, err = serverTLSConfig(&TLS{Key: key, Cert: cert, ClientCACerts: cert})
	require.NoError(t, err)
	assert.Equal(t, tls.RequireAndVerifyClientCert, cfg.ClientAuth)
	assert.NotNil(t, cfg.ClientCAs)

	_, err = serverTLSConfig(&TLS{Key: key, Cert: cert, ClientCACerts: []byte("garbage")})
	require.Error(t, err)

	_, err = serverTLSConfig(&TLS{Key: cert, Cert: key})
	require.Error(t, err)

	_, err = serverTLSConfig(&TLS{Cert: cert})
	require.Error(t, err)
}

func TestResolveTLS(t *testing.T) {
	key, cert := selfSigned(t)
	dir := t.TempDir()
	keyFile, certFile := filepath.Join(dir, "tls.key"), filepath.Join(dir, "tls.crt")
	require.NoError(t, os.WriteFile(keyFile, key, 0o600))
	require.NoError(t, os.WriteFile(certFile, cert, 0o600))

	t.Setenv(tlsKeyEnv, "")
	t.Setenv(tlsCertEnv, "")
	t.Setenv(tlsClientCACertsEnv, "")

	got, err := resolveTLS(config.TLS{}, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = resolveTLS(config.TLS{KeyFile: keyFile, CertFile: certFile}, nil)
	require.NoError(t, err)
	assert.Equal(t, &TLS{Key: key, Cert: cert}, got)

	_, err = resolveTLS(config.TLS{KeyFile: keyFile, CertFile: certFile, ClientCACertsFile: filepath.Join(dir, "missing")}, nil)
	require.Error(t, err)

	t.Setenv(tlsKeyEnv, "env-key")
	t.Setenv(tlsCertEnv, "env-cert")
	got, err = resolveTLS(config.TLS{KeyFile: keyFile, CertFile: certFile}, nil)
	require.NoError(t, err)
	assert.Equal(t, &TLS{Key: []byte("env-key"), Cert: []byte("env-cert")}, got)

	fromOpts := &TLS{Key: key, Cert: cert}
	got, err = resolveTLS(config.TLS{}, fromOpts)
	require.NoError(t, err)
	assert.Same(t, fromOpts, got)
}
