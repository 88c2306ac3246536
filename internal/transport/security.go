package transport

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"time"
)

const (
	idleConnTimeout     = 90 * time.Second
	tlsHandshakeTimeout = 10 * time.Second
	maxIdleConns        = 16
)

// TLSTransport represents a TLS-enabled HTTP transport.
// It trusts the root certificates in caFileName,
// which is how a self-hosted API with a private CA is reached.
type TLSTransport struct {
	caFileName string
}

// NewTLSTransport creates a new TLSTransport instance.
//
// Parameters:
//   - caFileName: Path to the PEM encoded root certificate file
//
// Returns a pointer to the newly created TLSTransport instance.
func NewTLSTransport(caFileName string) *TLSTransport {
	return &TLSTransport{
		caFileName: caFileName,
	}
}

// RoundTripper creates an HTTP transport that verifies the server against the CA file.
func (t *TLSTransport) RoundTripper() (http.RoundTripper, error) {
	pem, err := os.ReadFile(t.caFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("failed to load CA certificate: no PEM certificates in %s", t.caFileName)
	}

	base := newBaseTransport()
	base.TLSClientConfig = &tls.Config{
		RootCAs:    pool,
		MinVersion: tls.VersionTLS12,
	}
	return base, nil
}

// PlainTransport represents an HTTP transport using the system trust store.
type PlainTransport struct{}

// NewPlainTransport creates a new PlainTransport instance.
func NewPlainTransport() *PlainTransport {
	return &PlainTransport{}
}

// RoundTripper creates a default HTTP transport.
func (t *PlainTransport) RoundTripper() (http.RoundTripper, error) {
	return newBaseTransport(), nil
}

func newBaseTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        maxIdleConns,
		IdleConnTimeout:     idleConnTimeout,
		TLSHandshakeTimeout: tlsHandshakeTimeout,
		ForceAttemptHTTP2:   true,
	}
}
