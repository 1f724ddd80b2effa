package tls

import (
	"crypto/x509"

	"github.com/pkg/errors"
)

// Certificate is a negotiated peer or self identity.
type Certificate interface {
	X509() *x509.Certificate
	Identity() string
}

// CertificateVerifier checks a peer certificate chain. It is opaque to this
// package beyond being handed to the engine at connect time.
type CertificateVerifier interface {
	Verify(chain []*x509.Certificate) error
}

// defaultVerifier checks the chain against the system roots for one server
// name. It backs the high-level connect shape when no verifier is supplied.
type defaultVerifier struct {
	serverName string
}

var _ CertificateVerifier = (*defaultVerifier)(nil)

func NewDefaultVerifier(serverName string) CertificateVerifier {
	return &defaultVerifier{serverName: serverName}
}

func (v *defaultVerifier) Verify(chain []*x509.Certificate) error {
	if len(chain) == 0 {
		return errors.New("empty certificate chain")
	}

	opts := x509.VerifyOptions{
		DNSName:       v.serverName,
		Intermediates: x509.NewCertPool(),
	}
	for _, cert := range chain[1:] {
		opts.Intermediates.AddCert(cert)
	}

	if _, err := chain[0].Verify(opts); err != nil {
		return errors.Wrap(err, "verifying certificate chain")
	}

	return nil
}
