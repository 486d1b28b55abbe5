package quivertls

import (
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapGeneratesAndWritesKeypair(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "quiver")

	cert, certPEM, err := Bootstrap(dir)
	require.NoError(t, err)
	require.NotEmpty(t, cert.Certificate)
	require.NotEmpty(t, certPEM)

	_, err = os.Stat(filepath.Join(dir, "cert.pem"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "key.pem"))
	assert.NoError(t, err)

	block, _ := pem.Decode(certPEM)
	require.NotNil(t, block)
	parsed, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"localhost", "archer"}, parsed.DNSNames)
}

func TestBootstrapReloadsExistingKeypair(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "quiver")

	_, firstPEM, err := Bootstrap(dir)
	require.NoError(t, err)

	_, secondPEM, err := Bootstrap(dir)
	require.NoError(t, err)
	assert.Equal(t, firstPEM, secondPEM)
}

func TestClientTLSConfigTrustsBootstrapCert(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "quiver")

	_, certPEM, err := Bootstrap(dir)
	require.NoError(t, err)

	conf, err := ClientTLSConfig(certPEM)
	require.NoError(t, err)
	assert.Equal(t, "archer", conf.ServerName)
	assert.Equal(t, []string{ALPNProtocol}, conf.NextProtos)
}

func TestClientTLSConfigRejectsGarbagePEM(t *testing.T) {
	_, err := ClientTLSConfig([]byte("not pem"))
	assert.Error(t, err)
}
