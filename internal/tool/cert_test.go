package tool

import (
	"crypto/tls"
	"path/filepath"
	"testing"
)

func TestEnsureTlsCertificate(t *testing.T) {
	dir := t.TempDir()
	cert := filepath.Join(dir, "cert.pem")
	key := filepath.Join(dir, "key.pem")

	generated, err := EnsureTlsCertificate("sensehat", "Sense HAT Server", key, cert, []string{"localhost", "127.0.0.1"})
	if err != nil {
		t.Fatalf("EnsureTlsCertificate() error = %v", err)
	}
	if !generated {
		t.Error("first call should generate files")
	}
	if _, err := tls.LoadX509KeyPair(cert, key); err != nil {
		t.Errorf("generated pair does not load: %v", err)
	}

	generated, err = EnsureTlsCertificate("sensehat", "Sense HAT Server", key, cert, nil)
	if err != nil || generated {
		t.Errorf("second call = %v, %v, want existing files kept", generated, err)
	}
}

func TestIsFileExists(t *testing.T) {
	dir := t.TempDir()
	if ok, err := IsFileExists(dir); !ok || err != nil {
		t.Errorf("IsFileExists(dir) = %v, %v", ok, err)
	}
	if ok, err := IsFileExists(filepath.Join(dir, "missing")); ok || err != nil {
		t.Errorf("IsFileExists(missing) = %v, %v", ok, err)
	}
}
