package chassis

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateSelfSignedCert(t *testing.T) {
	cert, err := GenerateSelfSignedCert()
	if err != nil {
		t.Fatalf("GenerateSelfSignedCert: %v", err)
	}
	if cert.Leaf == nil || cert.Leaf.Subject.CommonName != "localhost" {
		t.Fatalf("unexpected leaf %+v", cert.Leaf)
	}
	if err := cert.Leaf.VerifyHostname("localhost"); err != nil {
		t.Fatalf("VerifyHostname: %v", err)
	}
}

func TestDevelopmentTLSConfig(t *testing.T) {
	cfg, err := DevelopmentTLSConfig()
	if err != nil {
		t.Fatalf("DevelopmentTLSConfig: %v", err)
	}
	if cfg.MinVersion != tls.VersionTLS13 || len(cfg.Certificates) != 1 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestHandlerHeaders(t *testing.T) {
	s, err := New(Config{
		Addr: ":9443",
		Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", w.Code)
	}
	if got := w.Header().Get("Alt-Svc"); got != `h3=":9443"; ma=86400` {
		t.Fatalf("Alt-Svc = %q", got)
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("missing security headers")
	}
}

func TestNew_BadCertFiles(t *testing.T) {
	if _, err := New(Config{CertFile: "/nonexistent.pem", KeyFile: "/nonexistent.key"}); err == nil {
		t.Fatal("expected error for missing cert files")
	}
}
