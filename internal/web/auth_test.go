package web

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	tok, err := newSessionToken(secret, "sess-1", now, time.Hour)
	if err != nil {
		t.Fatalf("newSessionToken: %v", err)
	}

	sp, err := verifyToken(secret, tok, now.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("verifyToken: %v", err)
	}
	if sp.Sub != "sess-1" || sp.Typ != tokenTypeSession {
		t.Fatalf("unexpected payload: %+v", sp)
	}

	if _, err := verifyToken(secret, tok, now.Add(2*time.Hour)); err == nil {
		t.Fatalf("expected expired token to fail")
	}
	if _, err := verifyToken([]byte("other"), tok, now); err == nil {
		t.Fatalf("expected wrong secret to fail")
	}
	if _, err := verifyToken(secret, strings.Replace(tok, ".", "x.", 1), now); err == nil {
		t.Fatalf("expected tampered token to fail")
	}
}

func TestLoadOrInitSecretKey_PersistsInDataDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	k1, err := loadOrInitSecretKey(dir)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	k2, err := loadOrInitSecretKey(dir)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if string(k1) != string(k2) {
		t.Fatalf("expected key to persist")
	}
	if _, err := os.Stat(filepath.Join(dir, "secret.key")); err != nil {
		t.Fatalf("expected secret.key: %v", err)
	}

	e1, _ := loadOrInitSecretKey("")
	e2, _ := loadOrInitSecretKey("")
	if len(e1) == 0 || string(e1) == string(e2) {
		t.Fatalf("expected distinct ephemeral keys")
	}
}
