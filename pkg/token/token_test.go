package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const secret = "test-secret-32-bytes-long-1234567890"

func TestIssueAndParse(t *testing.T) {
	issuer, err := NewIssuer(secret, "taskflow", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	issued, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issued.ExpiresAt.Before(time.Now().Add(59 * time.Minute)) {
		t.Errorf("Unexpected expiry %s", issued.ExpiresAt)
	}

	subject, err := issuer.Parse(issued.Value)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if subject != "user-1" {
		t.Errorf("Expected subject user-1, got %q", subject)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	issuer, _ := NewIssuer(secret, "taskflow", time.Minute, WithClock(clock))

	issued, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issuer.Parse(issued.Value); err != nil {
		t.Fatalf("Expected token valid before expiry, got %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := issuer.Parse(issued.Value); !errors.Is(err, ErrExpired) {
		t.Errorf("Expected ErrExpired after TTL, got %v", err)
	}
}

func TestParseRejectsTampering(t *testing.T) {
	issuer, _ := NewIssuer(secret, "taskflow", time.Hour)
	other, _ := NewIssuer("another-secret-32-bytes-long-0987654321", "taskflow", time.Hour)
	foreignIssuer, _ := NewIssuer(secret, "someone-else", time.Hour)

	good, _ := issuer.Issue("user-1")
	forged, _ := other.Issue("user-1")
	foreign, _ := foreignIssuer.Issue("user-1")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "taskflow",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	parts := strings.Split(good.Value, ".")
	truncated := parts[0] + "." + parts[1] + ".AAAA"

	tests := []struct {
		name  string
		token string
	}{
		{"Empty", ""},
		{"Garbage", "not-a-token"},
		{"Wrong secret", forged.Value},
		{"Wrong issuer", foreign.Value},
		{"Alg none", unsigned},
		{"Bad signature", truncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := issuer.Parse(tt.token); !errors.Is(err, ErrInvalid) && !errors.Is(err, ErrExpired) {
				t.Errorf("Expected rejection, got %v", err)
			}
		})
	}
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	if _, err := NewIssuer("", "taskflow", time.Hour); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("Expected ErrMissingSecret, got %v", err)
	}
}
