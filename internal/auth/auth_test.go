package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/NElyse/FPA-Project/internal/models"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "s3cret" {
		t.Fatal("password stored in the clear")
	}
	if err := CheckPassword(hash, "s3cret"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestNewResetToken(t *testing.T) {
	t.Parallel()
	a, err := NewResetToken()
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewResetToken()
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
	if a == b {
		t.Error("two tokens should not collide")
	}
}

func testUser() *models.User {
	return &models.User{
		ID:       7,
		Username: "alice",
		Email:    "a@example.com",
		Role:     "user",
	}
}

func TestTokenIssueAndParse(t *testing.T) {
	t.Parallel()
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatal(err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != 7 || claims.Username != "alice" || claims.Role != "user" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestTokenParse_WrongSecret(t *testing.T) {
	t.Parallel()
	token, err := NewTokenIssuer("secret-a").Issue(testUser())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenIssuer("secret-b").Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenParse_Expired(t *testing.T) {
	t.Parallel()
	issuer := NewTokenIssuer("test-secret")

	issued := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issued }
	token, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatal(err)
	}

	issuer.now = func() time.Time { return issued.Add(59 * time.Minute) }
	if _, err := issuer.Parse(token); err != nil {
		t.Errorf("token should still be valid at 59m: %v", err)
	}

	issuer.now = func() time.Time { return issued.Add(61 * time.Minute) }
	if _, err := issuer.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid after expiry, got %v", err)
	}
}

func TestTokenParse_Garbage(t *testing.T) {
	t.Parallel()
	if _, err := NewTokenIssuer("s").Parse("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
