package app

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

func TestTicketServiceIssueAndVerify(t *testing.T) {
	svc := NewTicketService("test-secret", "cribbage", time.Minute)
	token, err := svc.Issue("user123", "match-456", "north")
	if err != nil {
		t.Fatalf("issue ticket error: %v", err)
	}

	claims := parseTicketClaims(t, token, "test-secret")
	if got := stringClaim(claims, "sub"); got != "user123" {
		t.Fatalf("sub = %s, want user123", got)
	}
	if got := stringClaim(claims, "mid"); got != "match-456" {
		t.Fatalf("mid = %s, want match-456", got)
	}
	if got := stringClaim(claims, "tid"); got == "" {
		t.Fatal("missing tid claim")
	}

	ticket, err := svc.Verify(token, "user123", "match-456")
	if err != nil {
		t.Fatalf("verify ticket error: %v", err)
	}
	if ticket.Team != "north" || ticket.UserID != "user123" {
		t.Fatalf("ticket = %+v", ticket)
	}
	if !ticket.Expires.After(time.Now()) {
		t.Fatalf("ticket already expired: %v", ticket.Expires)
	}
}

func TestTicketServiceRejects(t *testing.T) {
	svc := NewTicketService("test-secret", "cribbage", time.Minute)
	token, err := svc.Issue("user123", "match-456", "")
	if err != nil {
		t.Fatalf("issue ticket error: %v", err)
	}

	expired := NewTicketService("test-secret", "cribbage", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	stale, err := expired.Issue("user123", "match-456", "")
	if err != nil {
		t.Fatalf("issue ticket error: %v", err)
	}

	otherIssuer, err := NewTicketService("test-secret", "someone-else", time.Minute).Issue("user123", "match-456", "")
	if err != nil {
		t.Fatalf("issue ticket error: %v", err)
	}

	tests := []struct {
		name    string
		svc     *TicketService
		token   string
		user    string
		match   string
		wantErr error
	}{
		{name: "wrong secret", svc: NewTicketService("other", "cribbage", time.Minute), token: token, user: "user123", match: "match-456", wantErr: ErrTicketInvalid},
		{name: "expired", svc: svc, token: stale, user: "user123", match: "match-456", wantErr: ErrTicketInvalid},
		{name: "wrong issuer", svc: svc, token: otherIssuer, user: "user123", match: "match-456", wantErr: ErrTicketInvalid},
		{name: "other user", svc: svc, token: token, user: "user999", match: "match-456", wantErr: ErrTicketMismatch},
		{name: "other match", svc: svc, token: token, user: "user123", match: "match-789", wantErr: ErrTicketMismatch},
		{name: "garbage", svc: svc, token: "not-a-jwt", user: "user123", match: "match-456", wantErr: ErrTicketInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.svc.Verify(tt.token, tt.user, tt.match); !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTicketServiceRequiresConfig(t *testing.T) {
	if _, err := NewTicketService("", "cribbage", time.Minute).Issue("user", "match", ""); !errors.Is(err, ErrTicketConfig) {
		t.Fatalf("err = %v, want ErrTicketConfig", err)
	}
	if _, err := NewTicketService("secret", "cribbage", time.Minute).Issue("", "match", ""); err == nil {
		t.Fatal("expected error for empty user")
	}
}

func parseTicketClaims(t *testing.T, tokenString, secret string) jwt.MapClaims {
	t.Helper()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("parse token error: %v", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not map claims")
	}
	return claims
}
