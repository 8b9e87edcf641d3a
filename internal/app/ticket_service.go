package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"
)

var (
	ErrTicketConfig   = errors.New("ticket service config is incomplete")
	ErrTicketInvalid  = errors.New("seat ticket is invalid")
	ErrTicketMismatch = errors.New("seat ticket was issued for another user or match")
)

// Ticket is a verified seat reservation.
type Ticket struct {
	ID      string
	UserID  string
	MatchID string
	Team    string
	Expires time.Time
}

// TicketService issues and verifies HS256 seat tickets naming the team a player sits with.
type TicketService struct {
	secret string
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTicketService(secret, issuer string, ttl time.Duration) *TicketService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &TicketService{secret: secret, issuer: issuer, ttl: ttl, now: time.Now}
}

// Issue signs a ticket for the user to join the match with the given team.
// An empty team seats the player on a team of their own.
func (s *TicketService) Issue(userID, matchID, team string) (string, error) {
	if s == nil || s.secret == "" || s.issuer == "" {
		return "", ErrTicketConfig
	}
	if userID == "" || matchID == "" {
		return "", fmt.Errorf("user and match are required")
	}

	claims := jwt.MapClaims{
		"iss":  s.issuer,
		"sub":  userID,
		"exp":  s.now().Add(s.ttl).Unix(),
		"mid":  matchID,
		"team": team,
		"tid":  uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks the signature, expiry, issuer and that the ticket belongs to
// this user and match.
func (s *TicketService) Verify(tokenString, userID, matchID string) (Ticket, error) {
	if s == nil || s.secret == "" {
		return Ticket{}, ErrTicketConfig
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return Ticket{}, fmt.Errorf("%w: %v", ErrTicketInvalid, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !claims.VerifyIssuer(s.issuer, true) {
		return Ticket{}, ErrTicketInvalid
	}

	t := Ticket{
		ID:      stringClaim(claims, "tid"),
		UserID:  stringClaim(claims, "sub"),
		MatchID: stringClaim(claims, "mid"),
		Team:    stringClaim(claims, "team"),
	}
	if exp, ok := claims["exp"].(float64); ok {
		t.Expires = time.Unix(int64(exp), 0)
	}
	if t.UserID != userID || t.MatchID != matchID {
		return Ticket{}, ErrTicketMismatch
	}
	return t, nil
}

func stringClaim(claims jwt.MapClaims, name string) string {
	v, _ := claims[name].(string)
	return v
}
