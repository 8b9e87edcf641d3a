package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"cribbage/internal/app"
	"cribbage/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

var (
	errNoUser       = runtime.NewError("user session required", 16) // UNAUTHENTICATED
	errBadPayload   = runtime.NewError("payload must be {\"match_id\":...,\"team\":...}", 3)
	errTicketConfig = runtime.NewError("seat tickets are not configured", 9) // FAILED_PRECONDITION
)

// SeatTicketRequest names the match to join and the team to sit with.
type SeatTicketRequest struct {
	MatchID string `json:"match_id"`
	Team    string `json:"team"`
}

// SeatTicketResponse carries the signed ticket clients pass as join metadata.
type SeatTicketResponse struct {
	Ticket string `json:"ticket"`
}

// ticketServiceFromEnv builds the ticket service from the game config and the runtime env.
func ticketServiceFromEnv(ctx context.Context) *app.TicketService {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	cfg := config.GetGameConfig().FromEnv(env)
	if cfg.TicketSecret == "" {
		return nil
	}
	return app.NewTicketService(cfg.TicketSecret, cfg.TicketIssuer, time.Duration(cfg.TicketTTLSeconds)*time.Second)
}

func rpcSeatTicket(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", errNoUser
	}

	var req SeatTicketRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.MatchID == "" {
		return "", errBadPayload
	}

	tickets := ticketServiceFromEnv(ctx)
	token, err := tickets.Issue(userID, req.MatchID, req.Team)
	if errors.Is(err, app.ErrTicketConfig) {
		return "", errTicketConfig
	}
	if err != nil {
		logger.Error("rpcSeatTicket [User:%s]: %v", userID, err)
		return "", err
	}

	logger.Debug("rpcSeatTicket [User:%s]: Issued ticket for match %s team %q", userID, req.MatchID, req.Team)
	b, _ := json.Marshal(SeatTicketResponse{Ticket: token})
	return string(b), nil
}
