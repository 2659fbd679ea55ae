package service

import (
	"livechat/cmd/internal/contract"
	"livechat/cmd/internal/domain/entity"
	"livechat/cmd/internal/domain/events"
	"livechat/cmd/internal/registry"
	"livechat/cmd/internal/utils"
	"livechat/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type PresenceUserRepository interface {
	FindOnline() ([]*entity.User, error)
	SavePresence(user *entity.User) error
	UpdatePresence(id string, online bool, lastActive int64) error
	MarkAllOffline() error
}

// Broadcaster fans an envelope out to every live connection except one.
// Implemented by the websocket hub.
type Broadcaster interface {
	Broadcast(msg *contract.OutgoingSocketMessage, exceptConnID string)
}

// PresenceService owns the connect/authenticate/disconnect lifecycle:
// it keeps the registry and the durable is_online flags in step and tells
// everyone else when a user comes or goes.
//
// The registry is authoritative for routing. Durable presence writes are
// best-effort: a store failure is logged and absorbed, never surfaced to
// the connection that triggered it.
type PresenceService struct {
	Registry *registry.Registry
	UserRepo PresenceUserRepository
	Hub      Broadcaster
	Validate *validator.Validate
}

func NewPresenceService(reg *registry.Registry, userRepo PresenceUserRepository, hub Broadcaster, validate *validator.Validate) *PresenceService {
	return &PresenceService{
		Registry: reg,
		UserRepo: userRepo,
		Hub:      hub,
		Validate: validate,
	}
}

// ReconcileStartup flips every durable is_online flag back to false.
// The registry boots empty, so no connection can have survived a restart.
func (s *PresenceService) ReconcileStartup() {
	if err := s.UserRepo.MarkAllOffline(); err != nil {
		log.Errorf("failed to reconcile stale presence flags: %v", err)
		return
	}
	log.Info("presence flags reconciled, nobody is online")
}

// Authenticate verifies the token, registers the connection under the
// token's subject and announces the user online. The payload userId must
// match the verified subject; we never trust the client-supplied id alone.
// Re-authenticating the same user simply re-registers.
func (s *PresenceService) Authenticate(conn registry.Conn, payload *contract.AuthenticatePayload) (*utils.TokenData, bool) {
	if err := s.Validate.Struct(payload); err != nil {
		sendError(conn, "authenticate payload is missing required fields")
		return nil, false
	}

	token, err := utils.ValidateToken(payload.Token)
	if err != nil {
		log.Warnf("rejected authenticate on conn %s: %v", conn.ID(), err)
		sendError(conn, "authentication failed")
		return nil, false
	}

	if token.Sub != payload.UserID {
		log.Warnf("conn %s claimed user %s but token subject is %s", conn.ID(), payload.UserID, token.Sub)
		sendError(conn, "authentication failed")
		return nil, false
	}

	now := utils.NowUTC()

	// A socket re-authenticating under a different identity goes through
	// the normal offline path for the old one first. Otherwise the stale
	// entry would share this connection id and outlive the disconnect.
	if prev, had := s.Registry.UnregisterByConn(conn.ID()); had && prev != token.Sub {
		if err := s.UserRepo.UpdatePresence(prev, false, now); err != nil {
			log.Errorf("failed to persist offline flag for user %s: %v", prev, err)
		}
		s.Hub.Broadcast(Envelope(&events.UserOffline{UserID: prev}), conn.ID())
		log.Infof("user %s offline, conn %s switched identity", prev, conn.ID())
	}

	s.Registry.Register(token.Sub, conn, now)

	err = s.UserRepo.SavePresence(&entity.User{
		ID:         token.Sub,
		Username:   token.Username,
		IsOnline:   true,
		LastActive: now,
		CreatedAt:  now,
	})
	if err != nil {
		log.Errorf("failed to persist online flag for user %s: %v", token.Sub, err)
	}

	s.Hub.Broadcast(Envelope(&events.UserOnline{UserID: token.Sub}), conn.ID())
	log.Infof("user %s online on conn %s (%d online)", token.Sub, conn.ID(), s.Registry.Size())
	return token, true
}

// Disconnect handles a dropped transport connection. Connections that
// never authenticated, or were replaced by a newer one, leave no trace.
func (s *PresenceService) Disconnect(connID string) {
	userID, ok := s.Registry.UnregisterByConn(connID)
	if !ok {
		return
	}

	if err := s.UserRepo.UpdatePresence(userID, false, utils.NowUTC()); err != nil {
		log.Errorf("failed to persist offline flag for user %s: %v", userID, err)
	}

	s.Hub.Broadcast(Envelope(&events.UserOffline{UserID: userID}), connID)
	log.Infof("user %s offline (%d online)", userID, s.Registry.Size())
}

// GetOnlineUsers backs the REST online-user listing from the durable flags.
func (s *PresenceService) GetOnlineUsers() ([]*contract.OnlineUserResponse, apierror.ErrorResponse) {
	users, err := s.UserRepo.FindOnline()
	if err != nil {
		log.Errorf("failed to fetch online users: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.OnlineUserResponse, len(users))
	for i, user := range users {
		resp[i] = &contract.OnlineUserResponse{
			ID:         user.ID,
			Username:   user.Username,
			LastActive: utils.FormatEpoch(user.LastActive),
		}
	}
	return resp, nil
}
