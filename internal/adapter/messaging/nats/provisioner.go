package nats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/driaaomar7-tech/maghrebcar/internal/auth"
	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/domain"
)

// Provisioner is the registration trigger: it creates the profile row for
// every newly registered auth identity. Application code never creates
// profiles directly; when this trigger misses an event the session holder's
// fail-closed path takes over.
type Provisioner struct {
	sub      *nats.Subscription
	profiles domain.ProfileRepository
	logger   *zap.Logger
}

func NewProvisioner(conn *nats.Conn, profiles domain.ProfileRepository, logger *zap.Logger) (*Provisioner, error) {
	p := &Provisioner{
		profiles: profiles,
		logger:   logger.Named("Provisioner"),
	}
	sub, err := conn.Subscribe("auth.user.registered", p.handle)
	if err != nil {
		return nil, err
	}
	p.sub = sub
	return p, nil
}

func (p *Provisioner) handle(msg *nats.Msg) {
	var evt auth.RegisteredEvent
	if err := json.Unmarshal(msg.Data, &evt); err != nil {
		p.logger.Error("malformed registration event", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	profile := &domain.Profile{
		ID:        evt.UserID,
		Name:      evt.Name,
		Email:     evt.Email,
		Favorites: []int64{},
	}
	if err := p.profiles.Create(ctx, profile); err != nil {
		p.logger.Error("failed to provision profile",
			zap.String("user_id", evt.UserID), zap.Error(err))
		return
	}
	p.logger.Info("profile provisioned", zap.String("user_id", evt.UserID))
}

func (p *Provisioner) Stop() {
	if p.sub != nil {
		_ = p.sub.Unsubscribe()
	}
}
