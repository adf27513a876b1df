package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"shop-checkout/internal/core/logger"
	"shop-checkout/internal/features/logistics/domain"
	"shop-checkout/internal/features/logistics/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MapSessionService drives the courier store picker round trip.
type MapSessionService struct {
	sessions ports.SessionRepository
	maps     ports.CourierMapGateway
	stores   ports.StoreDirectory
	origins  domain.OriginAllowList
	replyURL string

	now      func() time.Time
	newToken func() string
}

// NewMapSessionService creates a new MapSessionService. replyURL is the public callback endpoint.
func NewMapSessionService(
	sessions ports.SessionRepository,
	maps ports.CourierMapGateway,
	stores ports.StoreDirectory,
	origins domain.OriginAllowList,
	replyURL string,
) *MapSessionService {
	return &MapSessionService{
		sessions: sessions,
		maps:     maps,
		stores:   stores,
		origins:  origins,
		replyURL: replyURL,
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

// StartSession opens a session and returns the form that launches the store picker.
// Sessions older than the retention window are swept first.
func (s *MapSessionService) StartSession(ctx context.Context, subTypeRaw, returnURL string) (*domain.MapForm, error) {
	subType, err := domain.ParseSubType(subTypeRaw)
	if err != nil {
		return nil, err
	}
	if returnURL != "" && !s.origins.Allows(returnURL) {
		return nil, domain.ErrReturnURLNotAllowed
	}

	now := s.now()
	if swept, err := s.sessions.SweepExpired(ctx, now.Add(-domain.SessionRetention)); err != nil {
		logger.Named("logistics").Warn("Session sweep failed", zap.Error(err))
	} else if swept > 0 {
		logger.Named("logistics").Info("Swept expired store selection sessions", zap.Int64("count", swept))
	}

	session := &domain.Session{
		Token:     s.newToken(),
		SubType:   subType,
		ReturnURL: returnURL,
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("logistics: failed to create session: %w", err)
	}

	return s.maps.BuildMapForm(session.Token, subType, s.replyURL)
}

// HandleCallback stores the courier's choice and returns where to send the browser,
// or "" when the session has no allowed return URL.
func (s *MapSessionService) HandleCallback(ctx context.Context, fields map[string]string) (string, error) {
	cb, err := s.maps.ParseCallback(fields)
	if err != nil {
		return "", err
	}

	session, err := s.sessions.AttachStore(ctx, cb.Token, cb.Store)
	if err != nil {
		return "", err
	}

	logger.Named("logistics").Info("Store selected",
		zap.String("sub_type", string(session.SubType)),
		zap.String("store_id", cb.Store.ID),
	)

	if session.ReturnURL == "" || !s.origins.Allows(session.ReturnURL) {
		return "", nil
	}
	return withToken(session.ReturnURL, session.Token), nil
}

// Consume returns the session for token. A session with a selected store is deleted by the read.
func (s *MapSessionService) Consume(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrSessionNotFound
	}
	return s.sessions.Consume(ctx, token)
}

// StoreList returns the stores of a convenience store network.
func (s *MapSessionService) StoreList(ctx context.Context, subTypeRaw string) ([]domain.Store, error) {
	subType, err := domain.ParseSubType(subTypeRaw)
	if err != nil {
		return nil, err
	}
	return s.stores.GetStoreList(ctx, subType)
}

func withToken(rawURL, token string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set("storeToken", token)
	u.RawQuery = q.Encode()
	return u.String()
}
