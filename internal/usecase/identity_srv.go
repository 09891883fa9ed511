package usecase

import (
	"context"
	"fmt"

	"ride-booking/internal/access"
	"ride-booking/internal/data/entity"
	"ride-booking/internal/data/repository"
	"ride-booking/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IdentityService turns a bearer token issued by the identity provider into a Caller.
type IdentityService interface {
	Resolve(ctx context.Context, token string) (access.Caller, error)
}

type identityService struct {
	profiles repository.ProfileRepository
	secret   []byte
	parser   *jwt.Parser
	log      *zap.Logger
}

func NewIdentityService(profiles repository.ProfileRepository, config *utils.Config, log *zap.Logger) IdentityService {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if config.JWT.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(config.JWT.Issuer))
	}

	return &identityService{
		profiles: profiles,
		secret:   []byte(config.JWT.Secret),
		parser:   jwt.NewParser(opts...),
		log:      log.With(zap.String("service", "identity")),
	}
}

func (s *identityService) Resolve(ctx context.Context, token string) (access.Caller, error) {
	if token == "" || len(s.secret) == 0 {
		return access.Caller{}, entity.ErrUnauthenticated
	}

	claims := jwt.MapClaims{}
	_, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		s.log.Debug("Token rejected", zap.Error(err))
		return access.Caller{}, fmt.Errorf("%w: %v", entity.ErrUnauthenticated, err)
	}

	userID, err := subject(claims)
	if err != nil {
		return access.Caller{}, err
	}

	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load caller profile", zap.Error(err), zap.String("user_id", userID.String()))
		return access.Caller{}, err
	}

	caller := access.Caller{UserID: userID}
	if profile == nil {
		// profile rows are created lazily by the profile service
		return caller, nil
	}
	if profile.IsBanned {
		return access.Caller{}, entity.ErrBanned
	}
	caller.IsAdmin = profile.IsAdmin

	return caller, nil
}

// subject reads the user id from the userId claim, falling back to sub.
func subject(claims jwt.MapClaims) (uuid.UUID, error) {
	raw, _ := claims["userId"].(string)
	if raw == "" {
		sub, err := claims.GetSubject()
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: %v", entity.ErrUnauthenticated, err)
		}
		raw = sub
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed user id", entity.ErrUnauthenticated)
	}
	return id, nil
}
