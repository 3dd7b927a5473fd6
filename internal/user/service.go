package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/workforce-management/internal"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
	"github.com/frahmantamala/workforce-management/internal/core/port"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	store      port.Store
	bcryptCost int
	logger     *slog.Logger
}

func NewService(store port.Store, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		store:      store,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) CreateUser(ctx context.Context, dto CreateUserDTO) (*User, error) {
	dto.Normalize()
	role, err := dto.Validate()
	if err != nil {
		return nil, err
	}

	var hash string
	if dto.Password != "" {
		raw, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		hash = string(raw)
	}

	row := &userDatamodel.User{
		Name:         dto.Name,
		Email:        dto.Email,
		Role:         role,
		PasswordHash: hash,
	}
	err = s.store.Transaction(ctx, func(tx port.Tx) error {
		existing, err := tx.Users().GetByEmail(ctx, dto.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return internal.ErrEmailTaken
		}
		return tx.Users().Create(ctx, row)
	})
	if err != nil {
		if !internal.IsKind(err, internal.ErrorTypeConflict) {
			s.logger.Error("failed to create user", "email", dto.Email, "error", err)
		}
		return nil, err
	}

	s.logger.Info("user created", "user_id", row.ID, "role", row.Role)
	return FromDataModel(row), nil
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*User, error) {
	var u *User
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		row, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if row == nil {
			return internal.NewNotFound("user", userID, internal.ErrCodeUserNotFound)
		}
		u = FromDataModel(row)
		return nil
	})
	return u, err
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u *User
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		row, err := tx.Users().GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if row == nil {
			return internal.NewNotFound("user", email, internal.ErrCodeUserNotFound)
		}
		u = FromDataModel(row)
		return nil
	})
	return u, err
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	var users []*User
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		rows, err := tx.Users().List(ctx)
		if err != nil {
			return err
		}
		users = make([]*User, 0, len(rows))
		for _, row := range rows {
			users = append(users, FromDataModel(row))
		}
		return nil
	})
	return users, err
}
