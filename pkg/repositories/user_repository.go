package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sakenavi/sakenavi-engine/pkg/apperrors"
	"github.com/sakenavi/sakenavi-engine/pkg/database"
	"github.com/sakenavi/sakenavi-engine/pkg/models"
)

// UserRepository provides data access for review authors.
type UserRepository interface {
	// FindOrCreateByEmail returns the existing user for the email or
	// creates one.
	FindOrCreateByEmail(ctx context.Context, email, username string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type userRepository struct {
	db *database.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *database.DB) UserRepository {
	return &userRepository{db: db}
}

var _ UserRepository = (*userRepository)(nil)

func (r *userRepository) FindOrCreateByEmail(ctx context.Context, email, username string) (*models.User, error) {
	q := r.db.QuerierFrom(ctx)

	var user models.User
	var dbUsername *string
	err := q.QueryRow(ctx,
		`SELECT id, email, username, created_at, updated_at FROM users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Email, &dbUsername, &user.CreatedAt, &user.UpdatedAt)
	if err == nil {
		if dbUsername != nil {
			user.Username = *dbUsername
		}
		return &user, nil
	}
	if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	err = q.QueryRow(ctx,
		`INSERT INTO users (email, username) VALUES ($1, $2)
		 RETURNING id, email, created_at, updated_at`,
		email, nullString(username),
	).Scan(&user.ID, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.Username = username

	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	q := r.db.QuerierFrom(ctx)

	var user models.User
	var dbUsername *string
	err := q.QueryRow(ctx,
		`SELECT id, email, username, created_at, updated_at FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Email, &dbUsername, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if dbUsername != nil {
		user.Username = *dbUsername
	}

	return &user, nil
}
