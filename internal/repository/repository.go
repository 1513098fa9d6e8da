package repository

import (
	"context"
	"database/sql"
	"time"

	"gomarket/internal/models"
)

type Users interface {
	Create(ctx context.Context, username, email, passwordHash string) (int64, error)
	ByID(ctx context.Context, id int64) (*models.User, error)
	ByUsername(ctx context.Context, username string) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
}

type Products interface {
	Create(ctx context.Context, p models.Product) (int64, error)
	ByID(ctx context.Context, id int64) (*models.Product, error)
	Update(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, id int64) error
	All(ctx context.Context) ([]models.Product, error)
	ByOwner(ctx context.Context, ownerID int64) ([]models.Product, error)
}

type Events interface {
	Append(ctx context.Context, e models.AuditEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.AuditEvent, error)
}

type Repository struct {
	Users    Users
	Products Products
	Events   Events
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{
		Users:    NewUserRepository(conn),
		Products: NewProductRepository(conn),
		Events:   NewEventRepository(conn),
	}
}
