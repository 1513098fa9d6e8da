package service

import (
	"context"
	"time"

	"gomarket/internal/logger"
	"gomarket/internal/models"
	"gomarket/internal/repository"
	"gomarket/internal/sentiment"
)

// Authorization owns the credential store: registration and login.
type Authorization interface {
	Register(ctx context.Context, username, email, password string) (int64, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	UserByID(ctx context.Context, id int64) (*models.User, error)
}

// Sessions maps opaque tokens to signed-in user ids. State is held
// server-side; the browser only ever sees the token.
type Sessions interface {
	Create(userID int64) string
	Resolve(token string) (int64, error)
	Destroy(token string)
	// Run sweeps expired sessions until ctx is canceled.
	Run(ctx context.Context, tick time.Duration)
}

// Products owns the listing store and its ownership rules.
type Products interface {
	Create(ctx context.Context, p ProductParams) (int64, error)
	Get(ctx context.Context, id int64) (*models.Product, error)
	Update(ctx context.Context, id, callerID int64, p ProductParams) error
	Delete(ctx context.Context, id, callerID int64) error
	ListAll(ctx context.Context) ([]models.Product, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Product, error)
}

// AuditLog exposes the append-only action trail with filtering.
type AuditLog interface {
	List(ctx context.Context, f LogFilter) ([]models.AuditEvent, error)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Sessions
	Products
	AuditLog
}

// Options carries optional collaborators.
type Options struct {
	SessionTTL time.Duration
	// Annotator may be nil; when set, product descriptions are classified
	// after create/update and the result is logged, never stored.
	Annotator sentiment.Annotator
	Log       *logger.Logger
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, opts Options) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, repos.Events, opts.Log),
		Sessions:      NewSessionManager(opts.SessionTTL),
		Products:      NewProductService(repos.Products, repos.Events, opts.Annotator, opts.Log),
		AuditLog:      NewAuditLogService(repos.Events),
	}
}
