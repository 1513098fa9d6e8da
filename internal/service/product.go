package service

import (
	"context"
	"errors"
	"time"

	"gomarket/internal/logger"
	"gomarket/internal/models"
	"gomarket/internal/repository"
	"gomarket/internal/sentiment"
)

// Domain errors for listing flows. NotFound and Forbidden are distinct
// so callers can tell "no such product" from "not yours".
var (
	ErrNotFound     = errors.New("product not found")
	ErrForbidden    = errors.New("product belongs to another user")
	ErrInvalidPrice = errors.New("price must not be negative")
)

// ProductParams are the mutable fields of a listing.
type ProductParams struct {
	OwnerID     int64
	Name        string
	PriceCents  int64
	Description string
	// ImageRef replaces the stored reference when non-empty; on update an
	// empty value keeps the existing image.
	ImageRef string
}

type ProductService struct {
	products  repository.Products
	events    repository.Events
	annotator sentiment.Annotator // optional
	log       *logger.Logger
}

func NewProductService(products repository.Products, events repository.Events, annotator sentiment.Annotator, log *logger.Logger) *ProductService {
	return &ProductService{
		products:  products,
		events:    events,
		annotator: annotator,
		log:       log,
	}
}

var _ Products = (*ProductService)(nil)

// Create persists a new listing owned by p.OwnerID.
func (s *ProductService) Create(ctx context.Context, p ProductParams) (int64, error) {
	if p.PriceCents < 0 {
		return 0, ErrInvalidPrice
	}
	now := time.Now().UTC()

	id, err := s.products.Create(ctx, models.Product{
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		PriceCents:  p.PriceCents,
		Description: p.Description,
		ImageRef:    p.ImageRef,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return 0, err
	}

	s.appendEvent(ctx, models.AuditEvent{
		Type:        models.EventProductCreated,
		Description: "Product " + p.Name + " created",
		Metadata:    map[string]any{"product_id": id, "owner_id": p.OwnerID},
	})
	s.annotateDescription(ctx, id, p.Description)
	return id, nil
}

// Get fetches one listing.
func (s *ProductService) Get(ctx context.Context, id int64) (*models.Product, error) {
	p, err := s.products.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// Update overwrites the mutable fields after an ownership check.
func (s *ProductService) Update(ctx context.Context, id, callerID int64, p ProductParams) error {
	if p.PriceCents < 0 {
		return ErrInvalidPrice
	}

	existing, err := s.products.ByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	if existing.OwnerID != callerID {
		return ErrForbidden
	}

	existing.Name = p.Name
	existing.PriceCents = p.PriceCents
	existing.Description = p.Description
	if p.ImageRef != "" {
		existing.ImageRef = p.ImageRef
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(ctx, *existing); err != nil {
		return err
	}

	s.appendEvent(ctx, models.AuditEvent{
		Type:        models.EventProductUpdated,
		Description: "Product " + existing.Name + " updated",
		Metadata:    map[string]any{"product_id": id, "owner_id": callerID},
	})
	s.annotateDescription(ctx, id, p.Description)
	return nil
}

// Delete removes a listing after an ownership check.
func (s *ProductService) Delete(ctx context.Context, id, callerID int64) error {
	existing, err := s.products.ByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	if existing.OwnerID != callerID {
		return ErrForbidden
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.appendEvent(ctx, models.AuditEvent{
		Type:        models.EventProductDeleted,
		Description: "Product " + existing.Name + " deleted",
		Metadata:    map[string]any{"product_id": id, "owner_id": callerID},
	})
	return nil
}

// ListAll returns every listing, any owner, in insertion order.
func (s *ProductService) ListAll(ctx context.Context) ([]models.Product, error) {
	return s.products.All(ctx)
}

// ListByOwner returns one user's listings in insertion order.
func (s *ProductService) ListByOwner(ctx context.Context, ownerID int64) ([]models.Product, error) {
	return s.products.ByOwner(ctx, ownerID)
}

// appendEvent records an audit event best-effort; a failed append never
// fails the mutation, but it is logged.
func (s *ProductService) appendEvent(ctx context.Context, e models.AuditEvent) {
	if err := s.events.Append(ctx, e); err != nil && s.log != nil {
		s.log.Warnw("audit_append_failed", "type", e.Type, "err", err)
	}
}

// annotateDescription classifies the description when an annotator is
// wired. The result is logged only; no stored field depends on it.
func (s *ProductService) annotateDescription(ctx context.Context, productID int64, description string) {
	if s.annotator == nil || description == "" {
		return
	}
	res, err := s.annotator.Annotate(ctx, description)
	if err != nil {
		if s.log != nil {
			s.log.Warnw("description_sentiment_failed", "product_id", productID, "err", err)
		}
		return
	}
	if s.log != nil {
		s.log.Infow("description_sentiment", "product_id", productID, "label", res.Label, "score", res.Score)
	}
}
