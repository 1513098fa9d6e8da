package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gomarket/internal/models"
	"gomarket/internal/repository"
)

// LogFilter narrows an audit trail query. Zero values mean "no bound".
type LogFilter struct {
	From time.Time
	To   time.Time
	Type string
}

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

type AuditLogService struct {
	events repository.Events
}

func NewAuditLogService(events repository.Events) *AuditLogService {
	return &AuditLogService{events: events}
}

var _ AuditLog = (*AuditLogService)(nil)

func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}
	return from, to, strings.TrimSpace(strings.ToUpper(f.Type)), nil
}

func (s *AuditLogService) List(ctx context.Context, f LogFilter) ([]models.AuditEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.events.List(ctx, from, to, typ)
}
