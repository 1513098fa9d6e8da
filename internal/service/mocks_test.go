package service

import (
	"context"
	"time"

	"gomarket/internal/models"
)

// Lightweight hand-written mocks for the repository interfaces.

type mockUserRepo struct {
	CreateFn     func(username, email, hash string) (int64, error)
	ByIDFn       func(id int64) (*models.User, error)
	ByUsernameFn func(username string) (*models.User, error)
	ByEmailFn    func(email string) (*models.User, error)

	createCalls []struct {
		username, email, hash string
	}
}

func (m *mockUserRepo) Create(_ context.Context, username, email, hash string) (int64, error) {
	m.createCalls = append(m.createCalls, struct {
		username, email, hash string
	}{username, email, hash})
	return m.CreateFn(username, email, hash)
}

func (m *mockUserRepo) ByID(_ context.Context, id int64) (*models.User, error) {
	if m.ByIDFn == nil {
		return nil, nil
	}
	return m.ByIDFn(id)
}

func (m *mockUserRepo) ByUsername(_ context.Context, username string) (*models.User, error) {
	if m.ByUsernameFn == nil {
		return nil, nil
	}
	return m.ByUsernameFn(username)
}

func (m *mockUserRepo) ByEmail(_ context.Context, email string) (*models.User, error) {
	if m.ByEmailFn == nil {
		return nil, nil
	}
	return m.ByEmailFn(email)
}

type mockProductRepo struct {
	CreateFn  func(p models.Product) (int64, error)
	ByIDFn    func(id int64) (*models.Product, error)
	UpdateFn  func(p models.Product) error
	DeleteFn  func(id int64) error
	AllFn     func() ([]models.Product, error)
	ByOwnerFn func(ownerID int64) ([]models.Product, error)

	updateCalls []models.Product
	deleteCalls []int64
}

func (m *mockProductRepo) Create(_ context.Context, p models.Product) (int64, error) {
	return m.CreateFn(p)
}

func (m *mockProductRepo) ByID(_ context.Context, id int64) (*models.Product, error) {
	return m.ByIDFn(id)
}

func (m *mockProductRepo) Update(_ context.Context, p models.Product) error {
	m.updateCalls = append(m.updateCalls, p)
	if m.UpdateFn == nil {
		return nil
	}
	return m.UpdateFn(p)
}

func (m *mockProductRepo) Delete(_ context.Context, id int64) error {
	m.deleteCalls = append(m.deleteCalls, id)
	if m.DeleteFn == nil {
		return nil
	}
	return m.DeleteFn(id)
}

func (m *mockProductRepo) All(_ context.Context) ([]models.Product, error) {
	return m.AllFn()
}

func (m *mockProductRepo) ByOwner(_ context.Context, ownerID int64) ([]models.Product, error) {
	return m.ByOwnerFn(ownerID)
}

type mockEventRepo struct {
	appended  []models.AuditEvent
	AppendErr error
	ListFn    func(from, to time.Time, typ string) ([]models.AuditEvent, error)

	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventRepo) Append(_ context.Context, e models.AuditEvent) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.appended = append(m.appended, e)
	return nil
}

func (m *mockEventRepo) List(_ context.Context, from, to time.Time, typ string) ([]models.AuditEvent, error) {
	m.lastFrom, m.lastTo, m.lastType = from, to, typ
	if m.ListFn == nil {
		return nil, nil
	}
	return m.ListFn(from, to, typ)
}
