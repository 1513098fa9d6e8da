package handlers

import (
	"context"

	"gomarket/internal/models"
	"gomarket/internal/service"
)

// ---- Service mocks for handler tests ----
// Kept in a non-test file so every *_test.go in the package shares them.

type mockAuth struct {
	registerID  int64
	registerErr error
	authUser    *models.User
	authErr     error
	userByID    map[int64]*models.User

	lastRegisterUsername string
	lastRegisterEmail    string
	lastAuthEmail        string
	registerCalls        int
}

func (m *mockAuth) Register(_ context.Context, username, email, _ string) (int64, error) {
	m.registerCalls++
	m.lastRegisterUsername = username
	m.lastRegisterEmail = email
	return m.registerID, m.registerErr
}

func (m *mockAuth) Authenticate(_ context.Context, email, _ string) (*models.User, error) {
	m.lastAuthEmail = email
	if m.authErr != nil {
		return nil, m.authErr
	}
	return m.authUser, nil
}

func (m *mockAuth) UserByID(_ context.Context, id int64) (*models.User, error) {
	return m.userByID[id], nil
}

type mockProducts struct {
	createID  int64
	createErr error
	getResult *models.Product
	getErr    error
	updateErr error
	deleteErr error
	all       []models.Product
	allErr    error
	byOwner   []models.Product

	createCalls []service.ProductParams
	updateCalls []service.ProductParams
	deleteCalls []int64
}

func (m *mockProducts) Create(_ context.Context, p service.ProductParams) (int64, error) {
	if m.createErr == nil {
		m.createCalls = append(m.createCalls, p)
	}
	return m.createID, m.createErr
}

func (m *mockProducts) Get(_ context.Context, id int64) (*models.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.getResult, nil
}

func (m *mockProducts) Update(_ context.Context, id, callerID int64, p service.ProductParams) error {
	if m.updateErr == nil {
		m.updateCalls = append(m.updateCalls, p)
	}
	return m.updateErr
}

func (m *mockProducts) Delete(_ context.Context, id, callerID int64) error {
	if m.deleteErr == nil {
		m.deleteCalls = append(m.deleteCalls, id)
	}
	return m.deleteErr
}

func (m *mockProducts) ListAll(_ context.Context) ([]models.Product, error) {
	return m.all, m.allErr
}

func (m *mockProducts) ListByOwner(_ context.Context, ownerID int64) ([]models.Product, error) {
	return m.byOwner, nil
}

type mockAuditLog struct {
	events     []models.AuditEvent
	err        error
	lastFilter service.LogFilter
}

func (m *mockAuditLog) List(_ context.Context, f service.LogFilter) ([]models.AuditEvent, error) {
	m.lastFilter = f
	return m.events, m.err
}
