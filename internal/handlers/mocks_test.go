package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/Werneck0live/empresas-obrigacoes/internal/broker"
	"github.com/Werneck0live/empresas-obrigacoes/internal/models"
)

type companyRepoMock struct {
	CreateFn  func(ctx context.Context, c *models.Company) error
	ListFn    func(ctx context.Context) ([]models.Company, error)
	GetByIDFn func(ctx context.Context, id int64) (*models.Company, error)
	UpdateFn  func(ctx context.Context, id int64, c *models.Company) (*models.Company, error)
	DeleteFn  func(ctx context.Context, id int64) (*models.Company, error)
}

func (m *companyRepoMock) Create(ctx context.Context, c *models.Company) error {
	if m.CreateFn == nil {
		return errors.New("CreateFn not set")
	}
	return m.CreateFn(ctx, c)
}
func (m *companyRepoMock) List(ctx context.Context) ([]models.Company, error) {
	if m.ListFn == nil {
		return nil, errors.New("ListFn not set")
	}
	return m.ListFn(ctx)
}
func (m *companyRepoMock) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	if m.GetByIDFn == nil {
		return nil, errors.New("GetByIDFn not set")
	}
	return m.GetByIDFn(ctx, id)
}
func (m *companyRepoMock) Update(ctx context.Context, id int64, c *models.Company) (*models.Company, error) {
	if m.UpdateFn == nil {
		return nil, errors.New("UpdateFn not set")
	}
	return m.UpdateFn(ctx, id, c)
}
func (m *companyRepoMock) Delete(ctx context.Context, id int64) (*models.Company, error) {
	if m.DeleteFn == nil {
		return nil, errors.New("DeleteFn not set")
	}
	return m.DeleteFn(ctx, id)
}

type obligationRepoMock struct {
	CreateFn  func(ctx context.Context, o *models.Obligation) error
	ListFn    func(ctx context.Context) ([]models.Obligation, error)
	GetByIDFn func(ctx context.Context, id int64) (*models.Obligation, error)
	UpdateFn  func(ctx context.Context, id int64, o *models.Obligation) (*models.Obligation, error)
	DeleteFn  func(ctx context.Context, id int64) (*models.Obligation, error)
}

func (m *obligationRepoMock) Create(ctx context.Context, o *models.Obligation) error {
	if m.CreateFn == nil {
		return errors.New("CreateFn not set")
	}
	return m.CreateFn(ctx, o)
}
func (m *obligationRepoMock) List(ctx context.Context) ([]models.Obligation, error) {
	if m.ListFn == nil {
		return nil, errors.New("ListFn not set")
	}
	return m.ListFn(ctx)
}
func (m *obligationRepoMock) GetByID(ctx context.Context, id int64) (*models.Obligation, error) {
	if m.GetByIDFn == nil {
		return nil, errors.New("GetByIDFn not set")
	}
	return m.GetByIDFn(ctx, id)
}
func (m *obligationRepoMock) Update(ctx context.Context, id int64, o *models.Obligation) (*models.Obligation, error) {
	if m.UpdateFn == nil {
		return nil, errors.New("UpdateFn not set")
	}
	return m.UpdateFn(ctx, id, o)
}
func (m *obligationRepoMock) Delete(ctx context.Context, id int64) (*models.Obligation, error) {
	if m.DeleteFn == nil {
		return nil, errors.New("DeleteFn not set")
	}
	return m.DeleteFn(ctx, id)
}

// pubMock guarda os eventos recebidos; PublishFn opcional para simular falha.
type pubMock struct {
	mu        sync.Mutex
	events    []broker.Event
	PublishFn func(ctx context.Context, ev broker.Event) error
}

func (p *pubMock) Publish(ctx context.Context, ev broker.Event) error {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
	if p.PublishFn == nil {
		return nil
	}
	return p.PublishFn(ctx, ev)
}

func (p *pubMock) Events() []broker.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]broker.Event(nil), p.events...)
}
