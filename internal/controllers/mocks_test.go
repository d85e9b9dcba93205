package controllers

import (
	"context"
	"io"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/pminsight/client/internal/api"
	"github.com/pminsight/client/internal/models"
)

type MockRequestRepo struct {
	mock.Mock
}

func (m *MockRequestRepo) ListPendingRequests(ctx context.Context, destinatarioID int, estado models.State) ([]models.Request, error) {
	args := m.Called(ctx, destinatarioID, estado)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Request), args.Error(1)
}

func (m *MockRequestRepo) ListMyRequests(ctx context.Context, solicitanteID int) ([]models.Request, error) {
	args := m.Called(ctx, solicitanteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Request), args.Error(1)
}

func (m *MockRequestRepo) CreateRequest(ctx context.Context, form models.CreateRequestForm) (*models.Request, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

func (m *MockRequestRepo) UpdateRequestState(ctx context.Context, id int, estado models.State) (*models.Request, error) {
	args := m.Called(ctx, id, estado)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

func (m *MockRequestRepo) Decide(ctx context.Context, id int, decision, comentario string) (*models.Request, error) {
	args := m.Called(ctx, id, decision, comentario)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

type MockLiquidationRepo struct {
	mock.Mock
}

func (m *MockLiquidationRepo) ListLiquidations(ctx context.Context, estado models.State) ([]models.Liquidation, error) {
	args := m.Called(ctx, estado)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Liquidation), args.Error(1)
}

func (m *MockLiquidationRepo) GetLiquidation(ctx context.Context, id int) (*models.Liquidation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Liquidation), args.Error(1)
}

func (m *MockLiquidationRepo) LiquidationAction(ctx context.Context, id int, accion string) (*models.Liquidation, error) {
	args := m.Called(ctx, id, accion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Liquidation), args.Error(1)
}

type MockCashBoxRepo struct {
	mock.Mock
}

func (m *MockCashBoxRepo) GetCashBox(ctx context.Context, fecha string) (*models.CashBox, error) {
	args := m.Called(ctx, fecha)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CashBox), args.Error(1)
}

func (m *MockCashBoxRepo) AddCashBoxMovement(ctx context.Context, boxID int, tipo models.MovementType, concepto string, monto decimal.Decimal, docName string, doc io.Reader) (*models.Movement, error) {
	args := m.Called(ctx, boxID, tipo, concepto, monto, docName, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movement), args.Error(1)
}

func (m *MockCashBoxRepo) CloseCashBox(ctx context.Context, boxID int) (*models.CashBox, error) {
	args := m.Called(ctx, boxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CashBox), args.Error(1)
}

type MockGuideRepo struct {
	mock.Mock
}

func (m *MockGuideRepo) ListGuides(ctx context.Context, estado models.GuideState) ([]models.Guide, error) {
	args := m.Called(ctx, estado)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Guide), args.Error(1)
}

func (m *MockGuideRepo) CreateGuide(ctx context.Context, guide models.Guide) (*models.Guide, error) {
	args := m.Called(ctx, guide)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Guide), args.Error(1)
}

func (m *MockGuideRepo) UpdateGuideState(ctx context.Context, id int, estado models.GuideState) (*models.Guide, error) {
	args := m.Called(ctx, id, estado)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Guide), args.Error(1)
}

type MockDashboardRepo struct {
	mock.Mock
}

func (m *MockDashboardRepo) GetDashboardSummary(ctx context.Context) (*api.DashboardSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.DashboardSummary), args.Error(1)
}
