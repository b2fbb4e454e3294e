package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vnstock-service/internal/dto"
	"vnstock-service/internal/model"
	"vnstock-service/internal/repository"
	"vnstock-service/internal/service"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompanyService struct {
	companies map[string]*model.Company
}

func (s *stubCompanyService) Get(_ context.Context, ticker string) (*model.Company, error) {
	if company, ok := s.companies[ticker]; ok {
		return company, nil
	}
	return nil, repository.ErrCompanyNotFound
}

func (s *stubCompanyService) List(context.Context, dto.ListCompaniesParam) ([]model.Company, int64, error) {
	return nil, 0, nil
}

func (s *stubCompanyService) Search(_ context.Context, param dto.SearchCompaniesParam) ([]model.Company, error) {
	return []model.Company{{Ticker: "VIC"}}, nil
}

func (s *stubCompanyService) Top(context.Context, dto.TopCompaniesParam) ([]model.Company, error) {
	return nil, nil
}

func (s *stubCompanyService) Stats(context.Context, dto.CompanyStatsParam) ([]dto.GroupStat, error) {
	return nil, nil
}

func (s *stubCompanyService) Compare(context.Context, []string) ([]model.Company, error) {
	return nil, nil
}

func (s *stubCompanyService) Similar(context.Context, string, int) ([]model.Company, error) {
	return nil, nil
}

func newTestHandler(companies map[string]*model.Company) (*HttpAPIHandler, *echo.Echo) {
	e := echo.New()
	services := &service.Service{
		CompanyService: &stubCompanyService{companies: companies},
	}
	handler := NewHttpAPIHandler(context.Background(), e, goValidator.New(), services)
	return handler, e
}

func TestGetCompany(t *testing.T) {
	handler, e := newTestHandler(map[string]*model.Company{
		"VIC": {Ticker: "VIC"},
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/companies/:ticker")
	c.SetParamNames("ticker")
	c.SetParamValues("VIC")

	require.NoError(t, handler.GetCompany(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.BaseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestGetCompany_NotFound(t *testing.T) {
	handler, e := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/companies/:ticker")
	c.SetParamNames("ticker")
	c.SetParamValues("NOPE")

	require.NoError(t, handler.GetCompany(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchCompanies_RequiresQuery(t *testing.T) {
	handler, e := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/?limit=5", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.SearchCompanies(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchCompanies(t *testing.T) {
	handler, e := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/?q=vin", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.SearchCompanies(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
