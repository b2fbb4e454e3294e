package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"vnstock-service/internal/dto"
	"vnstock-service/internal/repository"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupCompanies(base *echo.Group) {
	v1 := base.Group("/v1/companies")
	{
		v1.GET("", h.ListCompanies)
		v1.GET("/search", h.SearchCompanies)
		v1.GET("/top", h.TopCompanies)
		v1.GET("/stats", h.CompanyStats)
		v1.GET("/compare", h.CompareCompanies)
		v1.GET("/:ticker", h.GetCompany)
		v1.GET("/:ticker/similar", h.SimilarCompanies)
	}
}

func (h *HttpAPIHandler) GetCompany(c echo.Context) error {
	company, err := h.service.CompanyService.Get(c.Request().Context(), c.Param("ticker"))
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return c.JSON(http.StatusNotFound, dto.NewNotFoundResponse("company not found"))
		}
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", company))
}

func (h *HttpAPIHandler) ListCompanies(c echo.Context) error {
	var param dto.ListCompaniesParam
	if err := c.Bind(&param); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	if err := h.validator.Struct(param); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	companies, total, err := h.service.CompanyService.List(c.Request().Context(), param)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}

	page := param.Page
	if page < 1 {
		page = 1
	}
	limit := param.Limit
	if limit < 1 {
		limit = 20
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", dto.PagedData{
		Items:      companies,
		Page:       page,
		Limit:      limit,
		TotalItems: total,
	}))
}

func (h *HttpAPIHandler) SearchCompanies(c echo.Context) error {
	var param dto.SearchCompaniesParam
	if err := c.Bind(&param); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	if err := h.validator.Struct(param); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	companies, err := h.service.CompanyService.Search(c.Request().Context(), param)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", companies))
}

func (h *HttpAPIHandler) TopCompanies(c echo.Context) error {
	var param dto.TopCompaniesParam
	if err := c.Bind(&param); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	if err := h.validator.Struct(param); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	companies, err := h.service.CompanyService.Top(c.Request().Context(), param)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", companies))
}

func (h *HttpAPIHandler) CompanyStats(c echo.Context) error {
	var param dto.CompanyStatsParam
	if err := c.Bind(&param); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	if err := h.validator.Struct(param); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	stats, err := h.service.CompanyService.Stats(c.Request().Context(), param)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", stats))
}

func (h *HttpAPIHandler) CompareCompanies(c echo.Context) error {
	tickers := strings.Split(c.QueryParam("tickers"), ",")
	companies, err := h.service.CompanyService.Compare(c.Request().Context(), tickers)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", companies))
}

func (h *HttpAPIHandler) SimilarCompanies(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	companies, err := h.service.CompanyService.Similar(c.Request().Context(), c.Param("ticker"), limit)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return c.JSON(http.StatusNotFound, dto.NewNotFoundResponse("company not found"))
		}
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", companies))
}
