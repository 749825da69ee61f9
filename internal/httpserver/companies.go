package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/teamshift/internal/logging"
	"github.com/Skotchmaster/teamshift/internal/service"
	"github.com/Skotchmaster/teamshift/internal/util"
)

type CompanyHTTP struct {
	Svc *service.CompanyService
}

type companyRequest struct {
	Name string `json:"name"`
}

func (h *CompanyHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "company_create")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	var req companyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_company_error", "invalid body", err)
	}

	company, err := h.Svc.Create(ctx, me, req.Name)
	if err != nil {
		return fail(l, "create_company_error", err)
	}
	return c.JSON(http.StatusCreated, company)
}

func (h *CompanyHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "company_list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	offset, limit := util.Calculate(page, util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize))

	companies, err := h.Svc.List(ctx, offset, limit)
	if err != nil {
		return fail(l, "list_companies_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": companies, "meta": util.Meta(page, offset, limit, -1)})
}

func (h *CompanyHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "company_search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	offset, limit := util.Calculate(page, util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize))

	total, companies, err := h.Svc.Search(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(l, "search_companies_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": companies, "meta": util.Meta(page, offset, limit, total)})
}

func (h *CompanyHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "company_get")

	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(l, "get_company_error", "id is not a uuid", err)
	}
	company, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_company_error", err)
	}
	return c.JSON(http.StatusOK, company)
}

func (h *CompanyHTTP) Patch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "company_patch")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(l, "patch_company_error", "id is not a uuid", err)
	}
	var req companyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_company_error", "invalid body", err)
	}

	company, err := h.Svc.Rename(ctx, me, id, req.Name)
	if err != nil {
		return fail(l, "patch_company_error", err)
	}
	return c.JSON(http.StatusOK, company)
}

func (h *CompanyHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "company_delete")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(l, "delete_company_error", "id is not a uuid", err)
	}
	if err := h.Svc.Delete(ctx, me, id); err != nil {
		return fail(l, "delete_company_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
