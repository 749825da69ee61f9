package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/teamshift/internal/logging"
	"github.com/Skotchmaster/teamshift/internal/service"
)

type RequestHTTP struct {
	Svc *service.RequestService
}

type approveRequest struct {
	RoleID *uint `json:"role_id"`
}

func (h *RequestHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "join_request_create")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	companyID, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(l, "create_request_error", "company id is not a uuid", err)
	}

	req, err := h.Svc.Create(ctx, me, companyID)
	if err != nil {
		return fail(l, "create_request_error", err)
	}
	return c.JSON(http.StatusCreated, req)
}

func (h *RequestHTTP) ListByCompany(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "join_request_list")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	companyID, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(l, "list_requests_error", "company id is not a uuid", err)
	}

	list, err := h.Svc.ListByCompany(ctx, me, companyID, c.QueryParam("status"))
	if err != nil {
		return fail(l, "list_requests_error", err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *RequestHTTP) ListMine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "join_request_mine")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	list, err := h.Svc.ListMine(ctx, me)
	if err != nil {
		return fail(l, "list_my_requests_error", err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *RequestHTTP) Approve(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "join_request_approve")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	id, err := uintParam(c, "id")
	if err != nil {
		return badRequest(l, "approve_request_error", "id is not a number", err)
	}
	var body approveRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(l, "approve_request_error", "invalid body", err)
	}

	req, err := h.Svc.Approve(ctx, me, id, body.RoleID)
	if err != nil {
		return fail(l, "approve_request_error", err)
	}
	return c.JSON(http.StatusOK, req)
}

func (h *RequestHTTP) Reject(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "join_request_reject")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	id, err := uintParam(c, "id")
	if err != nil {
		return badRequest(l, "reject_request_error", "id is not a number", err)
	}

	req, err := h.Svc.Reject(ctx, me, id)
	if err != nil {
		return fail(l, "reject_request_error", err)
	}
	return c.JSON(http.StatusOK, req)
}
