package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/teamshift/internal/logging"
	"github.com/Skotchmaster/teamshift/internal/service"
)

type MembershipHTTP struct {
	Svc *service.MembershipService
}

type assignRoleRequest struct {
	RoleID *uint `json:"role_id"`
}

func (h *MembershipHTTP) ListByCompany(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "members_by_company")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	companyID, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(l, "list_members_error", "company id is not a uuid", err)
	}

	members, err := h.Svc.ListByCompany(ctx, me, companyID)
	if err != nil {
		return fail(l, "list_members_error", err)
	}
	return c.JSON(http.StatusOK, members)
}

func (h *MembershipHTTP) ListByUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "companies_by_user")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	userID, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(l, "list_user_companies_error", "user id is not a uuid", err)
	}

	memberships, err := h.Svc.ListByUser(ctx, me, userID)
	if err != nil {
		return fail(l, "list_user_companies_error", err)
	}
	return c.JSON(http.StatusOK, memberships)
}

func (h *MembershipHTTP) AssignRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "membership_assign_role")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	id, err := uintParam(c, "id")
	if err != nil {
		return badRequest(l, "assign_role_error", "id is not a number", err)
	}
	var req assignRoleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "assign_role_error", "invalid body", err)
	}

	m, err := h.Svc.AssignRole(ctx, me, id, req.RoleID)
	if err != nil {
		return fail(l, "assign_role_error", err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MembershipHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "membership_remove")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	id, err := uintParam(c, "id")
	if err != nil {
		return badRequest(l, "remove_membership_error", "id is not a number", err)
	}
	if err := h.Svc.Remove(ctx, me, id); err != nil {
		return fail(l, "remove_membership_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
