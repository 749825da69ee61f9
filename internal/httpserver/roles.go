package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/teamshift/internal/logging"
	"github.com/Skotchmaster/teamshift/internal/service"
)

type RoleHTTP struct {
	Svc *service.RoleService
}

type createRoleRequest struct {
	Name                 string `json:"name"`
	NumberOfCooldownDays int    `json:"number_of_cooldown_days"`
}

type patchRoleRequest struct {
	Name                 *string `json:"name"`
	NumberOfCooldownDays *int    `json:"number_of_cooldown_days"`
}

func (h *RoleHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "role_create")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	companyID, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(l, "create_role_error", "company id is not a uuid", err)
	}
	var req createRoleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_role_error", "invalid body", err)
	}

	role, err := h.Svc.CreateRole(ctx, me, companyID, req.Name, req.NumberOfCooldownDays)
	if err != nil {
		return fail(l, "create_role_error", err)
	}
	return c.JSON(http.StatusCreated, role)
}

func (h *RoleHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "role_list")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	companyID, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(l, "list_roles_error", "company id is not a uuid", err)
	}

	roles, err := h.Svc.ListRoles(ctx, me, companyID)
	if err != nil {
		return fail(l, "list_roles_error", err)
	}
	return c.JSON(http.StatusOK, roles)
}

func (h *RoleHTTP) Patch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "role_patch")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	id, err := uintParam(c, "id")
	if err != nil {
		return badRequest(l, "patch_role_error", "id is not a number", err)
	}
	var req patchRoleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_role_error", "invalid body", err)
	}

	role, err := h.Svc.UpdateRole(ctx, me, id, service.RoleUpdate{
		Name:                 req.Name,
		NumberOfCooldownDays: req.NumberOfCooldownDays,
	})
	if err != nil {
		return fail(l, "patch_role_error", err)
	}
	return c.JSON(http.StatusOK, role)
}

func (h *RoleHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "role_delete")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	id, err := uintParam(c, "id")
	if err != nil {
		return badRequest(l, "delete_role_error", "id is not a number", err)
	}
	if err := h.Svc.DeleteRole(ctx, me, id); err != nil {
		return fail(l, "delete_role_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
