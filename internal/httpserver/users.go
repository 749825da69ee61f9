package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/teamshift/internal/logging"
	"github.com/Skotchmaster/teamshift/internal/service"
	"github.com/Skotchmaster/teamshift/internal/util"
)

type UserHTTP struct {
	Svc *service.UserService
}

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type patchUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Password  *string `json:"password"`
}

func (h *UserHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_register")

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "register_error", "invalid body", err)
	}

	actor, err := h.Svc.Register(ctx, service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return fail(l, "register_error", err)
	}
	return c.JSON(http.StatusCreated, actor)
}

func (h *UserHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	offset, limit := util.Calculate(page, util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize))

	users, err := h.Svc.List(ctx, offset, limit)
	if err != nil {
		return fail(l, "list_users_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": users, "meta": util.Meta(page, offset, limit, -1)})
}

func (h *UserHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_get")

	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(l, "get_user_error", "id is not a uuid", err)
	}
	actor, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_user_error", err)
	}
	return c.JSON(http.StatusOK, actor)
}

func (h *UserHTTP) Patch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_patch")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(l, "patch_user_error", "id is not a uuid", err)
	}
	var req patchUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_user_error", "invalid body", err)
	}

	actor, err := h.Svc.Update(ctx, me, id, service.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return fail(l, "patch_user_error", err)
	}
	return c.JSON(http.StatusOK, actor)
}

func (h *UserHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_delete")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(l, "delete_user_error", "id is not a uuid", err)
	}
	if err := h.Svc.Delete(ctx, me, id); err != nil {
		return fail(l, "delete_user_error", err)
	}
	l.Info("user_deleted", "user_id", id)
	return c.NoContent(http.StatusNoContent)
}
