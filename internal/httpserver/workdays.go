package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/teamshift/internal/logging"
	"github.com/Skotchmaster/teamshift/internal/service"
)

type WorkDayHTTP struct {
	Svc *service.WorkDayService
}

type createWorkDayRequest struct {
	Date      string `json:"date"`
	IsHoliday bool   `json:"is_holiday"`
}

type batchWorkDayRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type patchWorkDayRequest struct {
	IsHoliday bool `json:"is_holiday"`
}

type batchDeleteRequest struct {
	IDs []uint `json:"ids"`
}

func (h *WorkDayHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "workday_create")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	roleID, err := uintParam(c, "id")
	if err != nil {
		return badRequest(l, "create_workday_error", "role id is not a number", err)
	}
	var req createWorkDayRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_workday_error", "invalid body", err)
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return badRequest(l, "create_workday_error", "date must be YYYY-MM-DD", err)
	}

	wd, err := h.Svc.Create(ctx, me, roleID, date, req.IsHoliday)
	if err != nil {
		return fail(l, "create_workday_error", err)
	}
	return c.JSON(http.StatusCreated, wd)
}

func (h *WorkDayHTTP) BatchCreate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "workday_batch_create")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	roleID, err := uintParam(c, "id")
	if err != nil {
		return badRequest(l, "batch_create_workdays_error", "role id is not a number", err)
	}
	var req batchWorkDayRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "batch_create_workdays_error", "invalid body", err)
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return badRequest(l, "batch_create_workdays_error", "start_date must be YYYY-MM-DD", err)
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return badRequest(l, "batch_create_workdays_error", "end_date must be YYYY-MM-DD", err)
	}

	days, err := h.Svc.BatchCreate(ctx, me, roleID, start, end)
	if err != nil {
		return fail(l, "batch_create_workdays_error", err)
	}
	l.Info("workdays_created", "role_id", roleID, "count", len(days))
	return c.JSON(http.StatusCreated, days)
}

func (h *WorkDayHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "workday_list")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	roleID, err := uintParam(c, "id")
	if err != nil {
		return badRequest(l, "list_workdays_error", "role id is not a number", err)
	}

	var from, to time.Time
	if v := c.QueryParam("from"); v != "" {
		if from, err = parseDate(v); err != nil {
			return badRequest(l, "list_workdays_error", "from must be YYYY-MM-DD", err)
		}
	}
	if v := c.QueryParam("to"); v != "" {
		if to, err = parseDate(v); err != nil {
			return badRequest(l, "list_workdays_error", "to must be YYYY-MM-DD", err)
		}
	}

	days, err := h.Svc.List(ctx, me, roleID, from, to)
	if err != nil {
		return fail(l, "list_workdays_error", err)
	}
	return c.JSON(http.StatusOK, days)
}

func (h *WorkDayHTTP) Patch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "workday_patch")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	id, err := uintParam(c, "id")
	if err != nil {
		return badRequest(l, "patch_workday_error", "id is not a number", err)
	}
	var req patchWorkDayRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_workday_error", "invalid body", err)
	}

	wd, err := h.Svc.SetHoliday(ctx, me, id, req.IsHoliday)
	if err != nil {
		return fail(l, "patch_workday_error", err)
	}
	return c.JSON(http.StatusOK, wd)
}

func (h *WorkDayHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "workday_delete")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	id, err := uintParam(c, "id")
	if err != nil {
		return badRequest(l, "delete_workday_error", "id is not a number", err)
	}
	if err := h.Svc.Delete(ctx, me, id); err != nil {
		return fail(l, "delete_workday_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *WorkDayHTTP) BatchDelete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "workday_batch_delete")

	me, err := actorID(c)
	if err != nil {
		return err
	}
	roleID, err := uintParam(c, "id")
	if err != nil {
		return badRequest(l, "batch_delete_workdays_error", "role id is not a number", err)
	}
	var req batchDeleteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "batch_delete_workdays_error", "invalid body", err)
	}

	n, err := h.Svc.BatchDelete(ctx, me, roleID, req.IDs)
	if err != nil {
		return fail(l, "batch_delete_workdays_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}
