package controller

import (
	"time"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/authz"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/serverutils"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IClassController interface {
	RegisterRoutes(r fiber.Router)
	ListClassTypes(ctx *fiber.Ctx) error
	GetClassType(ctx *fiber.Ctx) error
	ListSchedule(ctx *fiber.Ctx) error
	CreateSchedule(ctx *fiber.Ctx) error
	UpdateSchedule(ctx *fiber.Ctx) error
	DeleteSchedule(ctx *fiber.Ctx) error
	CancelClass(ctx *fiber.Ctx) error
}

type classController struct {
	catalog  service.ICatalogService
	schedule service.IScheduleService
	auth     fiber.Handler
}

func NewClassController(catalog service.ICatalogService, schedule service.IScheduleService, auth fiber.Handler) IClassController {
	return &classController{catalog: catalog, schedule: schedule, auth: auth}
}

func (c *classController) RegisterRoutes(r fiber.Router) {
	classes := r.Group("/classes")
	classes.Get("/", c.ListClassTypes)
	classes.Get("/:id", c.GetClassType)

	manage := serverutils.RequireCapability(authz.ScheduleManage)
	schedule := r.Group("/schedule")
	schedule.Get("/", c.ListSchedule)
	schedule.Post("/", c.auth, manage, c.CreateSchedule)
	schedule.Patch("/:id", c.auth, manage, c.UpdateSchedule)
	schedule.Delete("/:id", c.auth, manage, c.DeleteSchedule)
	schedule.Post("/:id/cancel", c.auth, manage, c.CancelClass)
}

func (c *classController) ListClassTypes(ctx *fiber.Ctx) error {
	res, err := c.catalog.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Class types", res))
}

func (c *classController) GetClassType(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.catalog.Get(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Class type", res))
}

func parseScheduleQuery(ctx *fiber.Ctx) (dto.ScheduleQuery, error) {
	var q dto.ScheduleQuery
	if raw := ctx.Query("dayOfWeek"); raw != "" {
		day := ctx.QueryInt("dayOfWeek", -1)
		if day < 0 || day > 6 {
			return q, apperror.BadRequest("dayOfWeek must be between 0 and 6")
		}
		q.DayOfWeek = &day
	}
	for key, dst := range map[string]**time.Time{"startDate": &q.StartDate, "endDate": &q.EndDate} {
		raw := ctx.Query(key)
		if raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return q, apperror.BadRequest(key + " must be in YYYY-MM-DD format")
		}
		*dst = &t
	}
	return q, nil
}

func (c *classController) ListSchedule(ctx *fiber.Ctx) error {
	q, err := parseScheduleQuery(ctx)
	if err != nil {
		return err
	}
	res, err := c.schedule.List(ctx.UserContext(), q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Schedule", res))
}

func (c *classController) CreateSchedule(ctx *fiber.Ctx) error {
	var req dto.CreateScheduleRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.schedule.Create(ctx.UserContext(), serverutils.CurrentUserId(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Schedule created", res))
}

func (c *classController) UpdateSchedule(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateScheduleRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.schedule.Update(ctx.UserContext(), serverutils.CurrentUserId(ctx), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Schedule updated", res))
}

func (c *classController) DeleteSchedule(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.schedule.Delete(ctx.UserContext(), serverutils.CurrentUserId(ctx), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Schedule deleted", nil))
}

func (c *classController) CancelClass(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.CancelClassRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.schedule.CancelClass(ctx.UserContext(), serverutils.CurrentUserId(ctx), id, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Class cancelled", res))
}
