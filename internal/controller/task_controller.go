// FILE: internal/controller/task_controller.go
package controller

import (
	"designhub-be/internal/dto"
	"designhub-be/internal/pkg/serverutils"
	"designhub-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITaskController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	GetBoard(ctx *fiber.Ctx) error
	UpdateStatus(ctx *fiber.Ctx) error
}

type taskController struct {
	service service.ITaskService
}

func NewTaskController(service service.ITaskService) ITaskController {
	return &taskController{service: service}
}

func (c *taskController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tasks", serverutils.JwtMiddleware)
	h.Post("/", c.Create)
	h.Get("/", c.List)
	h.Get("/board/:workspaceId", c.GetBoard)
	h.Get("/:id", c.Get)
	h.Patch("/:id/status", c.UpdateStatus)
}

func (c *taskController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateTaskRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	userId := ctx.Locals("user_id").(string)

	res, err := c.service.CreateTask(ctx.Context(), userId, &req)
	if err != nil {
		if err == service.ErrWorkspaceAccessDenied {
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		}
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Task created", res))
}

func (c *taskController) List(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	var workspaceId *uuid.UUID
	if q := ctx.Query("workspace_id"); q != "" {
		id, err := uuid.Parse(q)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid workspace id")
		}
		workspaceId = &id
	}

	res, err := c.service.ListTasks(ctx.Context(), userId, workspaceId)
	if err != nil {
		if err == service.ErrWorkspaceAccessDenied {
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Tasks", res))
}

func (c *taskController) Get(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid task id")
	}

	res, err := c.service.GetTask(ctx.Context(), userId, id)
	if err != nil {
		if err == service.ErrWorkspaceAccessDenied {
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		}
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "task not found")
	}
	return ctx.JSON(serverutils.SuccessResponse("Task detail", res))
}

func (c *taskController) GetBoard(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	workspaceId, err := uuid.Parse(ctx.Params("workspaceId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid workspace id")
	}

	res, err := c.service.GetBoard(ctx.Context(), userId, workspaceId)
	if err != nil {
		if err == service.ErrWorkspaceAccessDenied {
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Board", res))
}

func (c *taskController) UpdateStatus(ctx *fiber.Ctx) error {
	var req dto.UpdateTaskStatusRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	userId := ctx.Locals("user_id").(string)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid task id")
	}

	res, err := c.service.UpdateStatus(ctx.Context(), userId, id, req.Status)
	if err != nil {
		if err == service.ErrWorkspaceAccessDenied {
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Task status updated", res))
}
