// FILE: internal/controller/workspace_controller.go
package controller

import (
	"designhub-be/internal/dto"
	"designhub-be/internal/pkg/serverutils"
	"designhub-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IWorkspaceController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type workspaceController struct {
	service service.IWorkspaceService
}

func NewWorkspaceController(service service.IWorkspaceService) IWorkspaceController {
	return &workspaceController{service: service}
}

func (c *workspaceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/workspaces", serverutils.JwtMiddleware)
	h.Post("/", c.Create)
	h.Get("/", c.List)
	h.Get("/:id", c.Get)
	h.Put("/:id", c.Update)
}

func (c *workspaceController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateWorkspaceRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	userId := ctx.Locals("user_id").(string)

	res, err := c.service.CreateWorkspace(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Workspace created", res))
}

func (c *workspaceController) Update(ctx *fiber.Ctx) error {
	var req dto.UpdateWorkspaceRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	userId := ctx.Locals("user_id").(string)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid workspace id")
	}

	res, err := c.service.UpdateWorkspace(ctx.Context(), userId, id, &req)
	if err != nil {
		if err == service.ErrWorkspaceAccessDenied {
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Workspace updated", res))
}

func (c *workspaceController) Get(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid workspace id")
	}

	res, err := c.service.GetWorkspace(ctx.Context(), userId, id)
	if err != nil {
		if err == service.ErrWorkspaceAccessDenied {
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		}
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "workspace not found")
	}
	return ctx.JSON(serverutils.SuccessResponse("Workspace detail", res))
}

func (c *workspaceController) List(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	res, err := c.service.ListWorkspaces(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Workspaces", res))
}
