// FILE: internal/controller/payment_controller.go
package controller

import (
	"fmt"

	"designhub-be/internal/dto"
	"designhub-be/internal/pkg/serverutils"
	"designhub-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	GetPlans(ctx *fiber.Ctx) error
	GetOrderSummary(ctx *fiber.Ctx) error
	Checkout(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
	GetStatus(ctx *fiber.Ctx) error
	CancelSubscription(ctx *fiber.Ctx) error
}

type paymentController struct {
	service service.IPaymentService
}

func NewPaymentController(service service.IPaymentService) IPaymentController {
	return &paymentController{service: service}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payment")
	h.Post("/midtrans/notification", c.Webhook)
	h.Get("/plans", c.GetPlans)
	h.Get("/summary", c.GetOrderSummary) // Public route, just needs plan_id

	// Protected Routes
	h.Post("/checkout", serverutils.JwtMiddleware, c.Checkout)
	h.Get("/status/:workspaceId", serverutils.JwtMiddleware, c.GetStatus)
	h.Post("/cancel/:workspaceId", serverutils.JwtMiddleware, c.CancelSubscription)
}

func (c *paymentController) GetPlans(ctx *fiber.Ctx) error {
	res, err := c.service.GetPlans(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching plans", res))
}

func (c *paymentController) GetOrderSummary(ctx *fiber.Ctx) error {
	planIdStr := ctx.Query("plan_id")
	if planIdStr == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "plan_id is required"))
	}

	planId, err := uuid.Parse(planIdStr)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid plan_id format"))
	}

	res, err := c.service.GetOrderSummary(ctx.Context(), planId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Order summary", res))
}

func (c *paymentController) Checkout(ctx *fiber.Ctx) error {
	var req dto.CheckoutRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	userId := ctx.Locals("user_id").(string)

	res, err := c.service.CreateSubscription(ctx.Context(), userId, &req)
	if err != nil {
		if err == service.ErrWorkspaceAccessDenied {
			return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription created", res))
}

func (c *paymentController) Webhook(ctx *fiber.Ctx) error {
	var req dto.MidtransWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		fmt.Printf("[WEBHOOK ERROR] Body parsing failed: %v\n", err)
		return ctx.SendStatus(fiber.StatusBadRequest)
	}

	sigPreview := req.SignatureKey
	if len(sigPreview) > 8 {
		sigPreview = sigPreview[:8] + "..."
	}
	fmt.Printf("[WEBHOOK] Received: OrderId=%s, Status=%s, SignatureKey=%s\n",
		req.OrderId, req.TransactionStatus, sigPreview)

	err := c.service.HandleNotification(ctx.Context(), &req)
	if err != nil {
		fmt.Printf("[WEBHOOK ERROR] Service handling failed for OrderId=%s: %v\n", req.OrderId, err)
		// Return 500 so Midtrans will retry the notification
		return ctx.SendStatus(fiber.StatusInternalServerError)
	}

	fmt.Printf("[WEBHOOK] Successfully processed OrderId=%s\n", req.OrderId)
	return ctx.SendStatus(fiber.StatusOK)
}

func (c *paymentController) GetStatus(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	workspaceId, err := uuid.Parse(ctx.Params("workspaceId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid workspace id"))
	}

	res, err := c.service.GetSubscriptionStatus(ctx.Context(), userId, workspaceId)
	if err != nil {
		if err == service.ErrWorkspaceAccessDenied {
			return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription status", res))
}

func (c *paymentController) CancelSubscription(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	workspaceId, err := uuid.Parse(ctx.Params("workspaceId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid workspace id"))
	}

	if err := c.service.CancelSubscription(ctx.Context(), userId, workspaceId); err != nil {
		if err == service.ErrWorkspaceAccessDenied {
			return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Subscription canceled", nil))
}
