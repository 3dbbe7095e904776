// FILE: internal/controller/slack_controller.go
package controller

import (
	"designhub-be/internal/dto"
	"designhub-be/internal/pkg/logger"
	"designhub-be/internal/pkg/serverutils"
	"designhub-be/internal/service"
	"designhub-be/pkg/slackapi"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISlackController interface {
	RegisterRoutes(r fiber.Router)
	SlashCommand(ctx *fiber.Ctx) error
	Events(ctx *fiber.Ctx) error
	OAuthCallback(ctx *fiber.Ctx) error
	GetIntegration(ctx *fiber.Ctx) error
	Disconnect(ctx *fiber.Ctx) error
}

type slackController struct {
	service       service.ISlackService
	signingSecret string
	log           logger.ILogger
}

func NewSlackController(service service.ISlackService, signingSecret string, log logger.ILogger) ISlackController {
	return &slackController{
		service:       service,
		signingSecret: signingSecret,
		log:           log,
	}
}

func (c *slackController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/slack")

	// Called by Slack; authenticated by request signature, not JWT.
	h.Post("/commands", c.SlashCommand)
	h.Post("/events", c.Events)
	h.Get("/oauth/callback", c.OAuthCallback)

	h.Get("/integration/:workspaceId", serverutils.JwtMiddleware, c.GetIntegration)
	h.Delete("/integration/:workspaceId", serverutils.JwtMiddleware, c.Disconnect)
}

// verifySignature checks the X-Slack-Signature header against the raw body.
func (c *slackController) verifySignature(ctx *fiber.Ctx) error {
	headers := map[string]string{
		"X-Slack-Signature":         ctx.Get("X-Slack-Signature"),
		"X-Slack-Request-Timestamp": ctx.Get("X-Slack-Request-Timestamp"),
	}
	if err := slackapi.VerifyRequest(c.signingSecret, headers, ctx.Body()); err != nil {
		c.log.Warn("slack", "request signature verification failed", map[string]interface{}{
			"error": err.Error(),
			"path":  ctx.Path(),
		})
		return fiber.NewError(fiber.StatusUnauthorized, "invalid slack signature")
	}
	return nil
}

func (c *slackController) SlashCommand(ctx *fiber.Ctx) error {
	if err := c.verifySignature(ctx); err != nil {
		return err
	}

	var req dto.SlashCommandRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed slash command payload")
	}

	ack, err := c.service.HandleSlashCommand(ctx.Context(), &req)
	if err != nil {
		return err
	}
	// Slack expects the ack JSON within 3 seconds.
	return ctx.JSON(ack)
}

func (c *slackController) Events(ctx *fiber.Ctx) error {
	var envelope dto.SlackEventEnvelope
	if err := ctx.BodyParser(&envelope); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed event payload")
	}

	// The endpoint handshake is answered before the signature check.
	if envelope.Type == "url_verification" {
		return ctx.JSON(dto.SlackChallengeResponse{Challenge: envelope.Challenge})
	}

	if err := c.verifySignature(ctx); err != nil {
		return err
	}

	challenge, err := c.service.HandleEvent(ctx.Context(), &envelope)
	if err != nil {
		return err
	}
	if challenge != "" {
		return ctx.JSON(dto.SlackChallengeResponse{Challenge: challenge})
	}
	return ctx.SendStatus(fiber.StatusOK)
}

func (c *slackController) OAuthCallback(ctx *fiber.Ctx) error {
	code := ctx.Query("code")
	state := ctx.Query("state")
	if code == "" || state == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing code or state")
	}

	redirectURL, err := c.service.HandleOAuthCallback(ctx.Context(), code, state)
	if err != nil {
		c.log.Error("slack", "oauth callback failed", map[string]interface{}{
			"error": err.Error(),
		})
		return fiber.NewError(fiber.StatusBadGateway, "slack authorization failed")
	}
	return ctx.Redirect(redirectURL, fiber.StatusFound)
}

func (c *slackController) GetIntegration(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	workspaceId, err := uuid.Parse(ctx.Params("workspaceId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid workspace id")
	}

	res, err := c.service.GetIntegration(ctx.Context(), userId, workspaceId)
	if err != nil {
		if err == service.ErrWorkspaceAccessDenied {
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		}
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "slack integration not found")
	}
	return ctx.JSON(serverutils.SuccessResponse("Slack integration", res))
}

func (c *slackController) Disconnect(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(string)

	workspaceId, err := uuid.Parse(ctx.Params("workspaceId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid workspace id")
	}

	if err := c.service.Disconnect(ctx.Context(), userId, workspaceId); err != nil {
		if err == service.ErrWorkspaceAccessDenied {
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Slack integration removed", nil))
}
