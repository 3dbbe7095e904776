package handler

import (
	"os"

	"designhub-be/internal/pkg/logger"
	"designhub-be/internal/repository/unitofwork"
	internalWS "designhub-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// BoardHandler upgrades authenticated clients onto the board event stream.
// Each connection subscribes to a single workspace; membership is checked
// during the handshake.
type BoardHandler struct {
	uowFactory unitofwork.RepositoryFactory
	hub        *internalWS.Hub
	logger     logger.ILogger
}

func NewBoardHandler(uowFactory unitofwork.RepositoryFactory, hub *internalWS.Hub, log logger.ILogger) *BoardHandler {
	return &BoardHandler{
		uowFactory: uowFactory,
		hub:        hub,
		logger:     log,
	}
}

// ServeWs handles websocket requests from the peer.
func (h *BoardHandler) ServeWs(c *fiber.Ctx) error {
	// Priority 1: Query Param (Browser standard)
	tokenStr := c.Query("token")

	// Priority 2: Authorization Header (Tooling/Non-browser standard)
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		h.logger.Warn("BoardHandler", "Invalid Token in WS Handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing subject"})
	}

	workspaceID, err := uuid.Parse(c.Params("workspaceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid workspace ID"})
	}

	uow := h.uowFactory.NewUnitOfWork(c.Context())
	member, err := uow.WorkspaceRepository().FindMember(c.Context(), workspaceID, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if member == nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not a member of this workspace"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("BoardHandler", "Starting WebSocket session", map[string]interface{}{
				"user_id":      userID,
				"workspace_id": workspaceID,
			})
			internalWS.ServeWs(h.hub, conn, workspaceID)
			h.logger.Info("BoardHandler", "WebSocket session ended", map[string]interface{}{
				"user_id":      userID,
				"workspace_id": workspaceID,
			})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// RegisterRoutes registers the board stream route.
func (h *BoardHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/board/:workspaceId", h.ServeWs)
}
