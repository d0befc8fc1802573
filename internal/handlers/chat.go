package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/arjundev29/campuskaam_backend/internal/models"
	"github.com/arjundev29/campuskaam_backend/internal/realtime"
	"github.com/arjundev29/campuskaam_backend/internal/utils"
)

type ChatHandler struct {
	DB        *gorm.DB
	Hub       *realtime.Hub
	RDB       *redis.Client
	JWTSecret string
	Log       zerolog.Logger
}

func NewChatHandler(db *gorm.DB, hub *realtime.Hub, rdb *redis.Client, jwtSecret string, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{DB: db, Hub: hub, RDB: rdb, JWTSecret: jwtSecret, Log: log}
}

// GetMessages returns the conversation for a job in insertion order. An
// empty list, not an error, when nothing has been sent yet.
func (h *ChatHandler) GetMessages(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid job ID")
	}

	job, errResp := h.loadJob(c, jobID, userID)
	if job == nil {
		return errResp
	}

	var msgs []models.Message
	if err := h.DB.
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&msgs).Error; err != nil {
		h.Log.Error().Err(err).Msg("fetch messages")
		return fail(c, fiber.StatusInternalServerError, "Failed to fetch messages")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    msgs,
	})
}

type SendMessageReq struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

// SendMessage appends a user message to the job conversation and pushes it
// to both participants over the hub.
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid job ID")
	}

	var req SendMessageReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	if req.Text == "" && req.Image == "" {
		return fail(c, fiber.StatusBadRequest, "Message text or image required")
	}

	job, errResp := h.loadJob(c, jobID, userID)
	if job == nil {
		return errResp
	}

	msg := models.Message{
		JobID:    jobID,
		SenderID: userID.String(),
		Text:     req.Text,
		Image:    req.Image,
		Kind:     models.MessageUser,
	}
	if err := h.DB.Create(&msg).Error; err != nil {
		h.Log.Error().Err(err).Msg("create message")
		return fail(c, fiber.StatusInternalServerError, "Failed to send message")
	}

	h.Hub.SendToJob(job.CustomerID, job.ProviderID, fiber.Map{
		"type":    "new_message",
		"message": msg,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    msg,
	})
}

func (h *ChatHandler) loadJob(c *fiber.Ctx, jobID, userID uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := h.DB.First(&job, "id = ?", jobID).Error; err != nil {
		return nil, fail(c, fiber.StatusNotFound, "Job not found")
	}

	if job.CustomerID != userID && (job.ProviderID == nil || *job.ProviderID != userID) {
		return nil, fail(c, fiber.StatusForbidden, "Access denied")
	}
	return &job, nil
}

// WebSocketHandler upgrades a connection authenticated by a token query
// param, tracks presence in Redis, and pumps hub payloads out.
func (h *ChatHandler) WebSocketHandler(conn *websocket.Conn) {
	tokenStr := conn.Query("token")
	claims, err := utils.ParseJWT(h.JWTSecret, tokenStr)
	if err != nil {
		conn.Close()
		return
	}
	userUUID, err := uuid.Parse(claims.UserID)
	if err != nil {
		conn.Close()
		return
	}

	client := &realtime.Client{
		ID:     uuid.NewString(),
		UserID: userUUID,
		Conn:   realtime.NewWebSocketConn(conn),
		Send:   make(chan []byte, 64),
	}
	h.Hub.RegisterClient(client)
	h.setPresence(userUUID, true)

	defer func() {
		h.Hub.UnregisterClient(client)
		h.setPresence(userUUID, false)
		conn.Close()
	}()

	go func() {
		for payload := range client.Send {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}()

	// Inbound frames are ignored; messages go through the HTTP endpoint.
	// The read loop only keeps the connection alive and detects closes.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *ChatHandler) setPresence(userID uuid.UUID, online bool) {
	if h.RDB == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key := "online:" + userID.String()
	if online {
		h.RDB.Set(ctx, key, "1", 0)
	} else {
		h.RDB.Del(ctx, key)
	}
}
