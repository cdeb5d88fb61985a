package controllers

import (
	"errors"
	"time"

	"github.com/DedS3t/monopoly-engine/pkg"
	"github.com/DedS3t/monopoly-engine/platform/engine"
	"github.com/DedS3t/monopoly-engine/platform/lobby"
	"github.com/DedS3t/monopoly-engine/platform/session"
	jwt "github.com/form3tech-oss/jwt-go"
	"github.com/go-pg/pg/v10"
	"github.com/gofiber/fiber/v2"
)

// Controller carries what the HTTP handlers share.
type Controller struct {
	DB       *pg.DB
	Lobby    *lobby.Lobby
	Secret   []byte
	TokenTTL time.Duration
}

// userID reads the id of the caller from the token the jwt middleware stored.
func userID(c *fiber.Ctx) (string, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return "", pkg.ErrBadToken
	}
	return pkg.UserID(token)
}

// statusOf maps lobby, session and engine errors to HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, lobby.ErrInvalidGame), errors.Is(err, lobby.ErrNoSession):
		return fiber.StatusNotFound
	case errors.Is(err, lobby.ErrStarted), errors.Is(err, session.ErrNotActive), errors.Is(err, session.ErrFull),
		errors.Is(err, session.ErrTooFew), errors.Is(err, session.ErrNotOpen):
		return fiber.StatusConflict
	case errors.Is(err, engine.ErrNotAuthorized), errors.Is(err, engine.ErrUnknownPlayer):
		return fiber.StatusForbidden
	case engine.IsIllegal(err):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusOf(err)).JSON(fiber.Map{"error": err.Error()})
}
