package controllers

import (
	"context"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/pkg"
	"github.com/DedS3t/monopoly-engine/platform/queries"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func (ctl *Controller) CreateGame(c *fiber.Ctx) error {
	gameCreateDto := new(models.GameCreateDto)
	if err := c.BodyParser(gameCreateDto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	game := &models.Game{
		Id:     pkg.RandString(8),
		Name:   gameCreateDto.Name,
		Type:   gameCreateDto.Type,
		Status: models.GameStatusOpen,
	}
	if err := queries.CreateGame(game, ctl.DB); err != nil {
		logrus.WithError(err).Warn("creating game failed")
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(fiber.Map{"id": game.Id})
}

func (ctl *Controller) GetAllAvailGames(c *fiber.Ctx) error {
	games, err := queries.OpenGames(ctl.DB)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(games)
}

func (ctl *Controller) VerifyGame(c *fiber.Ctx) error {
	verifyGameDto := new(models.VerifyGameDto)
	if err := c.QueryParser(verifyGameDto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	return c.JSON(fiber.Map{"status": queries.VerifyGame(verifyGameDto.Code, ctl.DB)})
}

func (ctl *Controller) JoinGame(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	seat, err := ctl.Lobby.Join(c.Params("id"), id, ctl.DisplayName(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(seat)
}

func (ctl *Controller) AddBot(c *fiber.Ctx) error {
	dto := new(models.BotDto)
	if err := c.BodyParser(dto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	seat, err := ctl.Lobby.AddBot(c.Params("id"), dto.Difficulty)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(seat)
}

func (ctl *Controller) StartGame(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	state, err := ctl.Lobby.Start(context.Background(), c.Params("id"), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(state)
}

func (ctl *Controller) GameState(c *fiber.Ctx) error {
	state, err := ctl.Lobby.State(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(state)
}

// Command submits one engine command as the caller. The state is returned even when the command was
// refused, together with the reason.
func (ctl *Controller) Command(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	dto := new(models.CommandDto)
	if err := c.BodyParser(dto); err != nil || dto.Name == "" {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	state, err := ctl.Lobby.Submit(c.Params("id"), id, dto.Name, dto.Args...)
	if err != nil {
		if state == nil {
			return fail(c, err)
		}
		return c.Status(statusOf(err)).JSON(fiber.Map{"error": err.Error(), "state": state})
	}
	return c.JSON(state)
}
