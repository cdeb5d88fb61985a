package controllers

import (
	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/pkg"
	"github.com/DedS3t/monopoly-engine/platform/queries"
	"github.com/gofiber/fiber/v2"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func (ctl *Controller) CreateUser(c *fiber.Ctx) error {
	userDto := new(models.UserDto)
	if err := c.BodyParser(userDto); err != nil || userDto.Email == "" || userDto.Pass == "" {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(userDto.Pass), bcrypt.DefaultCost)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	user := &models.User{
		Id:       uuid.NewV4().String(),
		Email:    userDto.Email,
		Username: userDto.Username,
		Password: string(hash),
	}
	if err := queries.CreateUser(user, ctl.DB); err != nil {
		logrus.WithError(err).Warn("creating user failed")
		return c.SendStatus(fiber.StatusConflict)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": user.Id})
}

func (ctl *Controller) Login(c *fiber.Ctx) error {
	userDto := new(models.UserDto)
	if err := c.BodyParser(userDto); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	user, err := queries.GetUserByEmail(userDto.Email, ctl.DB)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(userDto.Pass)) != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	t, err := pkg.NewToken(user.Id, ctl.Secret, ctl.TokenTTL)
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(fiber.Map{"access_token": t})
}

func (ctl *Controller) Cur(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	return c.SendString(id)
}

// DisplayName is the name a user plays under, falling back to the id.
func (ctl *Controller) DisplayName(id string) string {
	user, err := queries.GetUserData(id, ctl.DB)
	if err != nil {
		return id
	}
	if user.Username != "" {
		return user.Username
	}
	return user.Email
}
