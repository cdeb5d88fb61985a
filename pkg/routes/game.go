package routes

import (
	"github.com/DedS3t/monopoly-engine/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func GameRoutes(a *fiber.App, ctl *controllers.Controller) {
	route := a.Group("/game")
	route.Post("/create", ctl.CreateGame)
	route.Get("/verify", ctl.VerifyGame)
	route.Get("/all", ctl.GetAllAvailGames)
	route.Get("/:id/state", ctl.GameState)
}

// PrivateGameRoutes need the jwt middleware in front of them.
func PrivateGameRoutes(a *fiber.App, ctl *controllers.Controller) {
	route := a.Group("/game")
	route.Post("/:id/join", ctl.JoinGame)
	route.Post("/:id/bot", ctl.AddBot)
	route.Post("/:id/start", ctl.StartGame)
	route.Post("/:id/command", ctl.Command)
}
