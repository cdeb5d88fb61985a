package routes

import (
	"github.com/DedS3t/monopoly-engine/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(a *fiber.App, ctl *controllers.Controller) {
	route := a.Group("/user")
	route.Post("/register", ctl.CreateUser)
	route.Post("/login", ctl.Login)
}

// PrivateAuthRoutes need the jwt middleware in front of them.
func PrivateAuthRoutes(a *fiber.App, ctl *controllers.Controller) {
	a.Get("/user/cur", ctl.Cur)
}
