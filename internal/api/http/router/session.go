package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/api/http/handler"
)

func (r *Router) registerSessionRoutes(api fiber.Router, sh *handler.SessionHandler) {
	s := api.Group("/console/sessions")

	s.Get("/", sh.List)
	s.Get("/detail", sh.GetDetail)
	s.Put("/detail", sh.OpenDetail)
	s.Delete("/detail", sh.CloseDetail)
	s.Delete("/:id", sh.Delete)
}
