package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/api/http/handler"
)

func (r *Router) registerDirectoryRoutes(api fiber.Router, dh *handler.DirectoryHandler) {
	d := api.Group("/directory")

	d.Get("/branches", dh.ListBranches)
	d.Get("/doctors", dh.ListDoctors)
	d.Post("/refresh", dh.Refresh)
}
