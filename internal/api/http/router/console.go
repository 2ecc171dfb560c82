package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/api/http/handler"
)

func (r *Router) registerConsoleRoutes(api fiber.Router, ch *handler.ConsoleHandler) {
	cons := api.Group("/console")

	filters := cons.Group("/filters")
	filters.Get("/", ch.GetFilters)
	filters.Patch("/", ch.UpdateFilters)
	filters.Post("/clear", ch.ClearFilters)

	cons.Get("/appointments", ch.ListAppointments)
	cons.Get("/slots", ch.GetSlots)

	patients := cons.Group("/patients")
	patients.Get("/search", ch.SearchPatients)
	patients.Post("/typeahead", ch.TypeaheadInput)
	patients.Get("/candidates", ch.GetCandidates)
}
