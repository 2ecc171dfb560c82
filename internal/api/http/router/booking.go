package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/api/http/handler"
)

func (r *Router) registerBookingRoutes(api fiber.Router, bh *handler.BookingHandler) {
	// Modal state for the booking/reschedule form.
	modal := api.Group("/console/booking")
	modal.Get("/", bh.GetModal)
	modal.Patch("/", bh.UpdateForm)
	modal.Post("/open", bh.Open)
	modal.Post("/close", bh.Close)
	modal.Post("/slots/refresh", bh.RefreshSlots)
	modal.Patch("/patient", bh.UpdatePatient)

	// Submissions against the upstream booking collection.
	bookings := api.Group("/console/bookings")
	bookings.Post("/", bh.Submit)
	bookings.Post("/:id/reschedule", bh.Reschedule)
	bookings.Post("/:id/cancel", bh.Cancel)
}
