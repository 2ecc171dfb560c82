package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/directory"
)

type DirectoryHandler struct {
	dir directory.Service
}

func NewDirectoryHandler(dir directory.Service) *DirectoryHandler {
	return &DirectoryHandler{dir: dir}
}

// GET /directory/branches
func (h *DirectoryHandler) ListBranches(c fiber.Ctx) error {
	branches, err := h.dir.Branches(c.Context())
	if err != nil {
		return badGateway(c, "failed to load branches")
	}
	return ok(c, fiber.Map{"branches": branches})
}

// GET /directory/doctors?branch_id=
func (h *DirectoryHandler) ListDoctors(c fiber.Ctx) error {
	doctors, err := h.dir.Doctors(c.Context(), c.Query("branch_id"))
	if err != nil {
		return badGateway(c, "failed to load doctors")
	}
	return ok(c, fiber.Map{"doctors": doctors})
}

// POST /directory/refresh
func (h *DirectoryHandler) Refresh(c fiber.Ctx) error {
	h.dir.Invalidate(c.Context())
	return noContent(c)
}
