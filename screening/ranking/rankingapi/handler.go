package rankingapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Abraxas-365/sift/pkg/iam/auth"
	"github.com/Abraxas-365/sift/pkg/kernel"
	"github.com/Abraxas-365/sift/screening/ranking/rankingsrv"
)

type Handlers struct {
	service *rankingsrv.Service
}

func NewHandlers(service *rankingsrv.Service) *Handlers {
	return &Handlers{service: service}
}

func (h *Handlers) RegisterRoutes(app *fiber.App, authMiddleware *auth.UnifiedAuthMiddleware) {
	api := app.Group("/api/jobs/:id/rankings", authMiddleware.Authenticate())

	api.Post("/run",
		authMiddleware.RequireScope(auth.ScopeRankingsRun),
		h.RunRankings)
	api.Get("/",
		authMiddleware.RequireScope(auth.ScopeRankingsRead),
		h.GetRankings)
	api.Get("/stats",
		authMiddleware.RequireScope(auth.ScopeRankingsRead),
		h.GetStats)
	api.Delete("/",
		authMiddleware.RequireScope(auth.ScopeRankingsRun),
		h.DeleteRankings)
}

// RunRankings triggers a scoring run for a job
// POST /api/jobs/:id/rankings/run
func (h *Handlers) RunRankings(c *fiber.Ctx) error {
	authCtx, ok := auth.GetAuthContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	jobID := kernel.JobID(c.Params("id"))
	if jobID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid job ID",
		})
	}

	response, err := h.service.RunRankings(c.Context(), jobID, authCtx.TenantID)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// GetRankings returns the leaderboard of a job
// GET /api/jobs/:id/rankings?limit=10
func (h *Handlers) GetRankings(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("id"))
	if jobID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid job ID",
		})
	}

	limit := c.QueryInt("limit", 0)

	response, err := h.service.GetRankings(c.Context(), jobID, limit)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// GetStats returns aggregate statistics for a job's rankings
// GET /api/jobs/:id/rankings/stats
func (h *Handlers) GetStats(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("id"))
	if jobID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid job ID",
		})
	}

	stats, err := h.service.GetStats(c.Context(), jobID)
	if err != nil {
		return err
	}

	return c.JSON(stats)
}

// DeleteRankings removes all stored results for a job
// DELETE /api/jobs/:id/rankings
func (h *Handlers) DeleteRankings(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("id"))
	if jobID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid job ID",
		})
	}

	if err := h.service.DeleteRankings(c.Context(), jobID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
