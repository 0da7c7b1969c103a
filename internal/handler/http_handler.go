package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kg6zjl/derbylive/internal/domain"
	"github.com/kg6zjl/derbylive/internal/repository"
	"github.com/kg6zjl/derbylive/internal/service"
	"github.com/kg6zjl/derbylive/pkg/log"
	"github.com/kg6zjl/derbylive/pkg/response"
)

// Handler handles HTTP requests for race results.
type Handler struct {
	resultService service.ResultService
}

// NewHandler creates a new HTTP handler.
func NewHandler(resultService service.ResultService) *Handler {
	return &Handler{
		resultService: resultService,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.POST("/results", h.SubmitResults)
		api.POST("/reset", h.ResetRace)
		api.PUT("/reset", h.ResetRace)

		races := api.Group("/races")
		{
			races.GET("", h.ListRaces)
			races.GET("/:race_id", h.GetRace)
		}
	}
}

// SubmitResults records and broadcasts a race result submission. The body
// is a JSON object mapping positions to lanes, e.g. {"first": "3"}.
func (h *Handler) SubmitResults(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var raw map[string]string
	if err := c.ShouldBindJSON(&raw); err != nil {
		l.Warn().Err(err).Msg("failed to bind results submission")
		response.BadRequest(c, err.Error())
		return
	}

	raceID, snapshot, err := h.resultService.PublishResults(ctx, raw)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPosition) || errors.Is(err, domain.ErrEmptySubmission) {
			response.BadRequest(c, err.Error())
			return
		}
		l.Error().Err(err).Msg("failed to publish results")
		response.InternalError(c, "failed to record results")
		return
	}

	response.Created(c, gin.H{
		"race_id": raceID,
		"results": snapshot,
	})
}

// ResetRace invalidates the current race state and starts the next race.
// It always succeeds.
func (h *Handler) ResetRace(c *gin.Context) {
	ctx := c.Request.Context()

	raceID, _ := h.resultService.ResetRace(ctx)

	response.Success(c, gin.H{"race_id": raceID})
}

// ListRaces returns every recorded race, most recent first.
func (h *Handler) ListRaces(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	races, err := h.resultService.ListRaces(ctx)
	if err != nil {
		l.Error().Err(err).Msg("failed to list races")
		response.InternalError(c, "failed to list races")
		return
	}

	response.Success(c, races)
}

// GetRace returns one recorded race by id.
func (h *Handler) GetRace(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	raceID, err := strconv.ParseInt(c.Param("race_id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "race id must be an integer")
		return
	}

	race, err := h.resultService.GetRace(ctx, raceID)
	if err != nil {
		if errors.Is(err, repository.ErrRaceNotFound) {
			response.NotFound(c, "race not found")
			return
		}
		l.Error().Err(err).Int64(log.FieldRaceID, raceID).Msg("failed to get race")
		response.InternalError(c, "failed to get race")
		return
	}

	response.Success(c, race)
}
