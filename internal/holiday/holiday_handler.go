package holiday

import (
	"net/http"
	"time"

	"leave-core/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	repo   Repository
	logger *zap.Logger
}

func NewHandler(repo Repository, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("holiday.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.handler")
	}
	return &Handler{repo: repo, logger: l}
}

func (h *Handler) GetAll(c *gin.Context) {
	ctx := c.Request.Context()

	fromStr := c.Query("from")
	toStr := c.Query("to")

	var (
		holidays []Holiday
		err      error
	)
	if fromStr != "" && toStr != "" {
		from, ferr := time.Parse("2006-01-02", fromStr)
		to, terr := time.Parse("2006-01-02", toStr)
		if ferr != nil || terr != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "invalid date format, expected YYYY-MM-DD", nil)
			return
		}
		holidays, err = h.repo.FindInRange(ctx, from, to)
	} else {
		holidays, err = h.repo.FindAll(ctx)
	}
	if err != nil {
		h.logger.Error("list holidays failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", nil)
		return
	}

	resp := make([]HolidayResponse, len(holidays))
	for i, hd := range holidays {
		resp[i] = mapToResponse(hd)
	}
	response.Success(c, http.StatusOK, resp, nil)
}
