package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/lifelogger/backend/pkg/httpcontext"
	statsUC "github.com/lifelogger/backend/usecase/stats"
)

type StatsHandler struct {
	baseHandler
	uc *statsUC.UseCase
}

func NewStatsHandler(uc *statsUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Gap-filled star counts per day
// @Tags stats
// @Router /api/stats/daily [get]
func (h *StatsHandler) Daily(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	ref, err := queryDate(ctx, "date")
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	days := parseInt(string(ctx.QueryArgs().Peek("days")), statsUC.DefaultSeriesDays)

	series, err := h.uc.Daily(stdCtx, days, ref)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, series)
}

// @Summary Per-task recap of the previous seven days
// @Tags stats
// @Router /api/stats/weekly [get]
func (h *StatsHandler) Weekly(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	ref, err := queryDate(ctx, "date")
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	recap, err := h.uc.Weekly(stdCtx, ref)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, recap)
}

// @Summary Today's progress
// @Tags stats
// @Router /api/stats/today [get]
func (h *StatsHandler) Today(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	snapshot, err := h.uc.Today(stdCtx)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, snapshot)
}

// @Summary Rolling average of stars per day
// @Tags stats
// @Router /api/stats/average [get]
func (h *StatsHandler) Average(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	ref, err := queryDate(ctx, "date")
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	days := parseInt(string(ctx.QueryArgs().Peek("days")), statsUC.DefaultAverageDays)

	avg, err := h.uc.Average(stdCtx, days, ref)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, avg)
}
