package api

import (
	"context"
	"errors"
	"time"

	models "KLineTime/internal/domain/models"
	drepo "KLineTime/internal/domain/repository"
	"KLineTime/internal/kline"
	"KLineTime/internal/usecase"
	xhttp "KLineTime/pkg/http"
	xlogger "KLineTime/pkg/logger"
	xutil "KLineTime/pkg/util"

	"github.com/labstack/echo/v4"
)

// HealthChecker reports readiness of a backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// KLineEchoHandler exposes the bucketing engine over HTTP.
type KLineEchoHandler struct {
	logger  *xlogger.Logger
	svc     *usecase.BucketService
	storage drepo.Storage
	health  HealthChecker
}

func NewKLineEchoHandler(logger *xlogger.Logger, svc *usecase.BucketService, storage drepo.Storage, health HealthChecker) *KLineEchoHandler {
	return &KLineEchoHandler{logger: logger, svc: svc, storage: storage, health: health}
}

func (h *KLineEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/kline")
	g.GET("/bucket", h.Bucket)
	g.GET("/minute", h.Minute)
	g.GET("/bars", h.Bars)
	e.GET("/healthz", h.Healthz)
}

func (h *KLineEchoHandler) Bucket(c echo.Context) error {
	req := &models.BucketRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.svc.Bucket(c.Request().Context(), req.Symbol, req.Period, req.Time)
	if err != nil {
		return h.errorResponse(c, "bucket", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *KLineEchoHandler) Minute(c echo.Context) error {
	req := &models.MinuteRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.svc.Minute(c.Request().Context(), req)
	if err != nil {
		return h.errorResponse(c, "minute", err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Bars returns stored minute bars for a symbol over a time range.
func (h *KLineEchoHandler) Bars(c echo.Context) error {
	symbol := c.QueryParam("symbol")
	if symbol == "" {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("symbol is required"))
	}
	now := time.Now().UTC()
	from := xhttp.ParseTimeDefault(c.QueryParam("from"), now.Add(-1*time.Hour))
	to := xhttp.ParseTimeDefault(c.QueryParam("to"), now)
	from, to = xutil.AlignFromTo(from, to, "1m")
	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 500)
	if limit <= 0 || limit > 5000 {
		limit = 500
	}

	bars, err := h.storage.Query(c.Request().Context(), symbol, from, to, limit)
	if err != nil {
		h.logger.Error("bars query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("query failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"rows":  bars,
		"total": len(bars),
	})
}

func (h *KLineEchoHandler) Healthz(c echo.Context) error {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.health.Health(ctx); err != nil {
			h.logger.Error("health check failed", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, xhttp.InternalError("dependency unavailable").WithError(err))
		}
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// errorResponse maps engine errors to API errors.
func (h *KLineEchoHandler) errorResponse(c echo.Context, op string, err error) error {
	var (
		perErr   *kline.UnsupportedPeriodError
		breedErr *kline.UnknownBreedError
		sessErr  *kline.OutOfSessionError
		timeErr  *kline.UnsupportedTimeError
		gapErr   *kline.WeekGapError
	)
	switch {
	case errors.As(err, &perErr):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("unsupported period %q", perErr.Period))
	case errors.As(err, &breedErr):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("unknown breed %q", breedErr.Breed))
	case errors.As(err, &sessErr):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("time %s outside %s sessions",
			sessErr.Time.Format("2006-01-02 15:04:05"), sessErr.Breed))
	case errors.As(err, &timeErr), errors.As(err, &gapErr):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	case errors.Is(err, kline.ErrNotLoaded):
		return xhttp.AppErrorResponse(c, xhttp.InternalError("engine not loaded"))
	}
	h.logger.Error(op+" usecase error", xlogger.Error(err))
	return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
}
