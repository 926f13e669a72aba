package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jfaurel/email-agent/internal/http/middleware"
	"github.com/jfaurel/email-agent/internal/model"
	"github.com/jfaurel/email-agent/internal/repository"
	"github.com/jfaurel/email-agent/internal/service/analyzer"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

func analyzeEmailHandler(svc *analyzer.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req model.InboundEmail
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		req.From = strings.TrimSpace(req.From)
		req.Subject = strings.TrimSpace(req.Subject)
		if !req.Complete() {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing email data"})
		}

		// gate (set by ClientGateMiddleware)
		client, ok := middleware.ClientFromCtx(c)
		if !ok {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "invalid client_id"})
		}

		res, err := svc.Analyze(c.Request().Context(), client, req)
		if err != nil {
			if errors.Is(err, repository.ErrQuotaExceeded) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "api calls limit reached"})
			}

			log.Errorf("analyze failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}

		return c.JSON(http.StatusOK, res)
	}
}
