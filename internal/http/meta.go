package http

import (
	"net/http"
	"time"

	echo "github.com/labstack/echo/v4"
)

func indexHandler() echo.HandlerFunc {
	descriptor := map[string]any{
		"service": "Email Agent API",
		"version": "2.0",
		"endpoints": map[string][]string{
			"admin": {
				"GET /admin/clients",
				"POST /admin/clients",
				"POST /admin/clients/:id/toggle",
				"PUT /admin/clients/:id/config",
				"GET /admin/logs",
				"GET /admin/stats",
			},
			"client": {
				"POST /api/analyze-email",
			},
		},
		"documentation": "Contact admin for API access",
	}
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, descriptor)
	}
}

func healthHandler(aiProvider string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":      "ok",
			"timestamp":   time.Now().Format(time.RFC3339),
			"ai_provider": aiProvider,
		})
	}
}
