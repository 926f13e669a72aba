package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jfaurel/email-agent/internal/repository"
	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

func listLogsHandler(logs repository.LogsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		// The repository applies the default and the cap.
		limit := 0
		if v := c.QueryParam("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}
		clientID := strings.TrimSpace(c.QueryParam("client_id"))

		rows, err := logs.List(c.Request().Context(), clientID, limit)
		if err != nil {
			log.Errorf("list logs: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}

		return c.JSON(http.StatusOK, rows)
	}
}

func statsHandler(clients repository.ClientsRepository, logs repository.LogsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		cs, err := clients.Stats(c.Request().Context())
		if err != nil {
			log.Errorf("client stats: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}

		today, err := logs.CountToday(c.Request().Context())
		if err != nil {
			log.Errorf("logs today: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"total_clients":   cs.TotalClients,
			"active_clients":  cs.ActiveClients,
			"total_api_calls": cs.TotalAPICalls,
			"emails_today":    today,
		})
	}
}
