package middleware

import (
	"net/http"
	"strings"

	"github.com/jfaurel/email-agent/internal/model"
	"github.com/jfaurel/email-agent/internal/repository"
	echo "github.com/labstack/echo/v4"
)

const clientCtxKey = "client"

// ClientFromCtx extracts the resolved client set by ClientGateMiddleware.
func ClientFromCtx(c echo.Context) (*model.Client, bool) {
	v := c.Get(clientCtxKey)
	cl, ok := v.(*model.Client)
	return cl, ok
}

// ClientGateMiddleware authenticates /api requests by X-Client-ID and
// enforces active status and remaining quota. It does NOT increment the
// counter; that happens only after a successful pipeline run, so failed
// model calls never consume quota.
func ClientGateMiddleware(clients repository.ClientsRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			clientID := strings.TrimSpace(c.Request().Header.Get("X-Client-ID"))
			if clientID == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing client_id"})
			}

			cl, err := clients.GetByID(c.Request().Context(), clientID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "auth error"})
			}
			if cl == nil {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "invalid client_id"})
			}
			if !cl.IsActive {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "client account disabled"})
			}
			if cl.APICallsCount >= cl.APICallsLimit {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "api calls limit reached"})
			}

			c.Set(clientCtxKey, cl)
			return next(c)
		}
	}
}
