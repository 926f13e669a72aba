package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jfaurel/email-agent/internal/model"
	"github.com/jfaurel/email-agent/internal/repository"
	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

func listClientsHandler(clients repository.ClientsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		rows, err := clients.List(c.Request().Context())
		if err != nil {
			log.Errorf("list clients: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}
		return c.JSON(http.StatusOK, rows)
	}
}

type createClientReq struct {
	CompanyName string             `json:"company_name"`
	Email       string             `json:"email"`
	Config      model.ClientConfig `json:"config"`
}

func createClientHandler(clients repository.ClientsRepository, defaultCallsLimit int) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createClientReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		req.CompanyName = strings.TrimSpace(req.CompanyName)
		req.Email = strings.TrimSpace(req.Email)
		if req.CompanyName == "" || req.Email == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "company_name and email are required"})
		}

		client := model.Client{
			ClientID:      uuid.NewString(),
			CompanyName:   req.CompanyName,
			Email:         req.Email,
			ConfigJSON:    req.Config.Marshal(),
			APICallsLimit: defaultCallsLimit,
		}

		if err := clients.Create(c.Request().Context(), client); err != nil {
			log.Errorf("create client: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}

		return c.JSON(http.StatusCreated, map[string]string{
			"client_id": client.ClientID,
			"message":   "Client created successfully",
		})
	}
}

type toggleReq struct {
	Field string `json:"field"`
	Value bool   `json:"value"`
}

func toggleClientHandler(clients repository.ClientsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		clientID := c.Param("id")

		var req toggleReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}
		if req.Field == "" {
			req.Field = "is_active"
		}

		found, err := clients.SetFlag(c.Request().Context(), clientID, req.Field, req.Value)
		if err != nil {
			if errors.Is(err, repository.ErrInvalidField) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "field must be is_active or draft_mode"})
			}
			log.Errorf("toggle client: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}
		if !found {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "client not found"})
		}

		return c.JSON(http.StatusOK, map[string]string{"message": req.Field + " updated successfully"})
	}
}

func updateClientConfigHandler(clients repository.ClientsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		clientID := c.Param("id")

		// wholesale replacement: the body IS the new config document
		var cfg model.ClientConfig
		if err := c.Bind(&cfg); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		found, err := clients.UpdateConfig(c.Request().Context(), clientID, cfg.Marshal())
		if err != nil {
			log.Errorf("update config: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}
		if !found {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "client not found"})
		}

		return c.JSON(http.StatusOK, map[string]string{"message": "Configuration updated successfully"})
	}
}
