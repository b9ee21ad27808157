package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/g2go/internal/device"
	"github.com/markusressel/g2go/internal/status"
	"github.com/qdm12/reprint"
)

const defaultHistoryLimit = 10

type deviceInfo struct {
	Capabilities device.Capabilities `json:"capabilities"`
	DisplayMode  string              `json:"displayMode"`
	SetupNeeded  bool                `json:"setupNeeded"`
	Status       *status.Line        `json:"status,omitempty"`
}

func registerDeviceEndpoints(rest *echo.Echo, services Services) {
	rest.GET("/device/", func(c echo.Context) error {
		info := deviceInfo{
			Capabilities: services.Engine.Capabilities(),
			DisplayMode:  services.Engine.DisplayMode(),
			SetupNeeded:  services.Probe.SetupNeeded,
		}
		if line, ok := services.Board.Last(); ok {
			info.Status = &line
		}
		return c.JSONPretty(http.StatusOK, reprint.This(info), indentationChar)
	})

	rest.GET("/status/", func(c echo.Context) error {
		limit := defaultHistoryLimit
		if value := c.QueryParam("limit"); value != "" {
			parsed, err := strconv.Atoi(value)
			if err != nil || parsed <= 0 {
				return returnBadRequest(c, fmt.Errorf("invalid limit: %q", value))
			}
			limit = parsed
		}
		return c.JSONPretty(http.StatusOK, services.Board.History(limit), indentationChar)
	})

	rest.POST("/setup/", func(c echo.Context) error {
		if services.Prober == nil {
			return c.NoContent(http.StatusNotImplemented)
		}
		message, err := services.Prober.RunSetup(c.Request().Context())
		if err != nil {
			return returnError(c, err)
		}
		return c.JSONPretty(http.StatusOK, &Result{
			Name:    "Setup",
			Message: message,
		}, indentationChar)
	})
}
