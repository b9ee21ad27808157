package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/g2go/internal/sensors"
	"github.com/qdm12/reprint"
)

func registerSensorEndpoints(rest *echo.Echo, services Services) {
	group := rest.Group("/sensors")

	group.GET("/", getSensors(services.Feed))
}

func getSensors(feed *sensors.Feed) echo.HandlerFunc {
	return func(c echo.Context) error {
		if feed == nil {
			return c.NoContent(http.StatusNoContent)
		}
		snapshot, ok := feed.Last()
		if !ok {
			return c.NoContent(http.StatusNoContent)
		}
		data := reprint.This(snapshot)
		return c.JSONPretty(http.StatusOK, data, indentationChar)
	}
}
