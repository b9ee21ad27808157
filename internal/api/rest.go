package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/markusressel/g2go/internal/engine"
	"github.com/markusressel/g2go/internal/probe"
	"github.com/markusressel/g2go/internal/sensors"
	"github.com/markusressel/g2go/internal/status"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	indentationChar = "  "
	metricsPrefix   = "g2go"
)

type (
	Result struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
)

// Services are the daemon components exposed by the REST service.
type Services struct {
	Engine *engine.Engine
	Feed   *sensors.Feed
	Board  *status.Board
	Prober *probe.Prober
	// Probe is the result of the startup probe
	Probe probe.Result
	// Registry enables request metrics and the /metrics endpoint when set
	Registry *prometheus.Registry
}

func CreateRestService(services Services) *echo.Echo {
	echoRest := CreateWebserver()
	echoRest.Use(middleware.Logger())

	if services.Registry != nil {
		echoRest.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  metricsPrefix,
			Subsystem:  "api",
			Registerer: services.Registry,
		}))
		echoRest.GET("/metrics/", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: services.Registry,
		}))
	}

	echoRest.GET("/alive/", isAlive)

	registerDeviceEndpoints(echoRest, services)
	registerSettingsEndpoints(echoRest, services)
	registerSensorEndpoints(echoRest, services)

	return echoRest
}

// returns an empty "ok" answer
func isAlive(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// return a "bad request" message
func returnBadRequest(c echo.Context, e error) (err error) {
	return c.JSONPretty(http.StatusBadRequest, &Result{
		Name:    "Bad Request",
		Message: e.Error(),
	}, indentationChar)
}

// return the error message of an error
func returnError(c echo.Context, e error) (err error) {
	return c.JSONPretty(http.StatusInternalServerError, &Result{
		Name:    "Unknown Error",
		Message: e.Error(),
	}, indentationChar)
}

var (
	rejectedIntents = []error{
		engine.ErrInvalidFanPreset,
		engine.ErrInvalidFanSpeed,
		engine.ErrPowerModeNotSupported,
		engine.ErrFanControlLimited,
	}
	unavailableSubsystems = []error{
		engine.ErrPowerNotSupported,
		engine.ErrKeyboardNotSupported,
		engine.ErrEffectNotSupported,
	}
)

// returnIntentResult answers an engine intent with its status line
func returnIntentResult(c echo.Context, result engine.Result, e error) error {
	if e == nil {
		return c.JSONPretty(http.StatusOK, result, indentationChar)
	}

	code := http.StatusBadGateway
	name := "Device Error"
	switch {
	case isAny(e, rejectedIntents):
		code = http.StatusBadRequest
		name = "Bad Request"
	case isAny(e, unavailableSubsystems):
		code = http.StatusConflict
		name = "Not Supported"
	}
	return c.JSONPretty(code, &Result{
		Name:    name,
		Message: result.Status.Message,
	}, indentationChar)
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
