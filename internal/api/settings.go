package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/g2go/internal/engine"
	"github.com/markusressel/g2go/internal/settings"
	"github.com/qdm12/reprint"
)

type powerModeRequest struct {
	Mode string `json:"mode"`
}

type fanPresetRequest struct {
	Preset string `json:"preset"`
}

type fanSpeedRequest struct {
	Cpu *int `json:"cpu"`
	Gpu *int `json:"gpu"`
}

// lightingRequest changes the given fields of the current lighting, omitted fields are kept.
type lightingRequest struct {
	Mode       *settings.LightingMode `json:"mode"`
	Color      string                 `json:"color"`
	DurationMs *int                   `json:"durationMs"`
	ZoneColors []string               `json:"zoneColors"`
}

func (r lightingRequest) changes() ([]settings.Change, error) {
	var changes []settings.Change
	if r.Mode != nil {
		changes = append(changes, settings.Set(settings.KeyLightingMode, *r.Mode))
	}
	if r.Color != "" {
		color, err := settings.ParseRGB(r.Color)
		if err != nil {
			return nil, err
		}
		changes = append(changes,
			settings.Set(settings.KeyRed, color.R()),
			settings.Set(settings.KeyGreen, color.G()),
			settings.Set(settings.KeyBlue, color.B()),
		)
	}
	if r.DurationMs != nil {
		duration := *r.DurationMs
		if duration < settings.MinDurationMs || duration > settings.MaxDurationMs {
			return nil, fmt.Errorf("duration must be within %d-%d ms, was %d",
				settings.MinDurationMs, settings.MaxDurationMs, duration)
		}
		changes = append(changes, settings.Set(settings.KeyDurationMs, duration))
	}
	if r.ZoneColors != nil {
		if len(r.ZoneColors) != settings.ZoneCount {
			return nil, fmt.Errorf("expected %d zone colors, got %d", settings.ZoneCount, len(r.ZoneColors))
		}
		var zones [settings.ZoneCount]settings.RGB
		for i, text := range r.ZoneColors {
			color, err := settings.ParseRGB(text)
			if err != nil {
				return nil, err
			}
			zones[i] = color
		}
		changes = append(changes, settings.Set(settings.KeyZoneColors, zones))
	}
	return changes, nil
}

func registerSettingsEndpoints(rest *echo.Echo, services Services) {
	e := services.Engine

	rest.GET("/config/", func(c echo.Context) error {
		return c.JSONPretty(http.StatusOK, reprint.This(e.Snapshot()), indentationChar)
	})

	rest.POST("/power/mode/", func(c echo.Context) error {
		var request powerModeRequest
		if err := c.Bind(&request); err != nil {
			return returnBadRequest(c, err)
		}
		mode, err := settings.ParsePowerMode(request.Mode)
		if err != nil {
			return returnBadRequest(c, err)
		}
		result, err := e.ApplyPowerMode(c.Request().Context(), mode)
		return returnIntentResult(c, result, err)
	})

	fan := rest.Group("/fan")
	fan.POST("/preset/", func(c echo.Context) error {
		var request fanPresetRequest
		if err := c.Bind(&request); err != nil {
			return returnBadRequest(c, err)
		}
		preset, err := settings.ParseFanPreset(request.Preset)
		if err != nil {
			return returnBadRequest(c, err)
		}
		result, err := e.ApplyFanPreset(c.Request().Context(), preset)
		return returnIntentResult(c, result, err)
	})
	fan.POST("/speed/", func(c echo.Context) error {
		var request fanSpeedRequest
		if err := c.Bind(&request); err != nil {
			return returnBadRequest(c, err)
		}
		if request.Cpu == nil || request.Gpu == nil {
			return returnBadRequest(c, errors.New("cpu and gpu speeds are required"))
		}
		cpu, gpu := *request.Cpu, *request.Gpu
		if cpu < 0 || cpu > 100 || gpu < 0 || gpu > 100 {
			return returnBadRequest(c, engine.ErrInvalidFanSpeed)
		}
		result, err := e.ApplyManualFanSpeeds(c.Request().Context(), uint8(cpu), uint8(gpu))
		return returnIntentResult(c, result, err)
	})

	rest.POST("/turbo/toggle/", func(c echo.Context) error {
		result, err := e.ToggleTurbo(c.Request().Context())
		return returnIntentResult(c, result, err)
	})

	rest.GET("/lighting/colors/", func(c echo.Context) error {
		return c.JSONPretty(http.StatusOK, reprint.This(settings.PresetColors), indentationChar)
	})

	rest.POST("/lighting/", func(c echo.Context) error {
		var request lightingRequest
		if err := c.Bind(&request); err != nil {
			return returnBadRequest(c, err)
		}
		changes, err := request.changes()
		if err != nil {
			return returnBadRequest(c, err)
		}
		result, err := e.ApplyLighting(c.Request().Context(), changes...)
		return returnIntentResult(c, result, err)
	})
}
