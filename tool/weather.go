package tool

import (
	"context"
	"fmt"
	"strings"
)

// WeatherArgs are the arguments of the get_weather demo tool.
type WeatherArgs struct {
	Location string `json:"location" jsonschema_description:"Name of the place to look up, e.g. Tokyo."`
	Unit     string `json:"unit,omitempty" jsonschema:"enum=celsius,enum=fahrenheit" jsonschema_description:"Temperature unit (default celsius)."`
}

type cityWeather struct {
	temp      float64
	condition string
	humidity  int
}

// Demo data only. A real integration would call a weather API here.
var weatherData = map[string]cityWeather{
	"tokyo":   {temp: 22, condition: "sunny", humidity: 60},
	"osaka":   {temp: 24, condition: "cloudy", humidity: 65},
	"sapporo": {temp: 15, condition: "rainy", humidity: 80},
	"fukuoka": {temp: 25, condition: "sunny", humidity: 55},
}

// NewWeatherTool returns the get_weather demo tool. It serves canned
// observations for a handful of cities and falls back to a neutral default
// for unknown places, so a lookup never fails the owning run.
func NewWeatherTool() *FunctionTool {
	return NewFunctionToolFromStruct(
		"get_weather",
		"Gets the current weather for a location.",
		WeatherArgs{},
		func(_ context.Context, args map[string]any) (any, error) {
			location, _ := args["location"].(string)

			unit, _ := args["unit"].(string)
			if unit == "" {
				unit = "celsius"
			}
			if unit != "celsius" && unit != "fahrenheit" {
				return nil, fmt.Errorf("unsupported unit: %s", unit)
			}

			data, ok := weatherData[strings.ToLower(location)]
			if !ok {
				data = cityWeather{temp: 20, condition: "unknown", humidity: 50}
			}

			temp := data.temp
			if unit == "fahrenheit" {
				temp = temp*9/5 + 32
			}

			return map[string]any{
				"location":    location,
				"temperature": temp,
				"unit":        unit,
				"condition":   data.condition,
				"humidity":    data.humidity,
			}, nil
		},
	)
}
