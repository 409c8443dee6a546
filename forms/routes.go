// Package forms holds the dashboard's pages: payloads, endpoint tables, the
// typed forms built on predict, and their text/chart rendering.
package forms

import (
	"fmt"
	"net/http"

	"agriforecast/predict"
)

const (
	predictionFailure   = "Failed to get prediction"
	predictionTransport = "An error occurred while fetching the prediction"
	satelliteFailure    = "Failed to analyze satellite imagery"
	satelliteTransport  = "An error occurred while analyzing the satellite imagery"
	historyFailure      = "Failed to fetch historical data"

	// HistoryTransport is what the historical view shows for any failure.
	HistoryTransport = "Error fetching historical data. Please try again."
)

// Routes is one front-end's view of the prediction service.
type Routes struct {
	Name             string
	Rainfall         predict.Endpoint
	CropYield        predict.Endpoint
	Satellite        predict.Endpoint
	RainfallHistory  predict.Endpoint
	CropYieldHistory predict.Endpoint
}

var (
	rainfallHistory = predict.Endpoint{
		Name:             "rainfall-history",
		Method:           http.MethodGet,
		Path:             "/api/rainfall/historical",
		Field:            "data",
		FailureMessage:   historyFailure,
		TransportMessage: HistoryTransport,
	}
	cropYieldHistory = predict.Endpoint{
		Name:             "crop-yield-history",
		Method:           http.MethodGet,
		Path:             "/api/crop-yield/historical",
		Field:            "data",
		FailureMessage:   historyFailure,
		TransportMessage: HistoryTransport,
	}
)

// APIRoutes are the paths the prediction service registers.
var APIRoutes = Routes{
	Name:             "api",
	Rainfall:         prediction("rainfall", "/api/rainfall/predict"),
	CropYield:        prediction("crop-yield", "/api/crop-yield/predict"),
	Satellite:        analysis("/api/satellite/analyze"),
	RainfallHistory:  rainfallHistory,
	CropYieldHistory: cropYieldHistory,
}

// LegacyRoutes are the unprefixed paths used by the older front-end.
var LegacyRoutes = Routes{
	Name:             "legacy",
	Rainfall:         prediction("rainfall", "/rainfall/predict"),
	CropYield:        prediction("crop-yield", "/crop_yield/predict"),
	Satellite:        analysis("/satellite/analyze"),
	RainfallHistory:  rainfallHistory,
	CropYieldHistory: cropYieldHistory,
}

// RoutesByName resolves "api" (or "") and "legacy".
func RoutesByName(name string) (Routes, error) {
	switch name {
	case "", APIRoutes.Name:
		return APIRoutes, nil
	case LegacyRoutes.Name:
		return LegacyRoutes, nil
	default:
		return Routes{}, fmt.Errorf("unknown route table %q (want %q or %q)", name, APIRoutes.Name, LegacyRoutes.Name)
	}
}

func prediction(name, path string) predict.Endpoint {
	return predict.Endpoint{
		Name:             name,
		Method:           http.MethodPost,
		Path:             path,
		Field:            "prediction",
		FailureMessage:   predictionFailure,
		TransportMessage: predictionTransport,
	}
}

func analysis(path string) predict.Endpoint {
	return predict.Endpoint{
		Name:             "satellite",
		Method:           http.MethodPost,
		Path:             path,
		Field:            "analysis",
		FailureMessage:   satelliteFailure,
		TransportMessage: satelliteTransport,
	}
}
