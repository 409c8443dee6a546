package forms

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"agriforecast/predict"
)

// RainfallPrediction is the object shape the coordinate-based front-end
// expects in "prediction". Scalar predictions are rendered verbatim instead.
type RainfallPrediction struct {
	PredictedRainfall float64 `json:"predicted_rainfall"`
	Confidence        float64 `json:"confidence"`
}

type CropYieldPrediction struct {
	PredictedYield        float64 `json:"predicted_yield"`
	Confidence            float64 `json:"confidence"`
	SatelliteContribution float64 `json:"satellite_contribution"`
	ClimateContribution   float64 `json:"climate_contribution"`
}

type IndexStats struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

type SatelliteAnalysis struct {
	NDVI         *IndexStats `json:"ndvi,omitempty"`
	EVI          *IndexStats `json:"evi,omitempty"`
	HealthStatus string      `json:"health_status,omitempty"`
	ImageDate    string      `json:"image_date,omitempty"`
}

// HistoricalPoint is one chart point; a series carries either Rainfall (mm)
// or Yield (tons/ha).
type HistoricalPoint struct {
	Date     string   `json:"date"`
	Rainfall *float64 `json:"rainfall,omitempty"`
	Yield    *float64 `json:"yield,omitempty"`
}

type History struct {
	Rainfall []HistoricalPoint `json:"rainfall"`
	Yield    []HistoricalPoint `json:"yield"`
}

func NewRainfall(c *predict.Client, r Routes) *predict.Form[RainfallInput, json.RawMessage] {
	return predict.NewForm[RainfallInput, json.RawMessage](c, r.Rainfall)
}

func NewCropYield(c *predict.Client, r Routes) *predict.Form[CropYieldInput, json.RawMessage] {
	return predict.NewForm[CropYieldInput, json.RawMessage](c, r.CropYield)
}

func NewSatellite(c *predict.Client, r Routes) *predict.Form[SatelliteInput, json.RawMessage] {
	return predict.NewForm[SatelliteInput, json.RawMessage](c, r.Satellite)
}

// NewHistorical fetches both series for one query; either failing fails the view.
func NewHistorical(c *predict.Client, r Routes) *predict.Form[HistoricalQuery, History] {
	return predict.NewFormFunc(func(ctx context.Context, q HistoricalQuery) (History, error) {
		return FetchHistory(ctx, c, r, q)
	}, HistoryTransport)
}

// FetchHistory requests the rainfall and crop-yield series concurrently.
func FetchHistory(ctx context.Context, c *predict.Client, r Routes, q HistoricalQuery) (History, error) {
	var h History
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pts, err := predict.Fetch[[]HistoricalPoint](gctx, c, r.RainfallHistory, q)
		h.Rainfall = pts
		return err
	})
	g.Go(func() error {
		pts, err := predict.Fetch[[]HistoricalPoint](gctx, c, r.CropYieldHistory, q)
		h.Yield = pts
		return err
	})
	if err := g.Wait(); err != nil {
		return History{}, err
	}
	return h.normalized(), nil
}

// Dashboard is the landing view: default series plus the latest values.
type Dashboard struct {
	History
	LatestRainfall string `json:"latest_rainfall"`
	LatestYield    string `json:"latest_yield"`
}

// FetchDashboard never fails: a series that can't be fetched is logged and
// left empty.
func FetchDashboard(ctx context.Context, c *predict.Client, r Routes, logger zerolog.Logger) Dashboard {
	var h History
	var g errgroup.Group
	g.Go(func() error {
		pts, err := predict.Fetch[[]HistoricalPoint](ctx, c, r.RainfallHistory, HistoricalQuery{})
		if err != nil {
			logger.Error().Err(err).Str("series", "rainfall").Msg("dashboard fetch failed")
			return nil
		}
		h.Rainfall = pts
		return nil
	})
	g.Go(func() error {
		pts, err := predict.Fetch[[]HistoricalPoint](ctx, c, r.CropYieldHistory, HistoricalQuery{})
		if err != nil {
			logger.Error().Err(err).Str("series", "yield").Msg("dashboard fetch failed")
			return nil
		}
		h.Yield = pts
		return nil
	})
	_ = g.Wait()

	h = h.normalized()
	return Dashboard{
		History:        h,
		LatestRainfall: latest(h.Rainfall, func(p HistoricalPoint) *float64 { return p.Rainfall }) + " mm",
		LatestYield:    latest(h.Yield, func(p HistoricalPoint) *float64 { return p.Yield }) + " tons/ha",
	}
}

func (h History) normalized() History {
	if h.Rainfall == nil {
		h.Rainfall = []HistoricalPoint{}
	}
	if h.Yield == nil {
		h.Yield = []HistoricalPoint{}
	}
	return h
}

func latest(pts []HistoricalPoint, value func(HistoricalPoint) *float64) string {
	if len(pts) == 0 {
		return "N/A"
	}
	v := value(pts[len(pts)-1])
	if v == nil {
		return "N/A"
	}
	return formatNumber(*v)
}
