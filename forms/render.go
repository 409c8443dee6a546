package forms

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TrendPoint is one point of a chart series.
type TrendPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// View is what a page shows for a successful submission.
type View struct {
	Headline string       `json:"headline,omitempty"`
	Details  []string     `json:"details,omitempty"`
	Trend    []TrendPoint `json:"trend,omitempty"`
}

func (v View) IsZero() bool {
	return v.Headline == "" && len(v.Details) == 0 && len(v.Trend) == 0
}

// String renders the headline and details one per line.
func (v View) String() string {
	lines := make([]string, 0, 1+len(v.Details))
	if v.Headline != "" {
		lines = append(lines, v.Headline)
	}
	lines = append(lines, v.Details...)
	return strings.Join(lines, "\n")
}

var (
	rainfallTrend = []trendStep{
		{"Today", "1"}, {"Tomorrow", "0.9"}, {"Day 3", "1.1"}, {"Day 4", "0.95"},
		{"Day 5", "1.05"}, {"Day 6", "0.98"}, {"Day 7", "1.02"},
	}
	yieldTrend = []trendStep{
		{"Jan", "0.8"}, {"Feb", "0.85"}, {"Mar", "0.9"}, {"Apr", "0.95"},
		{"May", "1"}, {"Jun", "1.05"}, {"Jul", "1.1"}, {"Aug", "1.05"},
		{"Sep", "1"}, {"Oct", "0.95"}, {"Nov", "0.9"}, {"Dec", "0.85"},
	}
	lastYearFactor = decimal.RequireFromString("0.8")
	hundred        = decimal.NewFromInt(100)
)

type trendStep struct {
	label  string
	factor string
}

// RenderRainfall shows a scalar prediction as-is ("120.5 mm") and an object
// prediction with confidence, last year's average and a seven day trend.
func RenderRainfall(raw json.RawMessage) View {
	if isNull(raw) {
		return View{}
	}
	if isObject(raw) {
		var p RainfallPrediction
		if err := json.Unmarshal(raw, &p); err == nil {
			base := decimal.NewFromFloat(p.PredictedRainfall)
			return View{
				Headline: base.StringFixed(2) + " mm",
				Details: []string{
					"Confidence: " + percent(p.Confidence),
					"Historical Average: " + base.Mul(lastYearFactor).StringFixed(2) + " mm",
				},
				Trend: trend(base, rainfallTrend),
			}
		}
	}
	return View{Headline: scalar(raw) + " mm"}
}

// RenderCropYield shows a scalar prediction as-is ("4.2 tons/hectare") and an
// object prediction with confidence, model contributions and a monthly trend.
func RenderCropYield(raw json.RawMessage) View {
	if isNull(raw) {
		return View{}
	}
	if isObject(raw) {
		var p CropYieldPrediction
		if err := json.Unmarshal(raw, &p); err == nil {
			base := decimal.NewFromFloat(p.PredictedYield)
			return View{
				Headline: base.StringFixed(2) + " tons/ha",
				Details: []string{
					"Confidence: " + percent(p.Confidence),
					"Satellite Analysis: " + percent(p.SatelliteContribution),
					"Climate Analysis: " + percent(p.ClimateContribution),
				},
				Trend: trend(base, yieldTrend),
			}
		}
	}
	return View{Headline: scalar(raw) + " tons/hectare"}
}

// RenderSatellite pretty-prints the analysis and summarizes the vegetation
// indices when they are present.
func RenderSatellite(raw json.RawMessage) View {
	if isNull(raw) {
		return View{}
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return View{Headline: string(raw)}
	}
	v := View{Headline: buf.String()}
	if !isObject(raw) {
		return v
	}
	var a SatelliteAnalysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return v
	}
	if a.NDVI != nil {
		v.Details = append(v.Details, "NDVI: "+stats(*a.NDVI))
	}
	if a.EVI != nil {
		v.Details = append(v.Details, "EVI: "+stats(*a.EVI))
	}
	if a.HealthStatus != "" {
		v.Details = append(v.Details, "Health: "+a.HealthStatus)
	}
	if a.ImageDate != "" {
		v.Details = append(v.Details, "Image date: "+a.ImageDate)
	}
	return v
}

// RenderHistory turns both series into chart points.
func RenderHistory(h History) View {
	v := View{Headline: strconv.Itoa(len(h.Rainfall)) + " rainfall points, " + strconv.Itoa(len(h.Yield)) + " yield points"}
	for _, p := range h.Rainfall {
		if p.Rainfall != nil {
			v.Details = append(v.Details, p.Date+" rainfall "+formatNumber(*p.Rainfall)+" mm")
		}
	}
	for _, p := range h.Yield {
		if p.Yield != nil {
			v.Details = append(v.Details, p.Date+" yield "+formatNumber(*p.Yield)+" tons/ha")
		}
	}
	return v
}

// RenderDashboard shows the summary cards.
func RenderDashboard(d Dashboard) View {
	return View{
		Headline: "Rainfall Prediction: " + d.LatestRainfall + " (next 7 days)",
		Details:  []string{"Expected Yield: " + d.LatestYield + " (current season)"},
	}
}

func trend(base decimal.Decimal, steps []trendStep) []TrendPoint {
	out := make([]TrendPoint, 0, len(steps))
	for _, s := range steps {
		out = append(out, TrendPoint{
			Label: s.label,
			Value: base.Mul(decimal.RequireFromString(s.factor)).Round(2).InexactFloat64(),
		})
	}
	return out
}

func percent(f float64) string {
	return decimal.NewFromFloat(f).Mul(hundred).StringFixed(0) + "%"
}

func stats(s IndexStats) string {
	return "mean " + decimal.NewFromFloat(s.Mean).StringFixed(2) +
		", min " + decimal.NewFromFloat(s.Min).StringFixed(2) +
		", max " + decimal.NewFromFloat(s.Max).StringFixed(2)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// scalar is the raw value as a user would see it: strings unquoted, numbers
// exactly as sent.
func scalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	var s string
	if len(raw) > 0 && raw[0] == '"' && json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
