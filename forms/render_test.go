package forms

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRenderRainfall_Scalar(t *testing.T) {
	v := RenderRainfall(json.RawMessage(`120.5`))
	if v.Headline != "120.5 mm" {
		t.Errorf("expected %q, got %q", "120.5 mm", v.Headline)
	}
	if v.String() != "120.5 mm" {
		t.Errorf("unexpected text %q", v.String())
	}
}

func TestRenderRainfall_StringScalar(t *testing.T) {
	if v := RenderRainfall(json.RawMessage(`"heavy"`)); v.Headline != "heavy mm" {
		t.Errorf("unexpected headline %q", v.Headline)
	}
}

func TestRenderRainfall_Null(t *testing.T) {
	if v := RenderRainfall(json.RawMessage(`null`)); !v.IsZero() {
		t.Errorf("expected empty view, got %+v", v)
	}
}

func TestRenderRainfall_Object(t *testing.T) {
	v := RenderRainfall(json.RawMessage(`{"predicted_rainfall":12.345,"confidence":0.85}`))
	if v.Headline != "12.35 mm" {
		t.Errorf("unexpected headline %q", v.Headline)
	}
	if len(v.Details) != 2 || v.Details[0] != "Confidence: 85%" || v.Details[1] != "Historical Average: 9.88 mm" {
		t.Errorf("unexpected details %v", v.Details)
	}
	if len(v.Trend) != 7 {
		t.Fatalf("expected 7 trend points, got %d", len(v.Trend))
	}
	if v.Trend[0].Label != "Today" || v.Trend[0].Value != 12.35 {
		t.Errorf("unexpected first point %+v", v.Trend[0])
	}
	if v.Trend[1].Value != 11.11 {
		t.Errorf("unexpected second point %+v", v.Trend[1])
	}
}

func TestRenderCropYield(t *testing.T) {
	if v := RenderCropYield(json.RawMessage(`4.2`)); v.Headline != "4.2 tons/hectare" {
		t.Errorf("unexpected scalar headline %q", v.Headline)
	}

	v := RenderCropYield(json.RawMessage(`{"predicted_yield":3.5,"confidence":0.9,"satellite_contribution":0.62,"climate_contribution":0.38}`))
	if v.Headline != "3.50 tons/ha" {
		t.Errorf("unexpected headline %q", v.Headline)
	}
	want := []string{"Confidence: 90%", "Satellite Analysis: 62%", "Climate Analysis: 38%"}
	if strings.Join(v.Details, "|") != strings.Join(want, "|") {
		t.Errorf("expected %v, got %v", want, v.Details)
	}
	if len(v.Trend) != 12 || v.Trend[4].Label != "May" || v.Trend[4].Value != 3.5 {
		t.Errorf("unexpected trend %+v", v.Trend)
	}
}

func TestRenderSatellite(t *testing.T) {
	raw := json.RawMessage(`{"ndvi":{"mean":0.61,"min":0.1,"max":0.9},"health_status":"healthy","image_date":"2024-05-01"}`)
	v := RenderSatellite(raw)
	if !strings.Contains(v.Headline, "\n  \"health_status\": \"healthy\"") {
		t.Errorf("expected indented JSON, got %q", v.Headline)
	}
	want := []string{"NDVI: mean 0.61, min 0.10, max 0.90", "Health: healthy", "Image date: 2024-05-01"}
	if strings.Join(v.Details, "|") != strings.Join(want, "|") {
		t.Errorf("expected %v, got %v", want, v.Details)
	}
}

func TestRenderDashboard(t *testing.T) {
	v := RenderDashboard(Dashboard{LatestRainfall: "N/A mm", LatestYield: "4.5 tons/ha"})
	if v.Headline != "Rainfall Prediction: N/A mm (next 7 days)" {
		t.Errorf("unexpected headline %q", v.Headline)
	}
	if v.Details[0] != "Expected Yield: 4.5 tons/ha (current season)" {
		t.Errorf("unexpected details %v", v.Details)
	}
}

func TestRenderHistory(t *testing.T) {
	r, y := 2.5, 4.0
	v := RenderHistory(History{
		Rainfall: []HistoricalPoint{{Date: "2024-01-01", Rainfall: &r}},
		Yield:    []HistoricalPoint{{Date: "2024", Yield: &y}},
	})
	if v.Headline != "1 rainfall points, 1 yield points" {
		t.Errorf("unexpected headline %q", v.Headline)
	}
	if len(v.Details) != 2 || v.Details[0] != "2024-01-01 rainfall 2.5 mm" || v.Details[1] != "2024 yield 4 tons/ha" {
		t.Errorf("unexpected details %v", v.Details)
	}
}
