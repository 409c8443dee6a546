package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"agriforecast/api/models"
	"agriforecast/forms"
	"agriforecast/predict"

	"github.com/google/uuid"
)

const defaultReportLimit = 50

func (a *App) handleRainfall(w http.ResponseWriter, r *http.Request) {
	var req rainfallReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	in := req.RainfallInput
	if req.FieldID != "" {
		f, status, err := a.lookupField(r.Context(), r, req.FieldID)
		if err != nil {
			http.Error(w, err.Error(), status)
			return
		}
		in.Location = forms.Coordinates(f.Coordinates())
	}
	if in.DateRange.IsZero() {
		in.DateRange = forms.NextDays(time.Now(), 7)
	}

	st := forms.NewRainfall(a.predictor, a.routes).Submit(r.Context(), in)
	a.respond(w, r, submission{
		form:    "rainfall",
		fieldID: req.FieldID,
		request: in,
		state:   st,
		render:  forms.RenderRainfall,
	})
}

func (a *App) handleCropYield(w http.ResponseWriter, r *http.Request) {
	var req cropYieldReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	in := req.CropYieldInput
	if req.FieldID != "" {
		f, status, err := a.lookupField(r.Context(), r, req.FieldID)
		if err != nil {
			http.Error(w, err.Error(), status)
			return
		}
		in.Location = forms.Coordinates(f.Coordinates())
		if in.CropType == "" {
			in.CropType = forms.CropType(f.Crop())
		}
	}
	if in.DateRange.IsZero() {
		in.DateRange = forms.NextDays(time.Now(), 30)
	}

	st := forms.NewCropYield(a.predictor, a.routes).Submit(r.Context(), in)
	a.respond(w, r, submission{
		form:    "crop-yield",
		fieldID: req.FieldID,
		request: in,
		state:   st,
		render:  forms.RenderCropYield,
	})
}

func (a *App) handleSatellite(w http.ResponseWriter, r *http.Request) {
	var req satelliteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	in := req.SatelliteInput
	if req.FieldID != "" {
		f, status, err := a.lookupField(r.Context(), r, req.FieldID)
		if err != nil {
			http.Error(w, err.Error(), status)
			return
		}
		in.Location = forms.Coordinates(f.Coordinates())
	}

	st := forms.NewSatellite(a.predictor, a.routes).Submit(r.Context(), in)
	a.respond(w, r, submission{
		form:    "satellite",
		fieldID: req.FieldID,
		request: in,
		state:   st,
		render:  forms.RenderSatellite,
	})
}

// handleHistorical reads its query from the URL: location (text or
// {"latitude","longitude"} JSON) or latitude+longitude or fieldId, plus
// start_date/end_date defaulting to the past year.
func (a *App) handleHistorical(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q := forms.HistoricalQuery{
		Location:  parseLocation(qs.Get("location")),
		StartDate: qs.Get("start_date"),
		EndDate:   qs.Get("end_date"),
	}
	if lat, lon := qs.Get("latitude"), qs.Get("longitude"); lat != "" || lon != "" {
		q.Location = forms.Coordinates(lat, lon)
	}
	fieldID := qs.Get("fieldId")
	if fieldID != "" {
		f, status, err := a.lookupField(r.Context(), r, fieldID)
		if err != nil {
			http.Error(w, err.Error(), status)
			return
		}
		q.Location = forms.Coordinates(f.Coordinates())
	}
	if q.StartDate == "" && q.EndDate == "" {
		past := forms.PastYear(time.Now())
		q.StartDate, q.EndDate = past.Start, past.End
	}

	st := forms.NewHistorical(a.predictor, a.routes).Submit(r.Context(), q)
	var value json.RawMessage
	if st.Phase == predict.Success {
		value, _ = json.Marshal(st.Value)
	}
	a.respond(w, r, submission{
		form:    "historical",
		fieldID: fieldID,
		request: map[string]any{"location": q.Location, "start_date": q.StartDate, "end_date": q.EndDate},
		state:   predict.State[json.RawMessage]{Phase: st.Phase, Value: value, Err: st.Err},
		render:  func(json.RawMessage) forms.View { return forms.RenderHistory(st.Value) },
	})
}

// handleDashboard always answers 200; series that failed come back empty.
func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d := forms.FetchDashboard(r.Context(), a.predictor, a.routes, a.log)
	value, _ := json.Marshal(d)
	view := forms.RenderDashboard(d)
	writeJSON(w, http.StatusOK, formView{
		Form:    "dashboard",
		State:   predict.Success.String(),
		Value:   value,
		Display: &view,
	})
}

// handleListReports returns the caller's submissions, newest first.
func (a *App) handleListReports(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultReportLimit)
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := a.store.ListReports(ctx, mustUserID(r), limit)
	if err != nil {
		a.log.Error().Err(err).Msg("list reports")
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// submission is one resolved form and what it was asked with.
type submission struct {
	form    string
	fieldID string
	request any
	state   predict.State[json.RawMessage]
	render  func(json.RawMessage) forms.View
}

// respond writes the form view and, for a signed-in caller, records it.
func (a *App) respond(w http.ResponseWriter, r *http.Request, s submission) {
	view := formView{Form: s.form, State: s.state.Phase.String()}
	status := http.StatusOK
	if s.state.Phase == predict.Success {
		view.Value = s.state.Value
		display := s.render(s.state.Value)
		view.Display = &display
	} else {
		view.Error = s.state.Err
		status = http.StatusBadGateway
	}

	if uid, ok := userID(r); ok {
		rep := models.Report{
			OperationID: uuid.NewString(),
			OwnerID:     uid,
			Form:        s.form,
			FieldID:     s.fieldID,
			Request:     asMap(s.request),
			Status:      models.ReportStatusSuccess,
			Value:       string(view.Value),
			Error:       view.Error,
			CreatedAt:   time.Now(),
		}
		if view.Display != nil {
			rep.Display = view.Display.String()
		}
		if view.Error != "" {
			rep.Status = models.ReportStatusError
		}
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 5*time.Second)
		if err := a.store.AddReport(ctx, &rep); err != nil {
			a.log.Error().Err(err).Str("form", s.form).Msg("record report")
		} else {
			view.OperationID = rep.OperationID
		}
		cancel()
	}

	a.log.Debug().Str("form", s.form).Str("state", view.State).Msg("form resolved")
	writeJSON(w, status, view)
}

// parseLocation reads the location query value the way the pages send it:
// free text, or coordinates serialized as JSON.
func parseLocation(s string) forms.Location {
	if !strings.HasPrefix(strings.TrimSpace(s), "{") {
		return forms.Place(s)
	}
	var l forms.Location
	if err := json.Unmarshal([]byte(s), &l); err != nil {
		return forms.Place(s)
	}
	return l
}

// asMap turns a request payload into a document for the report.
func asMap(v any) map[string]any {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]any
	if json.Unmarshal(b, &m) != nil {
		return nil
	}
	return m
}
