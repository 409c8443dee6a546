package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"agriforecast/api/models"
	"agriforecast/forms"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// handleCreateField saves a named plot the forms can reuse by id.
func (a *App) handleCreateField(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)

	var req createFieldReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.Latitude == nil || req.Longitude == nil {
		http.Error(w, "name, latitude and longitude are required", http.StatusBadRequest)
		return
	}
	if *req.Latitude < -90 || *req.Latitude > 90 || *req.Longitude < -180 || *req.Longitude > 180 {
		http.Error(w, "latitude must be within [-90, 90] and longitude within [-180, 180]", http.StatusBadRequest)
		return
	}
	if req.Crop != "" && !forms.CropType(req.Crop).Known() {
		http.Error(w, "unknown crop", http.StatusBadRequest)
		return
	}

	f := models.Field{
		OwnerID:   uid,
		Name:      strings.TrimSpace(req.Name),
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		CreatedAt: time.Now(),
	}
	if req.AreaHa != nil || req.Notes != "" || req.Crop != "" {
		f.Meta = &models.FieldMeta{AreaHa: req.AreaHa, Notes: req.Notes, Crop: req.Crop}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := a.store.CreateField(ctx, &f); err != nil {
		a.log.Error().Err(err).Msg("create field")
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// handleListFields returns the caller's fields, newest first.
func (a *App) handleListFields(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := a.store.ListFields(ctx, mustUserID(r))
	if err != nil {
		a.log.Error().Err(err).Msg("list fields")
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *App) handleGetField(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	f, err := a.store.GetField(ctx, mustUserID(r), id)
	if err != nil {
		fieldError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (a *App) handleDeleteField(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := a.store.DeleteField(ctx, mustUserID(r), id); err != nil {
		fieldError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// lookupField resolves a fieldId sent with a form. Only the owner can use it.
func (a *App) lookupField(ctx context.Context, r *http.Request, hexID string) (models.Field, int, error) {
	uid, ok := userID(r)
	if !ok {
		return models.Field{}, http.StatusUnauthorized, errors.New("fieldId requires a bearer token")
	}
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return models.Field{}, http.StatusBadRequest, errors.New("bad fieldId")
	}
	f, err := a.store.GetField(ctx, uid, id)
	if errors.Is(err, errNotFound) {
		return models.Field{}, http.StatusNotFound, errors.New("field not found")
	}
	if err != nil {
		return models.Field{}, http.StatusInternalServerError, errors.New("db error")
	}
	return f, http.StatusOK, nil
}

func fieldError(w http.ResponseWriter, err error) {
	if errors.Is(err, errNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.Error(w, "db error", http.StatusInternalServerError)
}
