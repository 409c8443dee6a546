package main

import (
	"encoding/json"

	"agriforecast/forms"
)

// Request/response DTOs. Keep them minimal and explicit.

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResp struct {
	Token string `json:"token"`
}

type createFieldReq struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	AreaHa    *float64 `json:"areaHa,omitempty"` // stored under meta.areaHa
	Notes     string   `json:"notes,omitempty"`
	Crop      string   `json:"crop,omitempty"`
}

// Form submissions. FieldID fills Location (and crop) from a saved field.

type rainfallReq struct {
	forms.RainfallInput
	FieldID string `json:"fieldId,omitempty"`
}

type cropYieldReq struct {
	forms.CropYieldInput
	FieldID string `json:"fieldId,omitempty"`
}

type satelliteReq struct {
	forms.SatelliteInput
	FieldID string `json:"fieldId,omitempty"`
}

// formView is the terminal state of one submission as the page shows it.
type formView struct {
	Form        string          `json:"form"`
	State       string          `json:"state"` // success | error
	Value       json.RawMessage `json:"value,omitempty"`
	Display     *forms.View     `json:"display,omitempty"`
	Error       string          `json:"error,omitempty"`
	OperationID string          `json:"operation_id,omitempty"`
}
