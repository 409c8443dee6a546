package forms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Location is either free text ("Delhi") or a coordinate pair. Coordinates
// stay the strings the user typed; the prediction service parses them.
type Location struct {
	Text      string
	Latitude  string
	Longitude string
}

func Place(text string) Location { return Location{Text: text} }

func Coordinates(lat, lon string) Location { return Location{Latitude: lat, Longitude: lon} }

func (l Location) IsCoordinates() bool {
	return l.Text == "" && (l.Latitude != "" || l.Longitude != "")
}

func (l Location) IsZero() bool { return l == Location{} }

type coordinates struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

func (l Location) MarshalJSON() ([]byte, error) {
	if l.IsCoordinates() {
		return json.Marshal(coordinates{Latitude: l.Latitude, Longitude: l.Longitude})
	}
	return json.Marshal(l.Text)
}

// UnmarshalJSON accepts a string or {latitude, longitude} with string or
// numeric members.
func (l *Location) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*l = Location{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = Place(s)
		return nil
	}
	var raw struct {
		Latitude  json.RawMessage `json:"latitude"`
		Longitude json.RawMessage `json:"longitude"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("location must be a string or {latitude, longitude}: %w", err)
	}
	*l = Coordinates(scalarText(raw.Latitude), scalarText(raw.Longitude))
	return nil
}

// String is the query-string form: text as-is, coordinates as JSON.
func (l Location) String() string {
	if !l.IsCoordinates() {
		return l.Text
	}
	b, _ := l.MarshalJSON()
	return string(b)
}

// DateRange is either free text ("2024-01-01 to 2024-01-31") or a start/end
// pair of ISO dates.
type DateRange struct {
	Text  string
	Start string
	End   string
}

// NextDays is the range from now to now+days.
func NextDays(now time.Time, days int) DateRange {
	return DateRange{
		Start: now.UTC().Format(dateLayout),
		End:   now.UTC().AddDate(0, 0, days).Format(dateLayout),
	}
}

// PastYear is the range from one year before now to now.
func PastYear(now time.Time) DateRange {
	return DateRange{
		Start: now.UTC().AddDate(-1, 0, 0).Format(dateLayout),
		End:   now.UTC().Format(dateLayout),
	}
}

func (d DateRange) IsZero() bool { return d == DateRange{} }

type datePair struct {
	Start string `json:"start_date"`
	End   string `json:"end_date"`
}

func (d DateRange) MarshalJSON() ([]byte, error) {
	if d.Text == "" && (d.Start != "" || d.End != "") {
		return json.Marshal(datePair{Start: d.Start, End: d.End})
	}
	return json.Marshal(d.Text)
}

func (d *DateRange) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = DateRange{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = DateRange{Text: s}
		return nil
	}
	var p datePair
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("date_range must be a string or {start_date, end_date}: %w", err)
	}
	*d = DateRange{Start: p.Start, End: p.End}
	return nil
}

// CropType is forwarded as-is; the known values are what the crop form offers.
type CropType string

const (
	Rice      CropType = "Rice"
	Wheat     CropType = "Wheat"
	Maize     CropType = "Maize"
	Soybean   CropType = "Soybean"
	Cotton    CropType = "Cotton"
	Sugarcane CropType = "Sugarcane"
	Potato    CropType = "Potato"
	Tomato    CropType = "Tomato"
)

var CropTypes = []CropType{Rice, Wheat, Maize, Soybean, Cotton, Sugarcane, Potato, Tomato}

func (c CropType) Known() bool {
	for _, k := range CropTypes {
		if strings.EqualFold(string(k), string(c)) {
			return true
		}
	}
	return false
}

type RainfallInput struct {
	Location  Location  `json:"location"`
	DateRange DateRange `json:"date_range"`
}

type CropYieldInput struct {
	Location  Location  `json:"location"`
	CropType  CropType  `json:"crop_type"`
	DateRange DateRange `json:"date_range"`
}

type SatelliteInput struct {
	Location Location `json:"location"`
	Date     string   `json:"date"`
}

// HistoricalQuery is sent as query parameters; empty members are omitted so
// the dashboard can ask for the default series.
type HistoricalQuery struct {
	Location  Location
	StartDate string
	EndDate   string
}

func (q HistoricalQuery) Query() url.Values {
	v := url.Values{}
	if !q.Location.IsZero() {
		v.Set("location", q.Location.String())
	}
	if q.StartDate != "" {
		v.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		v.Set("end_date", q.EndDate)
	}
	return v
}

func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
