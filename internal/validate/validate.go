// Package validate checks raw prediction submissions against the static
// field rules. Form values may arrive as JSON numbers, booleans, or their
// string forms; coercion happens here and nothing downstream trusts an
// uncoerced value.
package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/NElyse/FPA-Project/internal/models"
)

type numericRule struct {
	Field string
	Min   float64
	Max   float64
}

var numericRules = []numericRule{
	{"rainfall_mm", 0, 100},
	{"water_level_m", 0, 3.5},
	{"soil_moisture", 0, 100},
	{"temp_c", -50, 60},
	{"humidity", 0, 100},
	{"wind_speed", 0, 50},
	{"pressure", 100, 1100},
}

var boolFields = []string{"has_river", "has_lake", "has_poor_drainage", "is_urban", "is_deforested"}

var seasons = []string{
	"Long Rainy Season",
	"Short Rainy Season",
	"Long Dry Season",
	"Short Dry Season",
}

var locationTypes = []string{"lowland", "middleland", "upland"}

const (
	ResultFloodRisk = "Flood Risk"
	ResultLowRisk   = "Low Risk"

	maxLocationLen = 30
)

// CheckSubmission validates a decoded save-prediction payload against every
// rule and returns the typed record plus the full ordered list of
// violations. The record is only meaningful when the list is empty.
func CheckSubmission(raw map[string]any, now time.Time) (*models.Prediction, []string) {
	var errs []string
	rec := &models.Prediction{}

	for _, rule := range numericRules {
		v, present := raw[rule.Field]
		if !present || v == nil {
			errs = append(errs, fmt.Sprintf("%s is required", rule.Field))
			continue
		}
		f, ok := toFloat(v)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s must be a number", rule.Field))
			continue
		}
		if f < rule.Min || f > rule.Max {
			errs = append(errs, fmt.Sprintf("%s must be between %s and %s",
				rule.Field, formatBound(rule.Min), formatBound(rule.Max)))
			continue
		}
		setMeasurement(rec, rule.Field, f)
	}

	if v, present := raw["prediction_date"]; !present || v == nil {
		errs = append(errs, "prediction_date is required")
	} else if s, ok := v.(string); !ok {
		errs = append(errs, "prediction_date must be a valid date")
	} else if date, ok := parseDate(s); !ok {
		errs = append(errs, "prediction_date must be a valid date")
	} else if date.Before(midnight(now)) {
		errs = append(errs, "prediction_date must not be in the past")
	} else {
		rec.PredictionDate = date
	}

	for _, field := range boolFields {
		v, present := raw[field]
		if !present || v == nil {
			errs = append(errs, fmt.Sprintf("%s is required", field))
			continue
		}
		b, ok := toBool(v)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s must be a boolean", field))
			continue
		}
		setFlag(rec, field, b)
	}

	if s, ok := raw["season"].(string); ok && contains(seasons, s) {
		rec.Season = s
	} else {
		errs = append(errs, "season must be one of: "+strings.Join(seasons, ", "))
	}

	if s, ok := raw["location_type"].(string); ok && contains(locationTypes, s) {
		rec.LocationType = s
	} else {
		errs = append(errs, "location_type must be one of: "+strings.Join(locationTypes, ", "))
	}

	if s, ok := raw["prediction_result"].(string); ok && (s == ResultFloodRisk || s == ResultLowRisk) {
		rec.Result = s
	} else {
		errs = append(errs, fmt.Sprintf("prediction_result must be %q or %q", ResultFloodRisk, ResultLowRisk))
	}

	if v, present := raw["prediction_probability"]; !present || v == nil {
		errs = append(errs, "prediction_probability is required")
	} else if p, ok := toFloat(v); !ok || p < 0 || p > 1 {
		errs = append(errs, "prediction_probability must be a number between 0 and 1")
	} else {
		rec.Probability = p
	}

	if v, present := raw["user_id"]; !present || v == nil {
		errs = append(errs, "user_id must be a positive number")
	} else if id, ok := toFloat(v); !ok || id <= 0 || id != math.Trunc(id) {
		errs = append(errs, "user_id must be a positive number")
	} else {
		rec.UserID = int64(id)
	}

	if v, present := raw["prediction_location"]; present && v != nil {
		if s, ok := v.(string); !ok {
			errs = append(errs, "prediction_location must be a string")
		} else if len([]rune(s)) > maxLocationLen {
			errs = append(errs, fmt.Sprintf("prediction_location must be at most %d characters", maxLocationLen))
		} else {
			rec.Location = s
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return rec, nil
}

// toFloat coerces a decoded JSON value to a finite float64.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x) && !math.IsInf(x, 0)
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// toBool coerces a decoded JSON value to a strict boolean. Only true/false
// and their string forms qualify.
func toBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// parseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp, keeping the
// calendar day only.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return midnight(t), true
	}
	return time.Time{}, false
}

// midnight truncates to the start of the calendar day, so a same-day
// submission compares as not-in-the-past.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func setMeasurement(rec *models.Prediction, field string, v float64) {
	switch field {
	case "rainfall_mm":
		rec.RainfallMM = v
	case "water_level_m":
		rec.WaterLevelM = v
	case "soil_moisture":
		rec.SoilMoisture = v
	case "temp_c":
		rec.TempC = v
	case "humidity":
		rec.Humidity = v
	case "wind_speed":
		rec.WindSpeed = v
	case "pressure":
		rec.Pressure = v
	}
}

func setFlag(rec *models.Prediction, field string, v bool) {
	switch field {
	case "has_river":
		rec.HasRiver = v
	case "has_lake":
		rec.HasLake = v
	case "has_poor_drainage":
		rec.HasPoorDrainage = v
	case "is_urban":
		rec.IsUrban = v
	case "is_deforested":
		rec.IsDeforested = v
	}
}

// formatBound prints range limits the way the client shows them, without a
// trailing .0 on whole numbers.
func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
