package validate_test

import (
	"strings"
	"testing"
	"time"

	"github.com/NElyse/FPA-Project/internal/validate"
)

var testNow = time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

func validPayload() map[string]any {
	return map[string]any{
		"rainfall_mm":            55.0,
		"water_level_m":          1.2,
		"soil_moisture":          70.0,
		"temp_c":                 22.5,
		"humidity":               85.0,
		"wind_speed":             12.0,
		"pressure":               1013.0,
		"prediction_date":        "2025-03-15",
		"has_river":              true,
		"has_lake":               false,
		"has_poor_drainage":      true,
		"is_urban":               false,
		"is_deforested":          true,
		"season":                 "Long Rainy Season",
		"location_type":          "lowland",
		"prediction_result":      "Flood Risk",
		"prediction_probability": 0.87,
		"user_id":                3.0,
		"prediction_location":    "Nyarugenge",
	}
}

func TestCheckSubmission_Valid(t *testing.T) {
	t.Parallel()
	rec, errs := validate.CheckSubmission(validPayload(), testNow)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if rec.RainfallMM != 55 || rec.WaterLevelM != 1.2 {
		t.Errorf("measurements not copied: %+v", rec)
	}
	if !rec.HasRiver || rec.HasLake {
		t.Errorf("flags not copied: %+v", rec)
	}
	if rec.UserID != 3 {
		t.Errorf("expected user_id 3, got %d", rec.UserID)
	}
	if rec.Location != "Nyarugenge" {
		t.Errorf("expected location copied, got %q", rec.Location)
	}
}

func TestCheckSubmission_RangeBoundaries(t *testing.T) {
	t.Parallel()
	cases := []struct {
		field    string
		value    float64
		rejected bool
	}{
		{"rainfall_mm", 0, false},
		{"rainfall_mm", 100, false},
		{"rainfall_mm", 101, true},
		{"rainfall_mm", -1, true},
		{"water_level_m", 3.5, false},
		{"water_level_m", 3.6, true},
		{"temp_c", -50, false},
		{"temp_c", -51, true},
		{"temp_c", 60, false},
		{"temp_c", 61, true},
		{"wind_speed", 50, false},
		{"wind_speed", 50.1, true},
		{"pressure", 100, false},
		{"pressure", 99, true},
		{"pressure", 1100, false},
		{"pressure", 1101, true},
	}
	for _, tc := range cases {
		raw := validPayload()
		raw[tc.field] = tc.value
		_, errs := validate.CheckSubmission(raw, testNow)
		if tc.rejected {
			if len(errs) != 1 || !strings.HasPrefix(errs[0], tc.field+" must be between") {
				t.Errorf("%s=%v: expected range error, got %v", tc.field, tc.value, errs)
			}
		} else if len(errs) != 0 {
			t.Errorf("%s=%v: expected acceptance, got %v", tc.field, tc.value, errs)
		}
	}
}

func TestCheckSubmission_MissingFields(t *testing.T) {
	t.Parallel()
	raw := validPayload()
	delete(raw, "rainfall_mm")
	delete(raw, "has_river")
	delete(raw, "prediction_probability")

	_, errs := validate.CheckSubmission(raw, testNow)
	want := []string{
		"rainfall_mm is required",
		"has_river is required",
		"prediction_probability is required",
	}
	for _, w := range want {
		if !containsString(errs, w) {
			t.Errorf("expected %q in %v", w, errs)
		}
	}
	if len(errs) != len(want) {
		t.Errorf("expected %d errors, got %v", len(want), errs)
	}
}

func TestCheckSubmission_StringCoercion(t *testing.T) {
	t.Parallel()
	raw := validPayload()
	raw["rainfall_mm"] = "55.5"
	raw["has_river"] = "true"
	raw["is_urban"] = "false"

	rec, errs := validate.CheckSubmission(raw, testNow)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if rec.RainfallMM != 55.5 {
		t.Errorf("expected coerced 55.5, got %v", rec.RainfallMM)
	}
	if !rec.HasRiver || rec.IsUrban {
		t.Errorf("expected coerced booleans, got %+v", rec)
	}
}

func TestCheckSubmission_BadCoercion(t *testing.T) {
	t.Parallel()
	raw := validPayload()
	raw["rainfall_mm"] = "heavy"
	raw["has_river"] = 1.0

	_, errs := validate.CheckSubmission(raw, testNow)
	if !containsString(errs, "rainfall_mm must be a number") {
		t.Errorf("expected number error, got %v", errs)
	}
	if !containsString(errs, "has_river must be a boolean") {
		t.Errorf("expected boolean error, got %v", errs)
	}
}

func TestCheckSubmission_Date(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		value    any
		rejected string
	}{
		{"today", "2025-03-15", ""},
		{"future", "2025-04-01", ""},
		{"rfc3339 same day", "2025-03-15T23:00:00Z", ""},
		{"yesterday", "2025-03-14", "prediction_date must not be in the past"},
		{"garbage", "soon", "prediction_date must be a valid date"},
		{"non-string", 20250315.0, "prediction_date must be a valid date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := validPayload()
			raw["prediction_date"] = tc.value
			_, errs := validate.CheckSubmission(raw, testNow)
			if tc.rejected == "" {
				if len(errs) != 0 {
					t.Fatalf("expected acceptance, got %v", errs)
				}
				return
			}
			if !containsString(errs, tc.rejected) {
				t.Fatalf("expected %q, got %v", tc.rejected, errs)
			}
		})
	}
}

func TestCheckSubmission_Enums(t *testing.T) {
	t.Parallel()
	raw := validPayload()
	raw["season"] = "Monsoon"
	raw["location_type"] = "valley"
	raw["prediction_result"] = "Maybe"

	_, errs := validate.CheckSubmission(raw, testNow)
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %v", errs)
	}
	if !strings.HasPrefix(errs[0], "season must be one of:") {
		t.Errorf("unexpected season error: %q", errs[0])
	}
	if !strings.HasPrefix(errs[1], "location_type must be one of:") {
		t.Errorf("unexpected location_type error: %q", errs[1])
	}
	if errs[2] != `prediction_result must be "Flood Risk" or "Low Risk"` {
		t.Errorf("unexpected result error: %q", errs[2])
	}
}

func TestCheckSubmission_Probability(t *testing.T) {
	t.Parallel()
	for _, v := range []float64{0, 0.5, 1} {
		raw := validPayload()
		raw["prediction_probability"] = v
		if _, errs := validate.CheckSubmission(raw, testNow); len(errs) != 0 {
			t.Errorf("probability %v: expected acceptance, got %v", v, errs)
		}
	}
	for _, v := range []any{1.5, -0.1, "likely"} {
		raw := validPayload()
		raw["prediction_probability"] = v
		_, errs := validate.CheckSubmission(raw, testNow)
		if !containsString(errs, "prediction_probability must be a number between 0 and 1") {
			t.Errorf("probability %v: expected rejection, got %v", v, errs)
		}
	}
}

func TestCheckSubmission_UserID(t *testing.T) {
	t.Parallel()
	for _, v := range []any{0.0, -2.0, 1.5, "abc"} {
		raw := validPayload()
		raw["user_id"] = v
		_, errs := validate.CheckSubmission(raw, testNow)
		if !containsString(errs, "user_id must be a positive number") {
			t.Errorf("user_id %v: expected rejection, got %v", v, errs)
		}
	}
}

func TestCheckSubmission_Location(t *testing.T) {
	t.Parallel()

	raw := validPayload()
	delete(raw, "prediction_location")
	if _, errs := validate.CheckSubmission(raw, testNow); len(errs) != 0 {
		t.Errorf("location is optional, got %v", errs)
	}

	raw = validPayload()
	raw["prediction_location"] = strings.Repeat("a", 31)
	_, errs := validate.CheckSubmission(raw, testNow)
	if !containsString(errs, "prediction_location must be at most 30 characters") {
		t.Errorf("expected length error, got %v", errs)
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
