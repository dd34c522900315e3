package store

import (
	"fmt"

	"github.com/NElyse/FPA-Project/internal/models"
)

const predictionColumns = `id, user_id, prediction_date, season, location_type,
	rainfall_mm, water_level_m, soil_moisture, temp_c, humidity, wind_speed, pressure,
	has_river, has_lake, has_poor_drainage, is_urban, is_deforested,
	prediction_result, prediction_probability, prediction_location, created_at`

func (s *Store) InsertPrediction(p *models.Prediction) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO flood_predictions (
			user_id, prediction_date, season, location_type,
			rainfall_mm, water_level_m, soil_moisture, temp_c, humidity, wind_speed, pressure,
			has_river, has_lake, has_poor_drainage, is_urban, is_deforested,
			prediction_result, prediction_probability, prediction_location
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.UserID, p.PredictionDate.UTC(), p.Season, p.LocationType,
		p.RainfallMM, p.WaterLevelM, p.SoilMoisture, p.TempC, p.Humidity, p.WindSpeed, p.Pressure,
		p.HasRiver, p.HasLake, p.HasPoorDrainage, p.IsUrban, p.IsDeforested,
		p.Result, p.Probability, p.Location,
	)
	if err != nil {
		return 0, fmt.Errorf("insert prediction: %w", err)
	}
	return res.LastInsertId()
}

// ListPredictionsByUser returns the user's predictions, highest probability
// first.
func (s *Store) ListPredictionsByUser(userID int64) ([]models.Prediction, error) {
	rows, err := s.db.Query(`
		SELECT `+predictionColumns+`
		FROM flood_predictions
		WHERE user_id = ?
		ORDER BY prediction_probability DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var predictions []models.Prediction
	for rows.Next() {
		var p models.Prediction
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.PredictionDate, &p.Season, &p.LocationType,
			&p.RainfallMM, &p.WaterLevelM, &p.SoilMoisture, &p.TempC, &p.Humidity, &p.WindSpeed, &p.Pressure,
			&p.HasRiver, &p.HasLake, &p.HasPoorDrainage, &p.IsUrban, &p.IsDeforested,
			&p.Result, &p.Probability, &p.Location, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

// ListRecentStatus returns the newest predictions as public status rows.
func (s *Store) ListRecentStatus(limit int) ([]models.FloodStatus, error) {
	rows, err := s.db.Query(`
		SELECT prediction_location, prediction_result, created_at
		FROM flood_predictions
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []models.FloodStatus
	for rows.Next() {
		var st models.FloodStatus
		if err := rows.Scan(&st.Location, &st.RiskLevel, &st.Timestamp); err != nil {
			return nil, err
		}
		statuses = append(statuses, st)
	}
	return statuses, rows.Err()
}
