package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jgoulah/energytrack/pkg/models"
	_ "modernc.org/sqlite"
)

var (
	// ErrConflict is returned when a record already exists for a user and date
	ErrConflict = errors.New("record already exists for this date")
	// ErrNotFound is returned when a requested row does not exist
	ErrNotFound = errors.New("not found")
)

const dateFormat = "2006-01-02"

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS energy_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user TEXT NOT NULL,
		date TEXT NOT NULL,
		solar_kwh REAL NOT NULL DEFAULT 0,
		solar_cost REAL NOT NULL DEFAULT 0,
		wind_kwh REAL NOT NULL DEFAULT 0,
		wind_cost REAL NOT NULL DEFAULT 0,
		hydro_kwh REAL NOT NULL DEFAULT 0,
		hydro_cost REAL NOT NULL DEFAULT 0,
		other_kwh REAL NOT NULL DEFAULT 0,
		other_cost REAL NOT NULL DEFAULT 0,
		grid_kwh REAL NOT NULL DEFAULT 0,
		grid_cost REAL NOT NULL DEFAULT 0,
		generator_kwh REAL NOT NULL DEFAULT 0,
		generator_cost REAL NOT NULL DEFAULT 0,
		peak_start TEXT,
		peak_end TEXT,
		peak_kwh REAL NOT NULL DEFAULT 0,
		off_peak_kwh REAL NOT NULL DEFAULT 0,
		total_kwh REAL NOT NULL,
		total_cost REAL NOT NULL,
		renewable_pct REAL NOT NULL DEFAULT 0,
		carbon_kg REAL NOT NULL DEFAULT 0,
		notes TEXT,
		published INTEGER DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(user, date)
	);
	CREATE INDEX IF NOT EXISTS idx_records_user_date ON energy_records(user, date);

	CREATE TABLE IF NOT EXISTS recommendations (
		id TEXT PRIMARY KEY,
		user TEXT NOT NULL,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		priority TEXT NOT NULL,
		status TEXT NOT NULL,
		cost_savings REAL NOT NULL DEFAULT 0,
		carbon_reduction REAL NOT NULL DEFAULT 0,
		energy_efficiency REAL NOT NULL DEFAULT 0,
		confidence REAL NOT NULL DEFAULT 0,
		data_points INTEGER NOT NULL DEFAULT 0,
		window_start TEXT,
		window_end TEXT,
		actions TEXT,
		implemented_at TEXT,
		expires_at TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_recommendations_user_status ON recommendations(user, status);
	CREATE INDEX IF NOT EXISTS idx_recommendations_expires ON recommendations(expires_at);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// isUniqueViolation reports whether an error is a UNIQUE constraint failure
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

const recordColumns = `id, user, date,
	solar_kwh, solar_cost, wind_kwh, wind_cost, hydro_kwh, hydro_cost,
	other_kwh, other_cost, grid_kwh, grid_cost, generator_kwh, generator_cost,
	peak_start, peak_end, peak_kwh, off_peak_kwh,
	total_kwh, total_cost, renewable_pct, carbon_kg, notes`

// execer covers *sql.DB and *sql.Tx
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// InsertRecord inserts a normalized energy record. Returns ErrConflict when a
// record already exists for the same user and date.
func (db *DB) InsertRecord(rec *models.EnergyRecord) error {
	return insertRecord(db.conn, rec)
}

func insertRecord(ex execer, rec *models.EnergyRecord) error {
	query := `
	INSERT INTO energy_records (user, date,
		solar_kwh, solar_cost, wind_kwh, wind_cost, hydro_kwh, hydro_cost,
		other_kwh, other_cost, grid_kwh, grid_cost, generator_kwh, generator_cost,
		peak_start, peak_end, peak_kwh, off_peak_kwh,
		total_kwh, total_cost, renewable_pct, carbon_kg, notes,
		created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := ex.Exec(query, rec.User, rec.Date.Format(dateFormat),
		rec.Sources.Renewable.Solar.Consumption, rec.Sources.Renewable.Solar.Cost,
		rec.Sources.Renewable.Wind.Consumption, rec.Sources.Renewable.Wind.Cost,
		rec.Sources.Renewable.Hydro.Consumption, rec.Sources.Renewable.Hydro.Cost,
		rec.Sources.Renewable.Other.Consumption, rec.Sources.Renewable.Other.Cost,
		rec.Sources.NonRenewable.Grid.Consumption, rec.Sources.NonRenewable.Grid.Cost,
		rec.Sources.NonRenewable.Generator.Consumption, rec.Sources.NonRenewable.Generator.Cost,
		rec.Peak.Start, rec.Peak.End, rec.Peak.Consumption, rec.OffPeakConsumption,
		rec.TotalConsumption, rec.TotalCost, rec.RenewablePercentage, rec.CarbonFootprint,
		rec.Notes, now, now)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("inserting energy record: %w", err)
	}

	id, err := res.LastInsertId()
	if err == nil {
		rec.ID = int(id)
	}
	return nil
}

// InsertRecords inserts a batch of records in a single transaction. The whole
// batch is rolled back on the first conflict or error, so overlapping imports
// cannot leave a partial set behind.
func (db *DB) InsertRecords(recs []models.EnergyRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	for i := range recs {
		if err := insertRecord(tx, &recs[i]); err != nil {
			tx.Rollback()
			if errors.Is(err, ErrConflict) {
				return fmt.Errorf("record for %s %s: %w",
					recs[i].User, recs[i].Date.Format(dateFormat), ErrConflict)
			}
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func scanRecord(scan func(dest ...any) error) (*models.EnergyRecord, error) {
	var rec models.EnergyRecord
	var dateStr string
	var peakStart, peakEnd, notes sql.NullString

	err := scan(&rec.ID, &rec.User, &dateStr,
		&rec.Sources.Renewable.Solar.Consumption, &rec.Sources.Renewable.Solar.Cost,
		&rec.Sources.Renewable.Wind.Consumption, &rec.Sources.Renewable.Wind.Cost,
		&rec.Sources.Renewable.Hydro.Consumption, &rec.Sources.Renewable.Hydro.Cost,
		&rec.Sources.Renewable.Other.Consumption, &rec.Sources.Renewable.Other.Cost,
		&rec.Sources.NonRenewable.Grid.Consumption, &rec.Sources.NonRenewable.Grid.Cost,
		&rec.Sources.NonRenewable.Generator.Consumption, &rec.Sources.NonRenewable.Generator.Cost,
		&peakStart, &peakEnd, &rec.Peak.Consumption, &rec.OffPeakConsumption,
		&rec.TotalConsumption, &rec.TotalCost, &rec.RenewablePercentage, &rec.CarbonFootprint,
		&notes)
	if err != nil {
		return nil, err
	}

	rec.Date, err = time.Parse(dateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing date: %w", err)
	}
	rec.Peak.Start = peakStart.String
	rec.Peak.End = peakEnd.String
	rec.Notes = notes.String

	return &rec, nil
}

// GetRecord retrieves a single record by id, scoped to a user
func (db *DB) GetRecord(user string, id int) (*models.EnergyRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM energy_records WHERE id = ? AND user = ?`
	row := db.conn.QueryRow(query, id, user)

	rec, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying energy record: %w", err)
	}
	return rec, nil
}

// ListRecords retrieves all of a user's records, newest first
func (db *DB) ListRecords(user string) ([]models.EnergyRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM energy_records WHERE user = ? ORDER BY date DESC`
	return db.queryRecords(query, user)
}

// ListRecordsByRange retrieves a user's records with dates in [start, end],
// newest first
func (db *DB) ListRecordsByRange(user string, start, end time.Time) ([]models.EnergyRecord, error) {
	query := `SELECT ` + recordColumns + `
	FROM energy_records
	WHERE user = ? AND date >= ? AND date <= ?
	ORDER BY date DESC`
	return db.queryRecords(query, user, start.Format(dateFormat), end.Format(dateFormat))
}

func (db *DB) queryRecords(query string, args ...any) ([]models.EnergyRecord, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying energy records: %w", err)
	}
	defer rows.Close()

	var results []models.EnergyRecord
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, *rec)
	}

	return results, rows.Err()
}

// UpdateRecord replaces a record's stored fields with the given normalized
// record. The user and date cannot change; derived fields must already be
// recomputed by the caller. The row is marked unpublished again.
func (db *DB) UpdateRecord(rec *models.EnergyRecord) error {
	query := `
	UPDATE energy_records SET
		solar_kwh = ?, solar_cost = ?, wind_kwh = ?, wind_cost = ?,
		hydro_kwh = ?, hydro_cost = ?, other_kwh = ?, other_cost = ?,
		grid_kwh = ?, grid_cost = ?, generator_kwh = ?, generator_cost = ?,
		peak_start = ?, peak_end = ?, peak_kwh = ?, off_peak_kwh = ?,
		total_kwh = ?, total_cost = ?, renewable_pct = ?, carbon_kg = ?,
		notes = ?, published = 0, updated_at = ?
	WHERE id = ? AND user = ?
	`

	res, err := db.conn.Exec(query,
		rec.Sources.Renewable.Solar.Consumption, rec.Sources.Renewable.Solar.Cost,
		rec.Sources.Renewable.Wind.Consumption, rec.Sources.Renewable.Wind.Cost,
		rec.Sources.Renewable.Hydro.Consumption, rec.Sources.Renewable.Hydro.Cost,
		rec.Sources.Renewable.Other.Consumption, rec.Sources.Renewable.Other.Cost,
		rec.Sources.NonRenewable.Grid.Consumption, rec.Sources.NonRenewable.Grid.Cost,
		rec.Sources.NonRenewable.Generator.Consumption, rec.Sources.NonRenewable.Generator.Cost,
		rec.Peak.Start, rec.Peak.End, rec.Peak.Consumption, rec.OffPeakConsumption,
		rec.TotalConsumption, rec.TotalCost, rec.RenewablePercentage, rec.CarbonFootprint,
		rec.Notes, time.Now().UTC().Format(time.RFC3339),
		rec.ID, rec.User)
	if err != nil {
		return fmt.Errorf("updating energy record: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRecord removes a record by id, scoped to a user
func (db *DB) DeleteRecord(user string, id int) error {
	res, err := db.conn.Exec(`DELETE FROM energy_records WHERE id = ? AND user = ?`, id, user)
	if err != nil {
		return fmt.Errorf("deleting energy record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUnpublishedRecords retrieves a user's records not yet published, oldest
// first so summaries arrive in order
func (db *DB) ListUnpublishedRecords(user string) ([]models.EnergyRecord, error) {
	query := `SELECT ` + recordColumns + `
	FROM energy_records
	WHERE user = ? AND published = 0
	ORDER BY date ASC`
	return db.queryRecords(query, user)
}

// MarkPublished marks an energy record as published
func (db *DB) MarkPublished(id int) error {
	_, err := db.conn.Exec(`UPDATE energy_records SET published = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking record as published: %w", err)
	}
	return nil
}

const recommendationColumns = `id, user, type, title, description, priority, status,
	cost_savings, carbon_reduction, energy_efficiency, confidence,
	data_points, window_start, window_end, actions,
	implemented_at, expires_at, created_at, updated_at`

// InsertRecommendations persists a generated batch in a single transaction.
// Either every recommendation in the batch is committed or none are.
func (db *DB) InsertRecommendations(recs []models.Recommendation) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	query := `
	INSERT INTO recommendations (` + recommendationColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, rec := range recs {
		actions, err := json.Marshal(rec.Actions)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("encoding action items: %w", err)
		}

		var implementedAt string
		if !rec.ImplementedAt.IsZero() {
			implementedAt = rec.ImplementedAt.UTC().Format(time.RFC3339)
		}

		_, err = tx.Exec(query,
			rec.ID, rec.User, string(rec.Type), rec.Title, rec.Description,
			string(rec.Priority), string(rec.Status),
			rec.Impact.CostSavings, rec.Impact.CarbonReduction, rec.Impact.EnergyEfficiency,
			rec.Confidence, rec.DataPoints,
			rec.WindowStart.Format(dateFormat), rec.WindowEnd.Format(dateFormat),
			string(actions), implementedAt,
			rec.ExpiresAt.UTC().Format(time.RFC3339),
			rec.CreatedAt.UTC().Format(time.RFC3339),
			rec.UpdatedAt.UTC().Format(time.RFC3339))
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting recommendation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func scanRecommendation(scan func(dest ...any) error) (*models.Recommendation, error) {
	var rec models.Recommendation
	var typ, priority, status string
	var windowStart, windowEnd, actions, implementedAt sql.NullString
	var expiresAt, createdAt, updatedAt string

	err := scan(&rec.ID, &rec.User, &typ, &rec.Title, &rec.Description, &priority, &status,
		&rec.Impact.CostSavings, &rec.Impact.CarbonReduction, &rec.Impact.EnergyEfficiency,
		&rec.Confidence, &rec.DataPoints, &windowStart, &windowEnd, &actions,
		&implementedAt, &expiresAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	rec.Type = models.RecommendationType(typ)
	rec.Priority = models.Priority(priority)
	rec.Status = models.Status(status)

	if windowStart.Valid && windowStart.String != "" {
		if rec.WindowStart, err = time.Parse(dateFormat, windowStart.String); err != nil {
			return nil, fmt.Errorf("parsing window_start: %w", err)
		}
	}
	if windowEnd.Valid && windowEnd.String != "" {
		if rec.WindowEnd, err = time.Parse(dateFormat, windowEnd.String); err != nil {
			return nil, fmt.Errorf("parsing window_end: %w", err)
		}
	}
	if actions.Valid && actions.String != "" {
		if err := json.Unmarshal([]byte(actions.String), &rec.Actions); err != nil {
			return nil, fmt.Errorf("decoding action items: %w", err)
		}
	}
	if implementedAt.Valid && implementedAt.String != "" {
		if rec.ImplementedAt, err = time.Parse(time.RFC3339, implementedAt.String); err != nil {
			return nil, fmt.Errorf("parsing implemented_at: %w", err)
		}
	}
	if rec.ExpiresAt, err = time.Parse(time.RFC3339, expiresAt); err != nil {
		return nil, fmt.Errorf("parsing expires_at: %w", err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &rec, nil
}

// GetRecommendation retrieves one recommendation by id, scoped to a user
func (db *DB) GetRecommendation(user, id string) (*models.Recommendation, error) {
	query := `SELECT ` + recommendationColumns + ` FROM recommendations WHERE id = ? AND user = ?`
	row := db.conn.QueryRow(query, id, user)

	rec, err := scanRecommendation(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying recommendation: %w", err)
	}
	return rec, nil
}

// RecommendationFilter narrows a listing; zero-value fields match everything
type RecommendationFilter struct {
	Status   models.Status
	Type     models.RecommendationType
	Priority models.Priority
}

// ListRecommendations retrieves a user's recommendations matching the filter,
// newest first
func (db *DB) ListRecommendations(user string, filter RecommendationFilter) ([]models.Recommendation, error) {
	query := `SELECT ` + recommendationColumns + ` FROM recommendations WHERE user = ?`
	args := []any{user}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(filter.Type))
	}
	if filter.Priority != "" {
		query += ` AND priority = ?`
		args = append(args, string(filter.Priority))
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying recommendations: %w", err)
	}
	defer rows.Close()

	var results []models.Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, *rec)
	}

	return results, rows.Err()
}

// UpdateRecommendationStatus stores a lifecycle transition already validated
// by the caller
func (db *DB) UpdateRecommendationStatus(rec *models.Recommendation) error {
	var implementedAt string
	if !rec.ImplementedAt.IsZero() {
		implementedAt = rec.ImplementedAt.UTC().Format(time.RFC3339)
	}

	res, err := db.conn.Exec(`
	UPDATE recommendations SET status = ?, implemented_at = ?, updated_at = ?
	WHERE id = ? AND user = ?`,
		string(rec.Status), implementedAt, rec.UpdatedAt.UTC().Format(time.RFC3339),
		rec.ID, rec.User)
	if err != nil {
		return fmt.Errorf("updating recommendation status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRecommendation removes a recommendation by id, scoped to a user
func (db *DB) DeleteRecommendation(user, id string) error {
	res, err := db.conn.Exec(`DELETE FROM recommendations WHERE id = ? AND user = ?`, id, user)
	if err != nil {
		return fmt.Errorf("deleting recommendation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpiredRecommendations removes pending and viewed recommendations
// whose validity window has passed, returning the number deleted. Implemented
// and dismissed recommendations are kept for history.
func (db *DB) DeleteExpiredRecommendations(now time.Time) (int, error) {
	res, err := db.conn.Exec(`
	DELETE FROM recommendations
	WHERE expires_at < ? AND status IN (?, ?)`,
		now.UTC().Format(time.RFC3339),
		string(models.StatusPending), string(models.StatusViewed))
	if err != nil {
		return 0, fmt.Errorf("deleting expired recommendations: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking delete result: %w", err)
	}
	return int(n), nil
}
