// Session collection schema and operations.
// Carbon entries, eco actions, and e-waste locations for one session.
package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ecotrack-campus/ecotrack/internal/domain"
)

// ─── Schema ─────────────────────────────────────────────────────────────────

// Migrations returns the schema statements in order.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		// Carbon entries; seq gives insertion order, newest has the highest seq
		`CREATE TABLE IF NOT EXISTS carbon_entries (
			seq            INTEGER PRIMARY KEY AUTOINCREMENT,
			id             TEXT NOT NULL UNIQUE,
			date           TEXT NOT NULL,
			transport_kg   REAL NOT NULL DEFAULT 0,
			electricity_kg REAL NOT NULL DEFAULT 0,
			total_kg       REAL NOT NULL DEFAULT 0
		)`,

		// Eco action catalog
		`CREATE TABLE IF NOT EXISTS eco_actions (
			seq       INTEGER PRIMARY KEY AUTOINCREMENT,
			id        TEXT NOT NULL UNIQUE,
			label     TEXT NOT NULL,
			icon      TEXT NOT NULL DEFAULT '',
			points    INTEGER NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0
		)`,

		// E-waste locations, items stored as a JSON array
		`CREATE TABLE IF NOT EXISTS ewaste_locations (
			seq     INTEGER PRIMARY KEY AUTOINCREMENT,
			id      TEXT NOT NULL UNIQUE,
			name    TEXT NOT NULL,
			address TEXT NOT NULL,
			items   TEXT NOT NULL DEFAULT '[]',
			status  TEXT NOT NULL DEFAULT 'pending',
			lat     REAL NOT NULL DEFAULT 0,
			lng     REAL NOT NULL DEFAULT 0
		)`,
	}
}

// ─── Carbon Entry Operations ────────────────────────────────────────────────

// Entries returns carbon entries, most recent first.
func (db *DB) Entries(ctx context.Context) ([]domain.CarbonEntry, error) {
	h, err := db.handle()
	if err != nil {
		return nil, err
	}
	rows, err := h.QueryContext(ctx, `
		SELECT id, date, transport_kg, electricity_kg, total_kg
		FROM carbon_entries ORDER BY seq DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.CarbonEntry{}
	for rows.Next() {
		var e domain.CarbonEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.TransportEmission, &e.ElectricityEmission, &e.TotalEmission); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// InsertEntry adds e as the newest entry and truncates to domain.EntryCap.
func (db *DB) InsertEntry(ctx context.Context, e domain.CarbonEntry) error {
	h, err := db.handle()
	if err != nil {
		return err
	}
	tx, err := h.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO carbon_entries (id, date, transport_kg, electricity_kg, total_kg)
		VALUES (?, ?, ?, ?, ?)
	`, e.ID, e.Date, e.TransportEmission, e.ElectricityEmission, e.TotalEmission); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM carbon_entries WHERE seq NOT IN (
			SELECT seq FROM carbon_entries ORDER BY seq DESC LIMIT ?
		)
	`, domain.EntryCap); err != nil {
		return fmt.Errorf("truncate entries: %w", err)
	}
	return tx.Commit()
}

// ─── Eco Action Operations ──────────────────────────────────────────────────

func (db *DB) insertAction(ctx context.Context, a domain.EcoAction) error {
	h, err := db.handle()
	if err != nil {
		return err
	}
	_, err = h.ExecContext(ctx, `
		INSERT INTO eco_actions (id, label, icon, points, completed)
		VALUES (?, ?, ?, ?, ?)
	`, a.ID, a.Label, a.Icon, a.PointValue, boolToInt(a.Completed))
	return err
}

// Actions returns the eco action catalog in seed order.
func (db *DB) Actions(ctx context.Context) ([]domain.EcoAction, error) {
	h, err := db.handle()
	if err != nil {
		return nil, err
	}
	rows, err := h.QueryContext(ctx, `
		SELECT id, label, icon, points, completed FROM eco_actions ORDER BY seq
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.EcoAction{}
	for rows.Next() {
		var a domain.EcoAction
		var completedInt int
		if err := rows.Scan(&a.ID, &a.Label, &a.Icon, &a.PointValue, &completedInt); err != nil {
			return nil, err
		}
		a.Completed = completedInt == 1
		result = append(result, a)
	}
	return result, rows.Err()
}

// UpdateAction overwrites the stored action with a.ID. Unknown ids
// match no rows and are ignored.
func (db *DB) UpdateAction(ctx context.Context, a domain.EcoAction) error {
	h, err := db.handle()
	if err != nil {
		return err
	}
	_, err = h.ExecContext(ctx, `
		UPDATE eco_actions SET label = ?, icon = ?, points = ?, completed = ?
		WHERE id = ?
	`, a.Label, a.Icon, a.PointValue, boolToInt(a.Completed), a.ID)
	return err
}

// ─── E-Waste Location Operations ────────────────────────────────────────────

// Locations returns e-waste locations in insertion order.
func (db *DB) Locations(ctx context.Context) ([]domain.EWasteLocation, error) {
	h, err := db.handle()
	if err != nil {
		return nil, err
	}
	rows, err := h.QueryContext(ctx, `
		SELECT id, name, address, items, status, lat, lng
		FROM ewaste_locations ORDER BY seq
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.EWasteLocation{}
	for rows.Next() {
		var l domain.EWasteLocation
		var itemsJSON, status string
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &itemsJSON, &status, &l.Lat, &l.Lng); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(itemsJSON), &l.Items); err != nil {
			return nil, fmt.Errorf("decode items for %s: %w", l.ID, err)
		}
		l.Status = domain.LocationStatus(status)
		result = append(result, l)
	}
	return result, rows.Err()
}

// AppendLocation stores l after every existing location.
func (db *DB) AppendLocation(ctx context.Context, l domain.EWasteLocation) error {
	h, err := db.handle()
	if err != nil {
		return err
	}
	items := l.Items
	if items == nil {
		items = []string{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return err
	}
	_, err = h.ExecContext(ctx, `
		INSERT INTO ewaste_locations (id, name, address, items, status, lat, lng)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.Name, l.Address, string(itemsJSON), string(l.Status), l.Lat, l.Lng)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
