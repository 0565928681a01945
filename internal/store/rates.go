package store

import (
	"fmt"
	"time"
)

// ListRoleRates returns every persisted role-default rate, ordered by
// role name.
func (s *Store) ListRoleRates() ([]RoleRate, error) {
	rows, err := s.db.Query(`SELECT role, rate, updated_at FROM role_rates ORDER BY role`)
	if err != nil {
		return nil, fmt.Errorf("list role rates: %w", err)
	}
	defer rows.Close()

	var rates []RoleRate
	for rows.Next() {
		var r RoleRate
		var updatedAt string
		if err := rows.Scan(&r.Role, &r.Rate, &updatedAt); err != nil {
			return nil, err
		}
		r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		rates = append(rates, r)
	}
	return rates, rows.Err()
}

// RoleRateMap returns the persisted table as a role → rate lookup.
func (s *Store) RoleRateMap() (map[string]float64, error) {
	rates, err := s.ListRoleRates()
	if err != nil {
		return nil, err
	}
	m := make(map[string]float64, len(rates))
	for _, r := range rates {
		m[r.Role] = r.Rate
	}
	return m, nil
}

// SetRoleRate upserts the default rate for a role.
func (s *Store) SetRoleRate(role string, rate float64) error {
	if rate <= 0 {
		return fmt.Errorf("rate for %q must be greater than zero", role)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO role_rates (role, rate, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(role) DO UPDATE SET rate = excluded.rate, updated_at = excluded.updated_at`,
		role, rate, now,
	)
	if err != nil {
		return fmt.Errorf("set role rate: %w", err)
	}
	return nil
}
