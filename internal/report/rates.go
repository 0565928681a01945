package report

import (
	"fmt"
	"math"
)

// DefaultHourlyRate applies to roles with no configured rate.
const DefaultHourlyRate = 5.00

// DefaultRoleRates is the built-in role → hourly rate table. The
// settings store may persist edited copies of these per installation.
func DefaultRoleRates() map[string]float64 {
	return map[string]float64{
		"Translator":     8.00,
		"Sound Engineer": 6.00,
	}
}

// RateTable resolves a user's hourly rate: a per-user override wins,
// otherwise the role default applies. Overrides live only in memory and
// vanish when the program exits.
type RateTable struct {
	roleRates map[string]float64
	overrides map[int64]float64
}

func NewRateTable(roleRates map[string]float64) *RateTable {
	t := &RateTable{
		roleRates: make(map[string]float64, len(roleRates)),
		overrides: make(map[int64]float64),
	}
	for role, rate := range roleRates {
		t.roleRates[role] = rate
	}
	return t
}

// RateFor returns the effective hourly rate for a user.
func (t *RateTable) RateFor(userID int64, role string) float64 {
	if rate, ok := t.overrides[userID]; ok {
		return rate
	}
	if rate, ok := t.roleRates[role]; ok {
		return rate
	}
	return DefaultHourlyRate
}

// Override reports the manually set rate for a user, if any.
func (t *RateTable) Override(userID int64) (float64, bool) {
	rate, ok := t.overrides[userID]
	return rate, ok
}

// SetOverride records a manual rate for a user. Non-positive or
// non-finite rates are rejected and the prior rate stays in effect.
func (t *RateTable) SetOverride(userID int64, rate float64) error {
	if err := validRate(rate); err != nil {
		return err
	}
	t.overrides[userID] = rate
	return nil
}

func (t *RateTable) ClearOverride(userID int64) {
	delete(t.overrides, userID)
}

// SetRoleRate changes the default rate for a role, subject to the same
// validation as overrides.
func (t *RateTable) SetRoleRate(role string, rate float64) error {
	if err := validRate(rate); err != nil {
		return err
	}
	t.roleRates[role] = rate
	return nil
}

func validRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return fmt.Errorf("hourly rate must be greater than zero, got %v", rate)
	}
	return nil
}
