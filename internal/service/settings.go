package service

import (
	"time"

	"github.com/Pahari47/parkson-assignment/internal/config"

	"github.com/shopspring/decimal"
)

// LedgerSettings are the deployment knobs the ledger services read.
type LedgerSettings struct {
	DeletePolicy string
	Threshold    decimal.Decimal
	// Location decides what "today" and date-only filters mean.
	Location *time.Location
	// Now is replaceable in tests.
	Now func() time.Time
}

// SettingsFromConfig resolves LedgerSettings from validated configuration.
func SettingsFromConfig(cfg *config.Config) (LedgerSettings, error) {
	th, err := cfg.Threshold()
	if err != nil {
		return LedgerSettings{}, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return LedgerSettings{}, err
	}
	return LedgerSettings{
		DeletePolicy: cfg.LedgerDeletePolicy,
		Threshold:    th,
		Location:     loc,
		Now:          time.Now,
	}, nil
}

func (s LedgerSettings) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s LedgerSettings) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

func (s LedgerSettings) cascade() bool {
	return s.DeletePolicy == config.DeletePolicyCascade
}
