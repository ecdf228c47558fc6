// Package store persists finished research reports. Three drivers share one
// interface: a JSON file directory, an embedded SQLite database, and
// PostgreSQL for hosted deployments.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/prsolans/agreement-mapper/internal/config"
	"github.com/prsolans/agreement-mapper/internal/model"
)

// Summary is one report in a listing.
type Summary struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"company_name"`
	DisplayName string    `json:"display_name"`
	Timestamp   time.Time `json:"timestamp"`
}

// Store defines report persistence. Save returns the assigned report ID.
// IsConfigured reports whether the backend is usable; callers may treat a
// false value as "run without persistence".
type Store interface {
	Save(ctx context.Context, report *model.Report) (string, error)
	List(ctx context.Context) ([]Summary, error)
	Load(ctx context.Context, id string) (*model.Report, error)
	Delete(ctx context.Context, id string) error
	IsConfigured() bool
	Close() error
}

// New builds a Store from config. Driver selection mirrors the config file:
// "file" (default), "sqlite", or "postgres".
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "file":
		return NewFile(cfg.Path)
	case "sqlite":
		return NewSQLite(cfg.Path)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}

var titleCaser = cases.Title(language.English)

// displayName renders a stored company name for listings.
func displayName(companyName string) string {
	return titleCaser.String(companyName)
}
