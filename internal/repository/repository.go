package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mr1hm/safemap/internal/models"
)

const (
	DefaultLimit = 20
	MaxLimit     = 500
)

var ErrNotFound = errors.New("alert not found")

type Filter struct {
	Limit       int // 0 means DefaultLimit, capped at MaxLimit
	Since       *time.Time
	Severity    *models.AlertSeverity
	MinSeverity *models.AlertSeverity // >= this level (e.g. HIGH includes HIGH and CRITICAL)
	Type        *models.AlertType
	Location    string // case-insensitive match on AffectedLocation
}

func (f Filter) limit() int {
	switch {
	case f.Limit <= 0:
		return DefaultLimit
	case f.Limit > MaxLimit:
		return MaxLimit
	default:
		return f.Limit
	}
}

type AlertRepository interface {
	Add(ctx context.Context, a *models.Alert) error
	GetByID(ctx context.Context, id string) (*models.Alert, error)
	Exists(ctx context.Context, id string) (bool, error)
	ListAlerts(ctx context.Context, opts Filter) ([]models.Alert, error)
	Prune(ctx context.Context, olderThan time.Time) (int64, error)
}
