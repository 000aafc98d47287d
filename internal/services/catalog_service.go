package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lib/pq"
	"github.com/vesseliq/backend/internal/models"
)

const iconsDir = "./static/package-icons"

var packageIcons = map[string]string{
	"bronze":   "bronze.svg",
	"silver":   "silver.svg",
	"gold":     "gold.svg",
	"platinum": "platinum.svg",
}

const fallbackIconSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 200"><rect width="200" height="200" fill="#0b2239"/><circle cx="100" cy="90" r="45" fill="none" stroke="#9fb8cc" stroke-width="8"/><text x="100" y="170" text-anchor="middle" font-family="Arial" font-size="14" fill="#9fb8cc">PACKAGE</text></svg>`

// CatalogService serves the tracking-criteria catalog and the static pricing
// package list. Criteria are read-only catalog entries; pricing reads them
// through ResolveCriteria so unknown ids are rejected before quoting.
type CatalogService struct {
	db      *sql.DB
	pricing *PricingService
}

func NewCatalogService(db *sql.DB, pricing *PricingService) *CatalogService {
	return &CatalogService{
		db:      db,
		pricing: pricing,
	}
}

// ListCriteria returns catalog entries, optionally filtered by category.
func (cs *CatalogService) ListCriteria(ctx context.Context, category string) ([]models.TrackingCriterion, error) {
	query := `
		SELECT id, name, description, category, credit_cost, config
		FROM tracking_criteria
	`
	var args []interface{}
	if category != "" {
		query += " WHERE category = $1"
		args = append(args, category)
	}
	query += " ORDER BY category, name"

	rows, err := cs.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	criteria := []models.TrackingCriterion{}
	for rows.Next() {
		var criterion models.TrackingCriterion
		var cfg sql.NullString
		if err := rows.Scan(&criterion.ID, &criterion.Name, &criterion.Description,
			&criterion.Category, &criterion.CreditCost, &cfg); err != nil {
			return nil, err
		}
		if cfg.Valid {
			criterion.Config = []byte(cfg.String)
		}
		criteria = append(criteria, criterion)
	}

	return criteria, rows.Err()
}

// ResolveCriteria fetches the catalog entries for an id set, failing when
// any id is unknown so a quote can never silently price a missing criterion
// at zero.
func (cs *CatalogService) ResolveCriteria(ctx context.Context, ids []string) ([]models.TrackingCriterion, error) {
	if len(ids) == 0 {
		return []models.TrackingCriterion{}, nil
	}

	rows, err := cs.db.QueryContext(ctx, `
		SELECT id, name, description, category, credit_cost, config
		FROM tracking_criteria
		WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]models.TrackingCriterion, len(ids))
	for rows.Next() {
		var criterion models.TrackingCriterion
		var cfg sql.NullString
		if err := rows.Scan(&criterion.ID, &criterion.Name, &criterion.Description,
			&criterion.Category, &criterion.CreditCost, &cfg); err != nil {
			return nil, err
		}
		if cfg.Valid {
			criterion.Config = []byte(cfg.String)
		}
		byID[criterion.ID] = criterion
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	criteria := make([]models.TrackingCriterion, 0, len(ids))
	var missing []string
	for _, id := range ids {
		criterion, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		criteria = append(criteria, criterion)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrCriterionNotFound, strings.Join(missing, ", "))
	}

	return criteria, nil
}

// Packages returns the pricing package list with embedded icons.
func (cs *CatalogService) Packages() []models.PricingPackage {
	packages := cs.pricing.Packages()
	for i := range packages {
		packages[i].IconData = cs.loadIcon(packages[i].Tier)
	}
	return packages
}

func (cs *CatalogService) loadIcon(tier string) string {
	filename, ok := packageIcons[tier]
	if !ok {
		return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(fallbackIconSVG))
	}

	path := filepath.Join(iconsDir, filename)
	if data, err := os.ReadFile(path); err == nil {
		return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(data)
	}

	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(fallbackIconSVG))
}
