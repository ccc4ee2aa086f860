// marciomma | 2026
// dto.go

package portfolio

import (
	"time"
)

type UpdateStatusRequest struct {
	ProductID string `json:"productId" validate:"required"`
	CountryID string `json:"countryId" validate:"required"`
	StatusID  string `json:"statusId"  validate:"required"`
	SetsQty   string `json:"setsQty"   validate:"omitempty,max=50"`
	Notes     string `json:"notes"     validate:"omitempty,max=2000"`
}

type UpdateStatusResponse struct {
	Assignment StatusPortfolio `json:"assignment"`
	Rebuild    RebuildStats    `json:"rebuild"`
}

// OperationResponse is the wire shape of the rebuild-view and refresh-cache
// endpoints: a bare {success, message} object, kept stable for the dashboard.
type OperationResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Stats   *RebuildStats `json:"stats,omitempty"`
}

type CollectionsSummary struct {
	Countries        int       `json:"countries"`
	Procedures       int       `json:"procedures"`
	ProductTypes     int       `json:"productTypes"`
	Products         int       `json:"products"`
	Statuses         int       `json:"statuses"`
	StatusPortfolios int       `json:"statusPortfolios"`
	ViewEntries      int       `json:"viewEntries"`
	GeneratedAt      time.Time `json:"generatedAt"`
}
