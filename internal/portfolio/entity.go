// marciomma | 2026
// entity.go

package portfolio

import (
	"time"
)

type Country struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	HasTiers      bool   `json:"hasTiers"`
	NumberOfTiers int    `json:"numberOfTiers"`
	IsActive      bool   `json:"isActive"`
}

type Procedure struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`
}

type ProductType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`
}

const (
	TierOne = "Tier 1"
	TierTwo = "Tier 2"
)

const (
	LifeCycleMaintain    = "Maintain"
	LifeCycleFlagship    = "Flagship"
	LifeCycleDeEmphasize = "De-emphasize"
)

type Product struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ProductTypeID    string `json:"productTypeId"`
	ProcedureID      string `json:"procedureId"`
	ProductTier      string `json:"productTier"`
	ProductLifeCycle string `json:"productLifeCycle"`
	IsActive         bool   `json:"isActive"`
}

type Status struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	IsActive bool   `json:"isActive"`
}

// StatusPortfolio assigns one status to one (product, country) pair. The
// store does not enforce uniqueness of the pair; the view builder resolves
// duplicates by letting the last stored row win.
type StatusPortfolio struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	CountryID   string    `json:"countryId"`
	StatusID    string    `json:"statusId"`
	SetsQty     string    `json:"setsQty,omitempty"`
	LastUpdated time.Time `json:"lastUpdated"`
	UpdatedBy   string    `json:"updatedBy,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// CountryStatus is one denormalized status cell of the dashboard grid.
type CountryStatus struct {
	CountryID   string    `json:"countryId"`
	CountryName string    `json:"countryName"`
	CountryCode string    `json:"countryCode"`
	StatusID    string    `json:"statusId"`
	StatusCode  string    `json:"statusCode"`
	StatusName  string    `json:"statusName"`
	StatusColor string    `json:"statusColor"`
	SetsQty     string    `json:"setsQty,omitempty"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// StatusViewEntry is derived state. It is never edited directly, only
// rebuilt from the base collections.
type StatusViewEntry struct {
	ProductID        string          `json:"productId"`
	ProductName      string          `json:"productName"`
	ProductType      string          `json:"productType"`
	Procedure        string          `json:"procedure"`
	ProductTier      string          `json:"productTier"`
	ProductLifeCycle string          `json:"productLifeCycle"`
	CountryStatuses  []CountryStatus `json:"countryStatuses"`
}
