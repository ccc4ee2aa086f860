// marciomma | 2026
// view.go

package portfolio

// RebuildStats reports what a view rebuild produced and what it had to
// leave out. Skipped counts are informational: dangling references never
// abort a rebuild.
type RebuildStats struct {
	Entries         int `json:"entries"`
	SkippedProducts int `json:"skippedProducts"`
	SkippedRows     int `json:"skippedRows"`
}

// buildStatusView joins the five base collections into the denormalized
// view the dashboard reads. Products keep their stored order. A product
// whose procedure or product type cannot be resolved is skipped and
// counted; so is a status row whose country or status cannot be resolved.
// When several rows exist for one (product, country) pair, the last stored
// row wins.
func buildStatusView(
	products []Product,
	procedures []Procedure,
	productTypes []ProductType,
	countries []Country,
	statuses []Status,
	rows []StatusPortfolio,
) ([]StatusViewEntry, RebuildStats) {
	proceduresByID := make(map[string]Procedure, len(procedures))
	for _, p := range procedures {
		proceduresByID[p.ID] = p
	}

	typesByID := make(map[string]ProductType, len(productTypes))
	for _, t := range productTypes {
		typesByID[t.ID] = t
	}

	countriesByID := make(map[string]Country, len(countries))
	for _, c := range countries {
		countriesByID[c.ID] = c
	}

	statusesByID := make(map[string]Status, len(statuses))
	for _, s := range statuses {
		statusesByID[s.ID] = s
	}

	rowsByProduct := make(map[string][]StatusPortfolio, len(products))
	for _, row := range rows {
		rowsByProduct[row.ProductID] = append(rowsByProduct[row.ProductID], row)
	}

	var stats RebuildStats
	entries := make([]StatusViewEntry, 0, len(products))

	for _, product := range products {
		procedure, ok := proceduresByID[product.ProcedureID]
		if !ok {
			stats.SkippedProducts++
			continue
		}

		productType, ok := typesByID[product.ProductTypeID]
		if !ok {
			stats.SkippedProducts++
			continue
		}

		entry := StatusViewEntry{
			ProductID:        product.ID,
			ProductName:      product.Name,
			ProductType:      productType.Name,
			Procedure:        procedure.Name,
			ProductTier:      product.ProductTier,
			ProductLifeCycle: product.ProductLifeCycle,
			CountryStatuses:  []CountryStatus{},
		}

		// Resolve rows keyed by country; a later duplicate replaces the
		// earlier cell in place to keep first-seen country order.
		cellIndex := make(map[string]int)
		for _, row := range rowsByProduct[product.ID] {
			country, ok := countriesByID[row.CountryID]
			if !ok {
				stats.SkippedRows++
				continue
			}

			status, ok := statusesByID[row.StatusID]
			if !ok {
				stats.SkippedRows++
				continue
			}

			cell := CountryStatus{
				CountryID:   country.ID,
				CountryName: country.Name,
				CountryCode: country.Code,
				StatusID:    status.ID,
				StatusCode:  status.Code,
				StatusName:  status.Name,
				StatusColor: status.Color,
				SetsQty:     row.SetsQty,
				LastUpdated: row.LastUpdated,
			}

			if idx, seen := cellIndex[country.ID]; seen {
				entry.CountryStatuses[idx] = cell
				continue
			}

			cellIndex[country.ID] = len(entry.CountryStatuses)
			entry.CountryStatuses = append(entry.CountryStatuses, cell)
		}

		entries = append(entries, entry)
	}

	stats.Entries = len(entries)
	return entries, stats
}

// filterViewByCountry narrows every entry's countryStatuses to one country.
// Entries whose filtered list becomes empty are kept; callers that want
// only products present in the country must filter those out themselves.
func filterViewByCountry(
	entries []StatusViewEntry,
	countryID string,
) []StatusViewEntry {
	filtered := make([]StatusViewEntry, 0, len(entries))

	for _, entry := range entries {
		kept := make([]CountryStatus, 0, 1)
		for _, cell := range entry.CountryStatuses {
			if cell.CountryID == countryID {
				kept = append(kept, cell)
			}
		}

		entry.CountryStatuses = kept
		filtered = append(filtered, entry)
	}

	return filtered
}
