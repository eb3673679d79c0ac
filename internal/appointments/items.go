package appointments

import "github.com/google/uuid"

// ValidateItems checks requested service items against the read-only
// catalog rows. It fails fast: the first violation wins. Pure; never
// touches storage.
func ValidateItems(items []Item, catalog []CatalogEntry) error {
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.ServiceID]; dup {
			return &ValidationError{Code: CodeDuplicateService, ServiceID: item.ServiceID}
		}
		seen[item.ServiceID] = struct{}{}

		entry, ok := findEntry(catalog, item.ServiceID)
		if !ok {
			return &ValidationError{Code: CodeUnknownService, ServiceID: item.ServiceID}
		}

		if item.Kind == KindRedeemed && entry.PointsRequired == nil {
			return &ValidationError{Code: CodeNonRedeemable, ServiceID: item.ServiceID}
		}
	}
	return nil
}

// ComputeTotals sums the award tariffs of purchased items and the
// redemption costs of redeemed items. Exact integer arithmetic, no
// rounding. Items without a catalog row are skipped; a redeemed item with
// no cost counts as zero (ValidateItems rejects both cases up front).
func ComputeTotals(items []Item, catalog []CatalogEntry) Totals {
	var totals Totals
	for _, item := range items {
		entry, ok := findEntry(catalog, item.ServiceID)
		if !ok {
			continue
		}
		if item.Kind == KindPurchased {
			totals.PointsEarned += entry.PointsAwarded
		} else if entry.PointsRequired != nil {
			totals.PointsSpent += *entry.PointsRequired
		}
	}
	return totals
}

func findEntry(catalog []CatalogEntry, id uuid.UUID) (CatalogEntry, bool) {
	for _, entry := range catalog {
		if entry.ID == id {
			return entry, true
		}
	}
	return CatalogEntry{}, false
}
