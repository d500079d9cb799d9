package screener

import "github.com/stockdesk/backend/internal/contracts"

// TotalPages returns ceil(total/pageSize); zero results means zero pages.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage forces a 1-based page index into the valid range. An empty
// result set still reports page 1 so the state shape stays stable.
func ClampPage(page, totalPages int) int {
	if page < 1 || totalPages == 0 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Page slices one 1-based page out of the sorted, filtered set. The slice
// aliases the input; callers treat pages as read-only.
func Page(results []contracts.EnrichedCandidate, page, pageSize int) []contracts.EnrichedCandidate {
	if pageSize <= 0 || len(results) == 0 {
		return nil
	}
	page = ClampPage(page, TotalPages(len(results), pageSize))
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(results) {
		end = len(results)
	}
	return results[start:end]
}
