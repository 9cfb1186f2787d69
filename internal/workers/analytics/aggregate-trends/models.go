// internal/workers/analytics/aggregate-trends/models.go
package aggregatetrends

import "rehab-workers/internal/models"

type Input struct {
	WorkerID string `json:"workerId"`
	Weeks    int    `json:"weeks,omitempty"`
}

// Trend is empty and Comparison nil when the underlying fetches fail; the
// report surface renders those sections as unavailable rather than erroring.
type Output struct {
	WorkerID   string                 `json:"workerId"`
	Trend      []models.TrendPoint    `json:"trend"`
	Comparison *models.WeekComparison `json:"comparison,omitempty"`
}
