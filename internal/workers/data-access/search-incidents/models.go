// internal/workers/data-access/search-incidents/models.go
package searchincidents

type Input struct {
	IndexName  string                 `json:"indexName"`
	Filters    map[string]interface{} `json:"filters"`
	WorkerID   string                 `json:"workerId,omitempty"`
	Severity   string                 `json:"severity,omitempty"`
	Pagination Pagination             `json:"pagination"`
}

type Pagination struct {
	From int `json:"from"`
	Size int `json:"size"`
}

type Output struct {
	Data      []map[string]interface{} `json:"data"`
	TotalHits int64                    `json:"totalHits"`
	MaxScore  float64                  `json:"maxScore"`
	Took      int64                    `json:"took"` // milliseconds
}
