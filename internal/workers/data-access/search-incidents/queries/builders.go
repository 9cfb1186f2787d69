package queries

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ErrMissingIndex = errors.New("index name is required")

// IncidentSearch describes a search over the incident index.
type IncidentSearch struct {
	Index      string
	Filters    map[string]interface{}
	WorkerID   string
	Severity   string
	Pagination struct {
		From int
		Size int
	}
}

// BuildQuery builds an Elasticsearch search request over the incident index.
func BuildQuery(is IncidentSearch) (*esapi.SearchRequest, error) {
	if is.Index == "" {
		return nil, ErrMissingIndex
	}

	queryBody := buildIncidentSearchQuery(is)

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index:  []string{is.Index},
		Body:   strings.NewReader(string(body)),
		From:   &is.Pagination.From,
		Size:   &is.Pagination.Size,
		Pretty: true,
	}

	return &req, nil
}

// BuildQueryBody exposes the raw query body for inspection.
func BuildQueryBody(is IncidentSearch) map[string]interface{} {
	return buildIncidentSearchQuery(is)
}

func buildIncidentSearchQuery(is IncidentSearch) map[string]interface{} {
	boolQuery := make(map[string]interface{})
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	// Keyword search across the free-text incident fields
	if keywords, ok := is.Filters["keywords"].(string); ok && keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keywords,
				"fields": []string{"description^2", "location", "case_number"},
				"type":   "best_fields",
			},
		})
	}

	// Severity filter
	if severity, ok := is.Filters["severity"].(string); ok && severity != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"severity": severity},
		})
	} else if is.Severity != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"severity": is.Severity},
		})
	}

	// Worker filter
	if is.WorkerID != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"worker_id": is.WorkerID},
		})
	}

	// Date range filter on occurred_at
	if dateRange, ok := is.Filters["dateRange"].(map[string]interface{}); ok {
		rangeClause := map[string]interface{}{}
		if from, ok := dateRange["from"].(string); ok && from != "" {
			rangeClause["gte"] = from
		}
		if to, ok := dateRange["to"].(string); ok && to != "" {
			rangeClause["lte"] = to
		}
		if len(rangeClause) > 0 {
			filterClauses = append(filterClauses, map[string]interface{}{
				"range": map[string]interface{}{"occurred_at": rangeClause},
			})
		}
	}

	// Case status filter
	if statuses, ok := is.Filters["statuses"].([]interface{}); ok && len(statuses) > 0 {
		terms := make([]string, 0, len(statuses))
		for _, st := range statuses {
			if s, ok := st.(string); ok {
				terms = append(terms, s)
			}
		}
		if len(terms) > 0 {
			filterClauses = append(filterClauses, map[string]interface{}{
				"terms": map[string]interface{}{"case_status": terms},
			})
		}
	}

	// Default match_all if no keyword
	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery["must"] = mustClauses
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}

	// Sorting logic
	if sortBy, ok := is.Filters["sortBy"].(string); ok {
		switch sortBy {
		case "occurred_at":
			query["sort"] = []map[string]interface{}{{"occurred_at": "desc"}}
		case "severity":
			query["sort"] = []map[string]interface{}{{"severity": "asc"}}
		}
	}

	return query
}
