package samples

// AggregateMetrics is the windowed view served to monitoring dashboards.
type AggregateMetrics struct {
	UptimeSeconds int64              `json:"uptimeSeconds"`
	Errors        ErrorMetrics       `json:"errors"`
	Warnings      WindowCounts       `json:"warnings"`
	Requests      RequestMetrics     `json:"requests"`
	Performance   PerformanceMetrics `json:"performance"`
}

type WindowCounts struct {
	LastHour int `json:"lastHour"`
	LastDay  int `json:"lastDay"`
}

type ErrorMetrics struct {
	LastHour int      `json:"lastHour"`
	LastDay  int      `json:"lastDay"`
	Recent   []Sample `json:"recent"`
}

type RequestMetrics struct {
	LastHour int `json:"lastHour"`
	// ErrorRate is error records per hundred requests over the last hour; 0
	// without requests. A failed request usually contributes more than one
	// error record, so the rate can exceed 100.
	ErrorRate float64 `json:"errorRate"`
	// AvgResponseTime is the mean durationMs of requests in the last hour.
	AvgResponseTime float64 `json:"avgResponseTime"`
}

type PerformanceMetrics struct {
	SlowOperations []Sample `json:"slowOperations"`
}
