// Package responses holds the Gin-facing response DTOs.
package responses

// ErrorResponse response lỗi với mã máy đọc được và thông điệp cho
// người dùng.
type ErrorResponse struct {
	Error     string      `json:"error"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// SuccessResponse response thành công dùng cho các thao tác ghi
// (upsert/delete voucher, start a re-embed job).
type SuccessResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// HealthCheckResponse response kiểm tra sức khỏe service.
type HealthCheckResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}

// StatsResponse response thống kê vận hành (cache hit rate, v.v.).
type StatsResponse struct {
	CacheHitRate  float64 `json:"cache_hit_rate"`
	TotalCached   int64   `json:"total_cached"`
	TotalRequests int64   `json:"total_requests"`
}

// ReembedJobResponse response xác nhận một job re-embed đã được tạo.
type ReembedJobResponse struct {
	JobID string `json:"job_id"`
	Total int    `json:"total"`
}
