package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vnvoucher/discovery/app/models"
	"github.com/vnvoucher/discovery/app/requests"
	"github.com/vnvoucher/discovery/app/responses"
	"github.com/vnvoucher/discovery/helpers/utils"
	"github.com/vnvoucher/discovery/internal/facade"
	"github.com/vnvoucher/discovery/internal/reembed"
	"github.com/vnvoucher/discovery/internal/store"
	"go.uber.org/zap"
)

// SearchController is the thin Gin edge: decode a request, call the
// façade or store, encode the response. It carries none of the
// pipeline's logic itself.
type SearchController struct {
	facade    *facade.Facade
	store     *store.Store
	reembed   *reembed.Job
	startedAt time.Time
	logger    *zap.Logger
}

func NewSearchController(f *facade.Facade, s *store.Store, rj *reembed.Job, logger *zap.Logger) *SearchController {
	return &SearchController{facade: f, store: s, reembed: rj, startedAt: time.Now(), logger: logger}
}

// Search xử lý POST /v1/search.
func (sc *SearchController) Search(c *gin.Context) {
	var req requests.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:     string(models.CodeBadRequest),
			Message:   "request không hợp lệ: " + err.Error(),
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	resp, err := sc.facade.Search(c.Request.Context(), req.ToModel())
	if err != nil {
		sc.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpsertVoucher xử lý PUT /v1/vouchers/:id.
func (sc *SearchController) UpsertVoucher(c *gin.Context) {
	var req requests.UpsertVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:     string(models.CodeBadRequest),
			Message:   "request không hợp lệ: " + err.Error(),
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	if id := c.Param("id"); id != "" {
		req.Voucher.ID = id
	}

	if err := sc.store.Upsert(c.Request.Context(), req.Voucher); err != nil {
		sc.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success:   true,
		Message:   "voucher đã được lưu",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// DeleteVoucher xử lý DELETE /v1/vouchers/:id.
func (sc *SearchController) DeleteVoucher(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:     string(models.CodeBadRequest),
			Message:   "thiếu voucher id",
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	if err := sc.store.Delete(c.Request.Context(), id); err != nil {
		sc.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success:   true,
		Message:   "voucher đã được xoá",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// ReembedVouchers xử lý POST /v1/admin/reembed: khởi chạy một job
// re-embed nền cho tập voucher được chỉ định.
func (sc *SearchController) ReembedVouchers(c *gin.Context) {
	var req requests.ReembedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:     string(models.CodeBadRequest),
			Message:   "request không hợp lệ: " + err.Error(),
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	jobID := utils.GenerateUUID()
	sc.reembed.Start(jobID, req.Vouchers)

	c.JSON(http.StatusAccepted, responses.SuccessResponse{
		Success:   true,
		Message:   "job re-embed đã được tạo",
		Data:      responses.ReembedJobResponse{JobID: jobID, Total: len(req.Vouchers)},
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// ReembedJobStatus xử lý GET /v1/admin/reembed/:jobID.
func (sc *SearchController) ReembedJobStatus(c *gin.Context) {
	jobID := c.Param("jobID")
	status, ok := sc.reembed.Status(jobID)
	if !ok {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:     "JOB_NOT_FOUND",
			Message:   "không tìm thấy job: " + jobID,
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}
	c.JSON(http.StatusOK, status)
}

// HealthCheck xử lý GET /health.
func (sc *SearchController) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(sc.startedAt).String(),
		Version:   "1.0.0",
		Services: map[string]string{
			"facade": "healthy",
		},
	})
}

// Stats xử lý GET /v1/admin/stats.
func (sc *SearchController) Stats(c *gin.Context) {
	stats := sc.facade.Stats(c.Request.Context())
	resp := responses.StatsResponse{}
	if stats.CacheStats != nil {
		resp.CacheHitRate = stats.CacheStats.HitRate
		resp.TotalCached = stats.CacheStats.TotalItems
		resp.TotalRequests = stats.CacheStats.TotalHits + stats.CacheStats.TotalMiss
	}
	c.JSON(http.StatusOK, resp)
}

func (sc *SearchController) writeError(c *gin.Context, err error) {
	var modelErr *models.Error
	if !errors.As(err, &modelErr) {
		sc.logger.Error("unexpected error from facade", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:     "INTERNAL_ERROR",
			Message:   err.Error(),
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	c.JSON(statusForCode(modelErr.Code), responses.ErrorResponse{
		Error:     string(modelErr.Code),
		Message:   modelErr.Message,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func statusForCode(code models.Code) int {
	switch code {
	case models.CodeBadRequest, models.CodeInvalidDocument:
		return http.StatusBadRequest
	case models.CodeDeadlineExceeded:
		return http.StatusGatewayTimeout
	case models.CodeOverloaded:
		return http.StatusTooManyRequests
	case models.CodeEmbeddingUnavailable, models.CodeIndexUnavailable, models.CodeGeneratorUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
