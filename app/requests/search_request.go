// Package requests holds the Gin-facing request DTOs.
package requests

import "github.com/vnvoucher/discovery/app/models"

// SearchRequest request tìm kiếm voucher.
type SearchRequest struct {
	Query          string         `json:"query" binding:"required"`
	Mode           string         `json:"mode,omitempty"`
	TopK           int            `json:"top_k,omitempty"`
	Filters        models.Filters `json:"filters,omitempty"`
	StrictLocation bool           `json:"strict_location,omitempty"`
	MinScore       float64        `json:"min_score,omitempty"`
}

// ToModel converts the wire request into the façade's request shape.
func (r SearchRequest) ToModel() models.SearchRequest {
	return models.SearchRequest{
		Query:          r.Query,
		Mode:           r.Mode,
		TopK:           r.TopK,
		Filters:        r.Filters,
		StrictLocation: r.StrictLocation,
		MinScore:       r.MinScore,
	}
}

// UpsertVoucherRequest request ghi/cập nhật một voucher (whole-document
// upsert theo id).
type UpsertVoucherRequest struct {
	Voucher models.Voucher `json:"voucher" binding:"required"`
}

// ReembedRequest request khởi chạy job re-embed cho một tập voucher.
type ReembedRequest struct {
	Vouchers []models.Voucher `json:"vouchers" binding:"required,min=1"`
}
