package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/vnvoucher/discovery/app/controllers"
)

// SetupAPIRoutes thiết lập các route /v1 cho tìm kiếm voucher và quản trị.
func SetupAPIRoutes(router *gin.Engine, sc *controllers.SearchController) {
	v1 := router.Group("/v1")
	{
		v1.POST("/search", sc.Search)

		vouchers := v1.Group("/vouchers")
		{
			vouchers.PUT("/:id", sc.UpsertVoucher)
			vouchers.DELETE("/:id", sc.DeleteVoucher)
		}

		admin := v1.Group("/admin")
		{
			admin.GET("/stats", sc.Stats)
			admin.POST("/reembed", sc.ReembedVouchers)
			admin.GET("/reembed/:jobID", sc.ReembedJobStatus)
		}
	}
}
