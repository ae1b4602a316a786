// Command seed bootstraps the voucher index schema and loads a small
// fixture set through the regular write path, computing embeddings on
// the way in.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/vnvoucher/discovery/app/config"
	"github.com/vnvoucher/discovery/app/models"
	"github.com/vnvoucher/discovery/internal/embedding"
	"github.com/vnvoucher/discovery/internal/index"
	"github.com/vnvoucher/discovery/internal/location"
	"github.com/vnvoucher/discovery/internal/store"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatal("không thể đọc config: ", err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	meiliIndex, err := index.NewMeiliIndex(cfg.Meilisearch.Host, cfg.Meilisearch.APIKey, cfg.Meilisearch.IndexName, logger)
	if err != nil {
		log.Fatal("không thể kết nối meilisearch: ", err)
	}

	fmt.Println("đang cấu hình voucher index...")
	if err := meiliIndex.EnsureSchema(context.Background()); err != nil {
		log.Fatal("lỗi cấu hình index: ", err)
	}

	embedBase := os.Getenv("EMBEDDING_SERVICE_URL")
	if embedBase == "" {
		embedBase = "http://localhost:9000"
	}
	embedProvider := embedding.NewHTTPProvider(embedBase, cfg.EmbeddingDimension, cfg.Timeouts.Embedding, logger)

	registry := location.New(location.DefaultEntries())
	voucherStore := store.New(meiliIndex, embedProvider, registry, logger)

	fmt.Println("đang seed dữ liệu mẫu...")
	written, err := voucherStore.UpsertBatch(context.Background(), sampleVouchers())
	if err != nil {
		log.Fatal("lỗi seed dữ liệu: ", err)
	}

	fmt.Printf("hoàn thành, đã seed %d vouchers\n", written)
}

func sampleVouchers() []models.Voucher {
	price1 := 150000.0
	price2 := 850000.0
	return []models.Voucher{
		{
			ID:       "v-001",
			Name:     "Giảm 20% nhà hàng hải sản Hạ Long",
			Content:  "Voucher giảm giá 20% cho các món hải sản tươi sống tại nhà hàng trung tâm Hải Phòng, phù hợp cho gia đình có trẻ nhỏ.",
			Location: "Hải Phòng",
			Service: models.Service{
				Category:    "restaurant",
				Tags:        []string{"hai_san", "gia_dinh"},
				HasKidsArea: true,
			},
			TargetAudience: "family",
			Price:          &price1,
		},
		{
			ID:       "v-002",
			Name:     "Ưu đãi phòng nghỉ dưỡng Đà Nẵng",
			Content:  "Combo nghỉ dưỡng 2 ngày 1 đêm tại khách sạn ven biển Đà Nẵng, bao gồm ăn sáng và hồ bơi.",
			Location: "Đà Nẵng",
			Service: models.Service{
				Category: "hotel",
				Tags:     []string{"nghi_duong", "bien"},
			},
			TargetAudience: "couple",
			Price:          &price2,
		},
	}
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config/discovery.yaml"
}
