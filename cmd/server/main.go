package main

import (
	"github.com/pixelpulse/internal/agent"
	"github.com/pixelpulse/internal/badge"
	"github.com/pixelpulse/internal/config"
	"github.com/pixelpulse/internal/db"
	"github.com/pixelpulse/internal/geo"
	"github.com/pixelpulse/internal/handler"
	"github.com/pixelpulse/internal/logging"
	"github.com/pixelpulse/internal/router"
	"github.com/pixelpulse/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	log := logging.Setup(cfg.LogLevel)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	resolver := buildResolver(cfg, log)
	defer resolver.Close()

	visits := service.NewVisitService(db.DB)
	ingest := service.NewIngestService(visits, resolver, agent.UAClassifier{}, cfg.IPSalt, cfg.IngestWorkers, cfg.IngestQueueSize, log)
	// 服务停止接收请求后再排空登记队列
	defer ingest.Close()

	api := handler.NewAPI(
		ingest,
		visits,
		service.NewStatsService(visits),
		service.NewAnalyticsService(visits),
		badge.NewLogoCache(log),
		log,
	)

	r := router.SetupRouter(api, cfg, log)
	log.WithField("addr", cfg.ListenAddr).Info("pixelpulse started")
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}

// buildResolver 在配置了 GeoLite2 数据库时启用地理解析，否则降级为空实现。
func buildResolver(cfg config.AppConfig, log *logrus.Logger) geo.Resolver {
	if cfg.GeoIPDBPath == "" {
		log.Warn("GEOIP_DB_PATH not set, geo resolution disabled")
		return geo.NoopResolver{}
	}

	resolver, err := geo.Open(cfg.GeoIPDBPath)
	if err != nil {
		log.WithError(err).Warn("failed to open GeoIP database, geo resolution disabled")
		return geo.NoopResolver{}
	}
	return resolver
}
