package main

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lumeview/lumeview/config"
	"github.com/lumeview/lumeview/routes"
	"github.com/lumeview/lumeview/store"
	"github.com/lumeview/lumeview/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		utils.Sugar.Fatalf("open store: %v", err)
	}

	var rdb *redis.Client
	if cfg.GeoRedisEnabled {
		rdb = utils.GetRedis()
	}
	geo := utils.NewGeoResolver(cfg.GeoAPIBaseURL, time.Duration(cfg.GeoCacheTTLHrs)*time.Hour, rdb)

	r := routes.SetupRouter(st, geo)

	utils.Sugar.Infof("Starting collector on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
