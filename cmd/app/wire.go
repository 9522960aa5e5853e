//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/opsdash/internal/bootstrap"
	"github.com/yanqian/opsdash/internal/infra/config"
	httpiface "github.com/yanqian/opsdash/internal/interface/http"
	"github.com/yanqian/opsdash/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		providePool,
		provideStores,
		provideValkeyClient,
		provideStatsCache,
		provideWeatherCache,
		provideSysStatsService,
		provideWeatherService,
		provideNotifyService,
		provideReportSink,
		provideRetentionService,
		provideAuthorizer,
		provideScheduler,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
