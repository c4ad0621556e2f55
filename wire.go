//go:build wireinject

package main

import (
	"context"

	"mention2neo/ioc"
	"mention2neo/pkg/server"

	"github.com/google/wire"
)

func InitApp(ctx context.Context) (*server.HTTPServer, func(), error) {
	panic(wire.Build(
		ioc.InitConfig,
		ioc.InitLogger,
		ioc.InitSource,
		ioc.InitUploader,
		ioc.InitLinkRegistry,
		ioc.InitAppService,
		ioc.InitScheduler,
		ioc.InitIndexHandler,
		ioc.InitGinEngine,
		server.NewHTTPServer,
	))
}
