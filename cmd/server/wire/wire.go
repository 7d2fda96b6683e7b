//go:build wireinject
// +build wireinject

package wire

import (
	"certlab/internal/handler"
	"certlab/internal/repository"
	"certlab/internal/router"
	"certlab/internal/server"
	"certlab/internal/service"
	"certlab/pkg/app"
	"certlab/pkg/jwt"
	"certlab/pkg/log"
	"certlab/pkg/server/http"
	"certlab/pkg/sid"

	"github.com/google/wire"
	"github.com/spf13/viper"
)

var repositorySet = wire.NewSet(
	repository.NewDB,
	repository.NewRepository,
	repository.NewTransaction,
	repository.NewLabInstanceRepository,
	repository.NewUserQuotaRepository,
	repository.NewLabProviderRepository,
)

var serviceSet = wire.NewSet(
	service.NewService,
	service.NewStarter,
	service.NewUserQuotaService,
	service.NewLabProviderService,
	service.NewLabInstanceService,
	service.NewLabConsoleService,
	service.NewFleetReportService,
)

var handlerSet = wire.NewSet(
	handler.NewHandler,
	handler.NewLabInstanceHandler,
	handler.NewUserQuotaHandler,
	handler.NewLabProviderHandler,
	handler.NewFleetReportHandler,
)

var serverSet = wire.NewSet(
	server.NewHTTPServer,
	server.NewJobServer,
)

// build App
func newApp(
	httpServer *http.Server,
	jobServer *server.JobServer,
) *app.App {
	return app.NewApp(
		app.WithServer(httpServer, jobServer),
		app.WithName("certlab-server"),
	)
}

func NewWire(*viper.Viper, *log.Logger) (*app.App, func(), error) {
	panic(wire.Build(
		repositorySet,
		serviceSet,
		handlerSet,
		serverSet,
		wire.Struct(new(router.RouterDeps), "*"),
		sid.NewSid,
		jwt.NewJwt,
		newApp,
	))
}
