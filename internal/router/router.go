package router

import (
	"certlab/internal/handler"
	"certlab/pkg/jwt"
	"certlab/pkg/log"

	"github.com/spf13/viper"
)

type RouterDeps struct {
	Logger             *log.Logger
	Config             *viper.Viper
	JWT                *jwt.JWT
	LabInstanceHandler *handler.LabInstanceHandler
	UserQuotaHandler   *handler.UserQuotaHandler
	LabProviderHandler *handler.LabProviderHandler
	FleetReportHandler *handler.FleetReportHandler
}
