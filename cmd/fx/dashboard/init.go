package dashboard

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"practicelog/internal/gateway"
	"practicelog/internal/repositories"
	"practicelog/internal/services"
)

var Module = fx.Provide(
	services.NewLogbookService, services.NewDashboardService, providePracticeRepo, provideExportService,
)

func provideExportService(logbook services.LogbookServiceInterface, practices repositories.PracticeRepository, logger *zap.Logger) services.ExportServiceInterface {
	return services.NewExportService(logbook, practices, logger.Named("export"))
}

func providePracticeRepo(gw gateway.Gateway) repositories.PracticeRepository {
	return repositories.NewPracticeRepository(gw)
}
