package main

import (
	"github.com/spf13/cobra"

	"fleetbook/internal/conflicts/handler"
	"fleetbook/internal/conflicts/repository"
	"fleetbook/internal/conflicts/service"
	"fleetbook/internal/conflicts/validator"
	"fleetbook/pkg/app"
	"fleetbook/pkg/config"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the conflict HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load(ServiceName)
			cfg.SetStore()
			defer cfg.GracefulShutdown()

			store := repository.NewStore(cfg)
			conflictService := service.NewConflictService(store, cfg)
			conflictValidator := validator.NewConflictValidator(cfg.Log, cfg.MaxBatchCandidates)
			cfg.Log.Info("Conflict service initialized", "store_driver", cfg.StoreDriver)

			serverApp := app.NewApplication(cfg)
			serverApp.SetApp(
				handler.NewHealthHandler(store, cfg.StoreDriver, cfg.Log),
				handler.NewConflictHandler(conflictService, conflictValidator, store, cfg),
			)
			return serverApp.Run(cmd.Context())
		},
	}
}
