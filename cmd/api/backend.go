package main

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Werneck0live/empresas-obrigacoes/internal/config"
	"github.com/Werneck0live/empresas-obrigacoes/internal/db"
	"github.com/Werneck0live/empresas-obrigacoes/internal/handlers"
	"github.com/Werneck0live/empresas-obrigacoes/internal/repository"
	"github.com/Werneck0live/empresas-obrigacoes/internal/repository/mongorepo"
)

type companyStore interface {
	handlers.CompanyStore
	handlers.Pinger
}

// backend é o par de repositórios do driver configurado, com a criação do
// schema e o fechamento da conexão.
type backend struct {
	companies   companyStore
	obligations handlers.ObligationStore
	migrate     func(ctx context.Context) error
	close       func()
}

func openBackend(cfg *config.Config, log *slog.Logger) (*backend, error) {
	switch cfg.DBDriver {
	case db.DriverMongo:
		client, err := db.NewMongoClient(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		return mongoBackend(client, cfg), nil

	default:
		gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DatabaseURL, cfg.Pool, log)
		if err != nil {
			return nil, fmt.Errorf("%s connect: %w", cfg.DBDriver, err)
		}
		return &backend{
			companies:   repository.NewCompanyRepository(gdb, cfg.DeletePolicy),
			obligations: repository.NewObligationRepository(gdb),
			migrate:     func(context.Context) error { return db.Migrate(gdb) },
			close:       func() { _ = db.CloseGorm(gdb) },
		}, nil
	}
}

func mongoBackend(client *mongo.Client, cfg *config.Config) *backend {
	database := client.Database(cfg.MongoDB)
	companies := mongorepo.NewCompanyRepository(database, cfg.DeletePolicy)
	obligations := mongorepo.NewObligationRepository(database)
	return &backend{
		companies:   companies,
		obligations: obligations,
		migrate: func(ctx context.Context) error {
			if err := companies.EnsureIndexes(ctx); err != nil {
				return err
			}
			return obligations.EnsureIndexes(ctx)
		},
		close: func() { _ = client.Disconnect(context.Background()) },
	}
}
