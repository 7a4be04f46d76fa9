package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/civil"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-registry/config"
	appuser "github.com/oksasatya/user-registry/internal/application"
	"github.com/oksasatya/user-registry/internal/domain/entity"
	pginfra "github.com/oksasatya/user-registry/internal/infrastructure/postgres"
	"github.com/oksasatya/user-registry/pkg/helpers"
)

func demoUsers() []*entity.User {
	return []*entity.User{
		{
			Email:     &entity.Email{Email: "bobWinston@gmail.com"},
			FirstName: "Bob",
			LastName:  "Winston",
			Address:   &entity.Address{Country: "Ukraine", City: "Kiev", Street: "Shevchenko", House: "15A"},
			Phone:     &entity.Phone{Phone: "0672443456"},
			Birthdate: civil.Date{Year: 2002, Month: 12, Day: 31},
		},
		{
			Email:     &entity.Email{Email: "123@gmail.com"},
			FirstName: "Arturo",
			LastName:  "Roman",
			Address:   &entity.Address{Country: "Spain", City: "Madrid", Street: "Gran Via", House: "1"},
			Birthdate: civil.Date{Year: 2001, Month: 11, Day: 6},
		},
		{
			Email:     &entity.Email{Email: "maria.kovalenko@gmail.com"},
			FirstName: "Maria",
			LastName:  "Kovalenko",
			Phone:     &entity.Phone{Phone: "0501112233"},
			Birthdate: civil.Date{Year: 1990, Month: 5, Day: 17},
		},
	}
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.WithError(err).Error("seed failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{
		DSN:         cfg.PostgresDSN(),
		MaxConns:    2,
		MinConns:    1,
		MaxConnLife: cfg.DBMaxConnLife,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// Seeds go through the service so the age rule applies.
	svc := appuser.NewService(pginfra.NewUserRepository(pool), appuser.Config{MinAge: cfg.MinAge}, logger)
	for _, u := range demoUsers() {
		if err := svc.Validate(u); err != nil {
			logger.WithError(err).WithField("email", u.Email.Email).Warn("skipping invalid demo user")
			continue
		}
		err := svc.Save(ctx, u)
		switch {
		case errors.Is(err, appuser.ErrIneligibleAge):
			logger.WithField("email", u.Email.Email).Warn(err.Error())
		case err != nil:
			return fmt.Errorf("seed %s: %w", u.Email.Email, err)
		default:
			logger.WithFields(logrus.Fields{"id": u.ID, "email": u.Email.Email}).Info("seeded user")
		}
	}
	return nil
}
