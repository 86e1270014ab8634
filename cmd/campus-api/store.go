package main

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/MikeMC777/campus-eats/internal/config"
	"github.com/MikeMC777/campus-eats/internal/order"
	"github.com/MikeMC777/campus-eats/internal/review"
	"github.com/MikeMC777/campus-eats/internal/stall"
	"github.com/MikeMC777/campus-eats/internal/store/memory"
	"github.com/MikeMC777/campus-eats/internal/store/mongo"
	"github.com/MikeMC777/campus-eats/internal/store/postgres"
	"github.com/MikeMC777/campus-eats/internal/student"
)

// repos is the selected backend behind the four repository interfaces.
type repos struct {
	students student.Repository
	stalls   stall.Repository
	orders   order.Repository
	reviews  review.Repository
	ping     func(ctx context.Context) error
	close    func(ctx context.Context)
}

func memoryRepos() repos {
	db := memory.New()
	return repos{
		students: db.Students(),
		stalls:   db.Stalls(),
		orders:   db.Orders(),
		reviews:  db.Reviews(),
		ping:     func(context.Context) error { return nil },
		close:    func(context.Context) {},
	}
}

func openStore(ctx context.Context, cfg config.Config) (repos, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn("[store] using in-memory store, data is lost on exit")
		return memoryRepos(), nil

	case config.DriverPostgres:
		s, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.StoreTimeout)
		if err != nil {
			return repos{}, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return repos{}, err
		}
		log.Info("[store] postgres connected")
		return repos{
			students: s.Students(),
			stalls:   s.Stalls(),
			orders:   s.Orders(),
			reviews:  s.Reviews(),
			ping:     s.Ping,
			close:    func(context.Context) { s.Close() },
		}, nil

	case config.DriverMongo:
		s, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDB, cfg.StoreTimeout)
		if err != nil {
			return repos{}, err
		}
		log.WithField("db", cfg.MongoDB).Info("[store] mongo connected")
		return repos{
			students: s.Students(),
			stalls:   s.Stalls(),
			orders:   s.Orders(),
			reviews:  s.Reviews(),
			ping:     s.Ping,
			close: func(ctx context.Context) {
				if err := s.Close(ctx); err != nil {
					log.WithError(err).Warn("[store] mongo disconnect")
				}
			},
		}, nil
	}
	return repos{}, errors.Errorf("unknown store driver %q", cfg.StoreDriver)
}
