package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-registry/config"
	"github.com/oksasatya/user-registry/internal/domain/repository"
	"github.com/oksasatya/user-registry/pkg/helpers"
)

// app-level container to share constructed components across packages.
// Router wires modules from these singletons; nil means "not configured".

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	rabbitPub   *helpers.RabbitPublisher
	esClient    *elasticsearch.Client
	userRepo    repository.UserRepository
)

func SetConfig(c *config.Config)                    { cfg = c }
func GetConfig() *config.Config                     { return cfg }
func SetLogger(l *logrus.Logger)                    { logger = l }
func GetLogger() *logrus.Logger                     { return logger }
func SetPGPool(p *pgxpool.Pool)                     { pgPool = p }
func GetPGPool() *pgxpool.Pool                      { return pgPool }
func SetRedis(r *redis.Client)                      { redisClient = r }
func GetRedis() *redis.Client                       { return redisClient }
func SetRabbitPub(p *helpers.RabbitPublisher)       { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher        { return rabbitPub }
func SetES(c *elasticsearch.Client)                 { esClient = c }
func GetES() *elasticsearch.Client                  { return esClient }
func SetUserRepository(r repository.UserRepository) { userRepo = r }
func GetUserRepository() repository.UserRepository  { return userRepo }

// Reset clears every singleton.
func Reset() {
	cfg, logger, pgPool, redisClient, rabbitPub, esClient, userRepo = nil, nil, nil, nil, nil, nil, nil
}
