package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/urbanops/dataqual/pkg/errors"
	"github.com/urbanops/dataqual/pkg/models"
)

// RedisStoreConfig holds connection and retention settings
type RedisStoreConfig struct {
	Address   string
	Password  string
	DB        int
	TTL       time.Duration
	KeyPrefix string
}

// RedisStore persists reports in Redis so several instances share history
type RedisStore struct {
	client *redis.Client
	config RedisStoreConfig
	logger *logrus.Logger
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(config RedisStoreConfig, logger *logrus.Logger) (*RedisStore, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "dataqual"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeConnectionFailed,
			"failed to connect to redis")
	}

	logger.WithFields(logrus.Fields{
		"address": config.Address,
		"db":      config.DB,
	}).Info("Connected to redis report store")

	return &RedisStore{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

func (s *RedisStore) Save(ctx context.Context, report *models.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeInternal, errors.CodeWriteFailed,
			"failed to encode report")
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.reportKey(report.ID), payload, s.config.TTL)
	pipe.Set(ctx, s.latestKey(), report.ID, s.config.TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeWriteFailed,
			"failed to store report")
	}
	return nil
}

func (s *RedisStore) Latest(ctx context.Context) (*models.Report, error) {
	id, err := s.client.Get(ctx, s.latestKey()).Result()
	if err == redis.Nil {
		return nil, errors.NewStorageError(errors.CodeReportNotFound, "no reports stored yet")
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeReadFailed,
			"failed to read latest report id")
	}
	return s.Get(ctx, id)
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Report, error) {
	payload, err := s.client.Get(ctx, s.reportKey(id)).Bytes()
	if err == redis.Nil {
		return nil, errors.NewStorageError(errors.CodeReportNotFound, "report not found: "+id)
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeReadFailed,
			"failed to read report")
	}

	var report models.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, errors.CodeReadFailed,
			"failed to decode stored report")
	}
	return &report, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) reportKey(id string) string {
	return fmt.Sprintf("%s:report:%s", s.config.KeyPrefix, id)
}

func (s *RedisStore) latestKey() string {
	return fmt.Sprintf("%s:report:latest", s.config.KeyPrefix)
}
