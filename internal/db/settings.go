package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ygriega/fernschreiber/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SettingsStorage persists simple scalar preferences, keyed by name. It
// replaces per-device settings files so preferences survive reinstalls.
type SettingsStorage struct {
	log          *slog.Logger
	settingsColl *mongo.Collection
}

type settingDoc struct {
	Key   string `bson:"key"`
	Value any    `bson:"value"`
}

func NewSettingsStorage(log *slog.Logger, cfg *config.Config, dbClient *mongo.Client) *SettingsStorage {
	return &SettingsStorage{
		log:          log,
		settingsColl: dbClient.Database(cfg.Mongo["db"]).Collection("settings"),
	}
}

func (s *SettingsStorage) Set(ctx context.Context, key string, value any) error {
	crit := bson.D{{Key: "key", Value: key}}
	update := bson.D{{Key: "$set", Value: settingDoc{Key: key, Value: value}}}
	t := true
	opts := &options.UpdateOptions{Upsert: &t}

	mctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err := s.settingsColl.UpdateOne(mctx, crit, update, opts)
	if err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}

	return nil
}

func (s *SettingsStorage) GetBool(ctx context.Context, key string, def bool) bool {
	mctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	crit := bson.D{{Key: "key", Value: key}}
	res := s.settingsColl.FindOne(mctx, crit)
	if res.Err() == mongo.ErrNoDocuments {
		return def
	} else if res.Err() != nil {
		s.log.Error("get setting", "key", key, "error", res.Err())

		return def
	}

	var doc settingDoc
	if err := res.Decode(&doc); err != nil {
		s.log.Error("decode setting", "key", key, "error", err)

		return def
	}
	if v, ok := doc.Value.(bool); ok {
		return v
	}

	return def
}

func (s *SettingsStorage) SetBool(ctx context.Context, key string, value bool) error {
	return s.Set(ctx, key, value)
}
