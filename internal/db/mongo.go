package db

import (
	"context"
	"time"

	"gamerec/internal/config"
	"gamerec/internal/logging"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var mongoClient *mongo.Client
var mongoDB *mongo.Database

func InitMongo(cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logging.Fatal().Err(err).Msg("[mongo] connect failed")
	}

	if err := client.Ping(ctx, nil); err != nil {
		logging.Fatal().Err(err).Msg("[mongo] ping failed")
	}

	mongoClient = client
	mongoDB = client.Database(cfg.MongoDB)
	logging.Info().Str("db", cfg.MongoDB).Msg("[mongo] connected")
}

func DB() *mongo.Database {
	return mongoDB
}

// Close disconnects the client opened by InitMongo.
func Close(ctx context.Context) error {
	if mongoClient == nil {
		return nil
	}
	return mongoClient.Disconnect(ctx)
}
