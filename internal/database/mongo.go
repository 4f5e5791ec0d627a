package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used by the mongo backend.
const (
	UsersCollection         = "users"
	RelationshipsCollection = "relationships"
	RequestsCollection      = "requests"
	MarksCollection         = "marks"
)

const (
	mongoConnectRetries = 3
	mongoRetryDelay     = 500 * time.Millisecond
)

// ConnectMongo connects to uri, pings the server and returns the named database.
func ConnectMongo(ctx context.Context, uri, name string) (*mongo.Database, error) {
	opts := options.Client().ApplyURI(uri)

	var (
		cli *mongo.Client
		err error
	)
	for i := 0; i < mongoConnectRetries; i++ {
		cli, err = connectMongo(ctx, opts)
		if err == nil || !shouldRetry(ctx, err) {
			break
		}
		time.Sleep(mongoRetryDelay)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to mongo at %s", uri)
	}
	return cli.Database(name), nil
}

func connectMongo(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error) {
	cli, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(ctx, nil); err != nil {
		_ = cli.Disconnect(ctx)
		return nil, err
	}
	return cli, nil
}

// shouldRetry reports whether a connect error is worth another attempt.
// Authentication failures (codes 13 and 18) are not.
func shouldRetry(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code != 13 && cmdErr.Code != 18
	}
	return true
}

// EnsureMongoIndexes creates the indexes that enforce the same uniqueness as
// the postgres schema.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		RelationshipsCollection: {
			{Keys: bson.D{{Key: "user_a", Value: 1}, {Key: "user_b", Value: 1}, {Key: "kind", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "user_b", Value: 1}}},
		},
		RequestsCollection: {
			{
				Keys: bson.D{{Key: "pair_low", Value: 1}, {Key: "pair_high", Value: 1}, {Key: "kind", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetName("pending_request_pair").
					SetPartialFilterExpression(bson.M{"status": "pending"}),
			},
			{Keys: bson.D{{Key: "from", Value: 1}}},
			{Keys: bson.D{{Key: "to", Value: 1}}},
		},
		MarksCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "collection", Value: 1}, {Key: "item_type", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "collection", Value: 1}, {Key: "item_type", Value: 1}, {Key: "item_ids", Value: 1}}},
		},
	}

	for coll, indexes := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, indexes); err != nil {
			return errors.Wrapf(err, "creating indexes on %s", coll)
		}
	}
	return nil
}
