package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/example/preorder/pkg/config"
)

// MongoAudit writes an audit document for every order mutation.
type MongoAudit struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
}

func NewMongoAudit(cfg *config.MongoDBConfig) (*MongoAudit, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &MongoAudit{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (m *MongoAudit) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoAudit) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// AuditEntry records one order mutation.
type AuditEntry struct {
	ID        string                 `bson:"_id,omitempty" json:"id,omitempty"`
	Action    string                 `bson:"action" json:"action"`
	OrderID   uint                   `bson:"order_id" json:"order_id"`
	Data      map[string]interface{} `bson:"data" json:"data"`
	CreatedAt time.Time              `bson:"created_at" json:"created_at"`
}

func (m *MongoAudit) Log(ctx context.Context, action string, orderID uint, data map[string]interface{}) error {
	collection := m.database.Collection(m.config.Collection)
	entry := AuditEntry{
		Action:    action,
		OrderID:   orderID,
		Data:      data,
		CreatedAt: time.Now(),
	}
	_, err := collection.InsertOne(ctx, entry)
	return err
}

// Recent returns the newest entries for one order, newest first.
func (m *MongoAudit) Recent(ctx context.Context, orderID uint, limit int64) ([]AuditEntry, error) {
	collection := m.database.Collection(m.config.Collection)

	filter := bson.M{"order_id": orderID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []AuditEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}
