package etl

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BartekS5/sales-etl/pkg/logger"
	"github.com/BartekS5/sales-etl/pkg/models"
	"github.com/BartekS5/sales-etl/pkg/utils"
)

// MongoSource reads supplemental sales from a MongoDB collection. Documents use
// the same snake_case field names as the sales_data table.
type MongoSource struct {
	Client     *mongo.Client
	Database   string
	Collection string
	Validator  *Validator
}

func NewMongoSource(client *mongo.Client, database, collection string) *MongoSource {
	return &MongoSource{
		Client:     client,
		Database:   database,
		Collection: collection,
		Validator:  NewValidator(),
	}
}

func (m *MongoSource) Name() string {
	return fmt.Sprintf("mongo %s.%s", m.Database, m.Collection)
}

// Records returns every well-formed document in the collection. Malformed
// documents are skipped with a warning; a cursor failure discards the whole set.
func (m *MongoSource) Records(ctx context.Context) ([]models.RawRecord, error) {
	coll := m.Client.Database(m.Database).Collection(m.Collection)

	findOpts := options.Find().SetSort(bson.D{{Key: "transaction_id", Value: 1}})
	cursor, err := coll.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find external sales: %w", err)
	}
	defer cursor.Close(ctx)

	records := []models.RawRecord{}
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			logger.Warnf("Skipping undecodable external document: %v", err)
			continue
		}
		rec, err := recordFromDocument(doc)
		if err == nil {
			err = m.Validator.ValidateRecord(rec)
		}
		if err != nil {
			logger.Warnf("Skipping malformed external record: %v", err)
			continue
		}
		records = append(records, rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate external sales: %w", err)
	}
	return records, nil
}

func recordFromDocument(doc bson.M) (models.RawRecord, error) {
	id := utils.ConvertToNullString(doc["transaction_id"])
	if !id.Valid {
		return models.RawRecord{}, fmt.Errorf("document %v: missing transaction_id", doc["_id"])
	}

	customerID, err := utils.ConvertToInt64(doc["customer_id"])
	if err != nil {
		return models.RawRecord{}, fmt.Errorf("transaction %s: customer_id: %w", id.String, err)
	}
	amount, err := utils.ConvertToNullDecimal(doc["amount"])
	if err != nil {
		return models.RawRecord{}, fmt.Errorf("transaction %s: amount: %w", id.String, err)
	}
	date, err := utils.ConvertDateTime(doc["transaction_date"])
	if err != nil {
		return models.RawRecord{}, fmt.Errorf("transaction %s: transaction_date: %w", id.String, err)
	}

	return models.RawRecord{
		TransactionID:   id.String,
		CustomerID:      customerID,
		ProductName:     utils.ConvertToNullString(doc["product_name"]).String,
		Category:        utils.ConvertToNullString(doc["category"]),
		Amount:          amount,
		TransactionDate: date,
		Region:          utils.ConvertToNullString(doc["region"]),
		State:           models.StatePending,
	}, nil
}
