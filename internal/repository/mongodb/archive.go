package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
)

const dailyReportsCollection = "daily_reports"

// ReportArchive keeps one document per closed business day.
type ReportArchive struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewReportArchive connects to uri and checks the connection before returning.
func NewReportArchive(ctx context.Context, uri string, dbName string) (*ReportArchive, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &ReportArchive{
		client:     client,
		collection: client.Database(dbName).Collection(dailyReportsCollection),
	}, nil
}

// SaveDailyReport stores a daily report, replacing an earlier one for the same day.
func (a *ReportArchive) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	filter := bson.M{"date": report.Date}
	opts := options.Replace().SetUpsert(true)
	if _, err := a.collection.ReplaceOne(ctx, filter, report, opts); err != nil {
		return fmt.Errorf("failed to save daily report: %w", err)
	}
	return nil
}

// FindDailyReports returns the archived reports dated within [from, to], oldest first.
func (a *ReportArchive) FindDailyReports(ctx context.Context, from, to time.Time) ([]models.DailyReport, error) {
	filter := bson.M{"date": bson.M{"$gte": from, "$lte": to}}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := a.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily reports: %w", err)
	}
	defer cursor.Close(ctx)

	reports := make([]models.DailyReport, 0)
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode daily reports: %w", err)
	}
	return reports, nil
}

// Close closes the MongoDB connection.
func (a *ReportArchive) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}
