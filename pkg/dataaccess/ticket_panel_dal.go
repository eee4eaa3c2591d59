package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/warden/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ticketPanelDalName = "ticket_panel_dal"

	ticketPanelCollection = "ticket_panels"
)

// ITicketPanelDal is the data access layer for guild ticket configurations.
// The whole configuration is one document per guild and is always read and
// written as a unit.
type ITicketPanelDal interface {
	// Load gets the ticket configuration for a guild. It returns nil with no
	// error when the guild has no configuration.
	Load(ctx context.Context, guildID string) (*entities.GuildTicketConfig, error)

	// Save upserts the ticket configuration for a guild.
	Save(ctx context.Context, cfg *entities.GuildTicketConfig) error

	// Delete removes the ticket configuration for a guild.
	Delete(ctx context.Context, guildID string) error
}

type ticketPanelDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewTicketPanelDal creates a new ticket panel data access layer.
func NewTicketPanelDal(logger *slog.Logger) ITicketPanelDal {
	l := logger.With(slog.String(logging.KeyDal, ticketPanelDalName))

	if MongoDB == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &ticketPanelDal{
		l:      l,
		client: MongoDB,
	}
}

func (d *ticketPanelDal) Load(ctx context.Context, guildID string) (*entities.GuildTicketConfig, error) {
	collection := d.client.Database(mongoDatabase).Collection(ticketPanelCollection)

	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(ticketPanelDalName, "load_config", mongoDatabase, ticketPanelCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketPanelDalName, "load_config", mongoDatabase, ticketPanelCollection))
	defer t.ObserveDuration()

	cfg := new(entities.GuildTicketConfig)
	err := collection.FindOne(ctx, bson.M{"guildId": guildID}).Decode(cfg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// No configuration is not an error to the caller.
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("error getting ticket configuration: %w", err)
	}
	return cfg, nil
}

func (d *ticketPanelDal) Save(ctx context.Context, cfg *entities.GuildTicketConfig) error {
	collection := d.client.Database(mongoDatabase).Collection(ticketPanelCollection)

	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(ticketPanelDalName, "save_config", mongoDatabase, ticketPanelCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketPanelDalName, "save_config", mongoDatabase, ticketPanelCollection))
	defer t.ObserveDuration()

	opts := options.Update().SetUpsert(true)
	_, err := collection.UpdateOne(ctx, bson.M{"guildId": cfg.GuildID}, bson.M{"$set": cfg}, opts)
	if err != nil {
		return fmt.Errorf("error updating ticket configuration: %w", err)
	}
	return nil
}

func (d *ticketPanelDal) Delete(ctx context.Context, guildID string) error {
	collection := d.client.Database(mongoDatabase).Collection(ticketPanelCollection)

	// Start the prometheus metrics.
	monitoring.MongoTotalRequests.WithLabelValues(ticketPanelDalName, "delete_config", mongoDatabase, ticketPanelCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketPanelDalName, "delete_config", mongoDatabase, ticketPanelCollection))
	defer t.ObserveDuration()

	if _, err := collection.DeleteOne(ctx, bson.M{"guildId": guildID}); err != nil {
		return fmt.Errorf("error deleting ticket configuration: %w", err)
	}
	return nil
}
