package client

import (
	"slotbook/pkg/logger"
	"time"
)

// Client holds the process-wide external clients. Connections are pooled by
// their drivers; callers receive per-request contexts, never the raw global.
type Client struct {
	Mongo *MongoClient
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetMongo(log *logger.Logger, mongoURI string, mongoConnTimeout time.Duration) {
	c.Mongo = NewMongoClient(log, mongoURI, mongoConnTimeout)
}

func (c *Client) GracefulShutdown() {
	if c.Mongo != nil {
		c.Mongo.Disconnect()
	}
}
