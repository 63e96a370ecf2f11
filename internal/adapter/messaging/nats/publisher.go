package nats

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
)

// Connect opens the bus connection shared by the publisher and the profile
// provisioner.
func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(url)
}

type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(conn *nats.Conn) *Publisher {
	return &Publisher{conn: conn}
}

func (p *Publisher) Publish(ctx context.Context, subject string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, jsonData)
}

func (p *Publisher) Close() {
	p.conn.Close()
}
