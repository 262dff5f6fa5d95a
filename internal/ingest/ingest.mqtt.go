// FilePath: internal/ingest/ingest.mqtt.go
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/waterlab/sensorlog/internal/config"
	"github.com/waterlab/sensorlog/internal/errors"
	"github.com/waterlab/sensorlog/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// ReadingSubmitter validates and stores raw field values
type ReadingSubmitter interface {
	SubmitReading(ctx context.Context, values url.Values) (*models.SensorReading, error)
}

// MQTTIngestor subscribes to device topics and feeds every message through
// the same validation and insert path as POST /data.
type MQTTIngestor struct {
	client    mqtt.Client
	cfg       config.MQTTConfig
	submitter ReadingSubmitter

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewMQTTIngestor(cfg config.MQTTConfig, submitter ReadingSubmitter) *MQTTIngestor {
	in := &MQTTIngestor{
		cfg:       cfg,
		submitter: submitter,
		stopCh:    make(chan struct{}),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Broker, cfg.Port))
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	// clean sessions drop subscriptions, so resubscribe on every reconnect
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		nuts.L.Infof("[Ingest] Connected to MQTT broker %s:%d", cfg.Broker, cfg.Port)
		if err := in.subscribe(c); err != nil {
			nuts.L.Errorf("[Ingest] %v", err)
		}
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		nuts.L.Warnf("[Ingest] MQTT connection lost: %v", err)
	})

	in.client = mqtt.NewClient(opts)
	return in
}

// Start connects to the broker; the subscription is made by the connect handler
func (in *MQTTIngestor) Start(ctx context.Context) error {
	select {
	case <-in.stopCh:
		return fmt.Errorf("ingestor stopped")
	default:
	}

	token := in.client.Connect()
	const poll = 200 * time.Millisecond
	for !token.WaitTimeout(poll) {
		select {
		case <-ctx.Done():
			in.client.Disconnect(0)
			return ctx.Err()
		case <-in.stopCh:
			in.client.Disconnect(0)
			return fmt.Errorf("ingestor stopped")
		default:
		}
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	return nil
}

func (in *MQTTIngestor) subscribe(c mqtt.Client) error {
	token := c.Subscribe(in.cfg.Topic, in.cfg.QoS, func(_ mqtt.Client, msg mqtt.Message) {
		in.handlePayload(context.Background(), msg.Topic(), msg.Payload())
	})
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("subscribe timeout for topic %s", in.cfg.Topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe to %s: %w", in.cfg.Topic, err)
	}
	nuts.L.Infof("[Ingest] Subscribed to %s (qos %d)", in.cfg.Topic, in.cfg.QoS)
	return nil
}

// handlePayload never returns an error: a bad message is logged and dropped
// so one misbehaving device cannot stall the subscription.
func (in *MQTTIngestor) handlePayload(ctx context.Context, topic string, payload []byte) {
	values, err := PayloadToValues(payload)
	if err != nil {
		nuts.L.Warnf("[Ingest] Dropping malformed message on %s: %v", topic, err)
		return
	}
	reading, err := in.submitter.SubmitReading(ctx, values)
	if err != nil {
		if apiErr := errors.AsAPIError(err); apiErr.Type == errors.ErrorTypeValidation {
			nuts.L.Warnf("[Ingest] Rejected reading on %s: %v", topic, apiErr.Details)
			return
		}
		nuts.L.Errorf("[Ingest] Failed to store reading from %s: %v", topic, err)
		return
	}
	nuts.L.Debugf("[Ingest] Stored reading for %s from %s", reading.Location, topic)
}

// Stop unsubscribes and disconnects; safe to call more than once
func (in *MQTTIngestor) Stop() {
	in.stopOnce.Do(func() {
		close(in.stopCh)
		if in.client.IsConnected() {
			in.client.Unsubscribe(in.cfg.Topic).WaitTimeout(2 * time.Second)
		}
		in.client.Disconnect(250)
	})
}

// PayloadToValues flattens a JSON object into form values. Numbers keep their
// literal text and nested values are rejected.
func PayloadToValues(payload []byte) (url.Values, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	values := url.Values{}
	for k, v := range obj {
		switch val := v.(type) {
		case nil:
		case string:
			values.Set(k, val)
		case json.Number:
			values.Set(k, val.String())
		case bool:
			values.Set(k, fmt.Sprint(val))
		default:
			return nil, fmt.Errorf("field %q: unsupported value %T", k, v)
		}
	}
	return values, nil
}
