package statefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/hearthlabs/hearth-panel/internal/infrastructure/config"
	"github.com/hearthlabs/hearth-panel/internal/registry"
)

// connectTimeout bounds the initial MQTT broker connection attempt.
const connectTimeout = 10 * time.Second

// MQTTSource consumes entity-state events from an MQTT broker, for
// installations that run one alongside the backend. Events are published
// to <topic_prefix>/entities/<id>/state with the same JSON shape as the
// websocket feed.
type MQTTSource struct {
	cfg      config.MQTTConfig
	registry *registry.Registry
	gate     Gate
	recorder Recorder
	logger   Logger
}

// NewMQTTSource creates an MQTT feed source. recorder may be nil.
func NewMQTTSource(cfg config.MQTTConfig, reg *registry.Registry, gate Gate, recorder Recorder, logger Logger) *MQTTSource {
	return &MQTTSource{
		cfg:      cfg,
		registry: reg,
		gate:     gate,
		recorder: recorder,
		logger:   logger,
	}
}

// brokerURL builds the broker address from config.
func (s *MQTTSource) brokerURL() string {
	scheme := "tcp"
	if s.cfg.TLS {
		scheme = "ssl"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, s.cfg.Host, s.cfg.Port)
}

// stateTopic is the subscription filter for entity state updates.
func (s *MQTTSource) stateTopic() string {
	return strings.TrimRight(s.cfg.TopicPrefix, "/") + "/entities/+/state"
}

// Run connects, subscribes and consumes events until the context is
// cancelled. The paho client handles reconnection and re-subscription.
func (s *MQTTSource) Run(ctx context.Context) error {
	opts := pahomqtt.NewClientOptions().
		AddBroker(s.brokerURL()).
		SetClientID(s.cfg.ClientID).
		SetAutoReconnect(true).
		SetCleanSession(true)

	if s.cfg.Username != "" {
		opts.SetUsername(s.cfg.Username)
		opts.SetPassword(s.cfg.Password)
	}

	topic := s.stateTopic()
	opts.SetOnConnectHandler(func(client pahomqtt.Client) {
		s.logger.Info("mqtt feed connected", "broker", s.brokerURL())
		// Re-subscribe on every (re)connect; clean sessions lose state.
		token := client.Subscribe(topic, byte(s.cfg.QoS), s.handleMessage) //nolint:gosec // QoS validated by config
		go func() {
			token.Wait()
			if err := token.Error(); err != nil {
				s.logger.Error("mqtt subscribe failed", "topic", topic, "error", err)
			}
		}()
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		s.logger.Warn("mqtt feed connection lost", "error", err)
	})

	client := pahomqtt.NewClient(opts)

	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("connecting to mqtt broker %s: timeout", s.brokerURL())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connecting to mqtt broker %s: %w", s.brokerURL(), err)
	}

	<-ctx.Done()

	client.Disconnect(250) // milliseconds to flush in-flight messages
	s.logger.Info("mqtt feed disconnected")
	return nil
}

// handleMessage decodes one state event and folds it into the registry.
// The entity ID comes from the topic when the payload omits it.
func (s *MQTTSource) handleMessage(_ pahomqtt.Client, msg pahomqtt.Message) {
	var ev Event
	if err := json.Unmarshal(msg.Payload(), &ev); err != nil {
		s.logger.Warn("dropping malformed mqtt event",
			"topic", msg.Topic(), "error", err)
		return
	}

	if ev.EntityID == "" {
		ev.EntityID = entityIDFromTopic(msg.Topic())
	}

	applyEvent(s.registry, s.gate, s.recorder, ev, s.logger)
}

// entityIDFromTopic extracts <id> from .../entities/<id>/state.
func entityIDFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	for i, p := range parts {
		if p == "entities" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}
