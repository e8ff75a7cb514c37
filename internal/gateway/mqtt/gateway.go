// Package mqttgw talks to the heat pump through an MQTT broker.
//
// Topics live under <BaseTopic>:
//
//	<base>/state   device -> service, telemetry JSON
//	<base>/update  service -> device, {"request_id": "..."}
//	<base>/set     service -> device, {"key": "boost", "value": true}
package mqttgw

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"reclaim_control/internal/gateway"
	"reclaim_control/internal/logger"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

var (
	errTimeout      = errors.New("mqtt: timed out waiting for broker")
	errNotConnected = errors.New("mqtt: not connected")
)

type Config struct {
	BrokerURL string
	ClientID  string
	DeviceID  string
	BaseTopic string
	QoS       byte

	// EchoRequestID declares that the device copies request_id into its replies.
	EchoRequestID bool

	Username string
	Password string

	// Client certificate authentication. All three empty disables TLS setup.
	CAFile   string
	CertFile string
	KeyFile  string

	ConnectTimeout time.Duration
	PublishTimeout time.Duration
}

type Gateway struct {
	cfg Config
	log *logger.Logger

	client mqtt.Client

	mu       sync.RWMutex
	listener gateway.Listener
}

var (
	_ gateway.Gateway         = (*Gateway)(nil)
	_ gateway.RequestIDEchoer = (*Gateway)(nil)
)

func New(cfg Config, log *logger.Logger) (*Gateway, error) {
	if cfg.DeviceID == "" {
		return nil, errors.New("mqtt: DeviceID is required")
	}
	if cfg.BrokerURL == "" {
		cfg.BrokerURL = "tcp://localhost:1883"
	}
	if cfg.BaseTopic == "" {
		cfg.BaseTopic = "reclaim/" + cfg.DeviceID
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "reclaim-control-" + cfg.DeviceID
	}
	if cfg.QoS > 1 {
		return nil, errors.New("mqtt: QoS must be 0 or 1")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}
	return &Gateway{cfg: cfg, log: logger.OrNop(log).Named("mqtt")}, nil
}

func (g *Gateway) EchoesRequestID() bool { return g.cfg.EchoRequestID }

func (g *Gateway) clientOptions() (*mqtt.ClientOptions, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(g.cfg.BrokerURL).
		SetClientID(g.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(2 * time.Second).
		SetOnConnectHandler(g.onConnect).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			g.log.Warnw("mqtt_connection_lost", "err", err)
		})

	if g.cfg.Username != "" {
		opts.SetUsername(g.cfg.Username)
		opts.SetPassword(g.cfg.Password)
	}

	tlsCfg, err := loadTLSConfig(g.cfg.CAFile, g.cfg.CertFile, g.cfg.KeyFile)
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		opts.SetTLSConfig(tlsCfg)
	}
	return opts, nil
}

// Connect dials the broker and starts delivering telemetry to l.
func (g *Gateway) Connect(ctx context.Context, l gateway.Listener) error {
	g.mu.Lock()
	g.listener = l
	g.mu.Unlock()

	if g.client == nil {
		opts, err := g.clientOptions()
		if err != nil {
			return err
		}
		g.client = mqtt.NewClient(opts)
	}

	if err := waitToken(ctx, g.client.Connect(), g.cfg.ConnectTimeout); err != nil {
		return fmt.Errorf("mqtt connect %s: %w", g.cfg.BrokerURL, err)
	}
	g.log.Infow("mqtt_connected", "broker", g.cfg.BrokerURL, "device", g.cfg.DeviceID)
	return nil
}

func (g *Gateway) Disconnect() {
	if g.client == nil {
		return
	}
	g.client.Disconnect(250)
	g.log.Infow("mqtt_disconnected")
}

// onConnect (re)subscribes to telemetry after every successful connection.
func (g *Gateway) onConnect(c mqtt.Client) {
	topic := g.topic("state")
	token := c.Subscribe(topic, g.cfg.QoS, g.onMessage)
	if !token.WaitTimeout(g.cfg.ConnectTimeout) {
		g.log.Errorw("mqtt_subscribe_timeout", "topic", topic)
		return
	}
	if err := token.Error(); err != nil {
		g.log.Errorw("mqtt_subscribe_failed", "topic", topic, "err", err)
		return
	}
	g.log.Debugw("mqtt_subscribed", "topic", topic)
}

func (g *Gateway) onMessage(_ mqtt.Client, msg mqtt.Message) {
	snap, err := decodeTelemetry(msg.Payload())
	if err != nil {
		g.log.Warnw("mqtt_bad_telemetry", "topic", msg.Topic(), "err", err)
		return
	}
	g.mu.RLock()
	l := g.listener
	g.mu.RUnlock()
	if l != nil {
		l.OnMessage(snap)
	}
}

type updateRequest struct {
	RequestID string `json:"request_id"`
}

type setRequest struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// RequestUpdate publishes a refresh request. It returns false when the broker does not
// acknowledge the publish in time.
func (g *Gateway) RequestUpdate(ctx context.Context, requestID string) bool {
	if err := g.publish(ctx, "update", updateRequest{RequestID: requestID}); err != nil {
		g.log.Warnw("mqtt_request_update_failed", "request_id", requestID, "err", err)
		return false
	}
	return true
}

func (g *Gateway) SetValue(ctx context.Context, key string, value any) error {
	if err := g.publish(ctx, "set", setRequest{Key: key, Value: value}); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	g.log.Infow("mqtt_value_set", "key", key, "value", value)
	return nil
}

func (g *Gateway) publish(ctx context.Context, suffix string, v any) error {
	if g.client == nil {
		return errNotConnected
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return waitToken(ctx, g.client.Publish(g.topic(suffix), g.cfg.QoS, false, b), g.cfg.PublishTimeout)
}

func (g *Gateway) topic(suffix string) string {
	return strings.TrimRight(g.cfg.BaseTopic, "/") + "/" + suffix
}

func waitToken(ctx context.Context, tok mqtt.Token, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-tok.Done():
		return tok.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return errTimeout
	}
}

func loadTLSConfig(caFile, certFile, keyFile string) (*tls.Config, error) {
	if caFile == "" && certFile == "" && keyFile == "" {
		return nil, nil
	}
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if caFile != "" {
		pem, err := os.ReadFile(caFile)
		if err != nil {
			return nil, fmt.Errorf("read CA %q: %w", caFile, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates in CA %q", caFile)
		}
		cfg.RootCAs = pool
	}

	if certFile != "" || keyFile != "" {
		cert, err := tls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return cfg, nil
}
