package mqttgw

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"reclaim_control/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 0 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 0 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

// fakeToken completes immediately unless pending is set.
type fakeToken struct {
	err     error
	pending bool
}

func (t fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	if !t.pending {
		close(ch)
	}
	return ch
}
func (t fakeToken) Wait() bool                       { return !t.pending }
func (t fakeToken) WaitTimeout(_ time.Duration) bool { return !t.pending }
func (t fakeToken) Error() error                     { return t.err }

type publishCall struct {
	topic   string
	payload []byte
}

type fakeClient struct {
	mu         sync.Mutex
	publishes  []publishCall
	subscribed []string
	handler    mqtt.MessageHandler
	pubToken   fakeToken
	connToken  fakeToken
}

func (c *fakeClient) IsConnected() bool      { return true }
func (c *fakeClient) IsConnectionOpen() bool { return true }
func (c *fakeClient) Connect() mqtt.Token    { return c.connToken }
func (c *fakeClient) Disconnect(_ uint)      {}
func (c *fakeClient) Publish(topic string, _ byte, _ bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publishes = append(c.publishes, publishCall{topic: topic, payload: payload.([]byte)})
	return c.pubToken
}
func (c *fakeClient) Subscribe(topic string, _ byte, h mqtt.MessageHandler) mqtt.Token {
	c.subscribed = append(c.subscribed, topic)
	c.handler = h
	return fakeToken{}
}
func (c *fakeClient) SubscribeMultiple(_ map[string]byte, _ mqtt.MessageHandler) mqtt.Token {
	return fakeToken{}
}
func (c *fakeClient) Unsubscribe(_ ...string) mqtt.Token       { return fakeToken{} }
func (c *fakeClient) AddRoute(_ string, _ mqtt.MessageHandler) {}
func (c *fakeClient) OptionsReader() mqtt.ClientOptionsReader  { return mqtt.ClientOptionsReader{} }

type recordingListener struct {
	mu    sync.Mutex
	snaps []models.DeviceSnapshot
}

func (l *recordingListener) OnMessage(s models.DeviceSnapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snaps = append(l.snaps, s)
}

func newTestGateway(t *testing.T) (*Gateway, *fakeClient) {
	t.Helper()
	g, err := New(Config{DeviceID: "hp1"}, nil)
	require.NoError(t, err)
	fc := &fakeClient{}
	g.client = fc
	return g, fc
}

func TestNewDefaults(t *testing.T) {
	g, err := New(Config{DeviceID: "hp1"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "tcp://localhost:1883", g.cfg.BrokerURL)
	assert.Equal(t, "reclaim/hp1", g.cfg.BaseTopic)
	assert.Equal(t, "reclaim-control-hp1", g.cfg.ClientID)
	assert.Equal(t, 10*time.Second, g.cfg.ConnectTimeout)
	assert.Equal(t, 5*time.Second, g.cfg.PublishTimeout)
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{}, nil)
	assert.Error(t, err, "device id required")

	_, err = New(Config{DeviceID: "x", QoS: 2}, nil)
	assert.Error(t, err, "qos > 1 rejected")
}

func TestTopicTrimsTrailingSlash(t *testing.T) {
	g, err := New(Config{DeviceID: "hp1", BaseTopic: "reclaim/hp1/"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "reclaim/hp1/state", g.topic("state"))
}

func TestConnect_SubscribesOnConnectAndDeliversTelemetry(t *testing.T) {
	g, fc := newTestGateway(t)
	l := &recordingListener{}

	require.NoError(t, g.Connect(context.Background(), l))
	g.onConnect(fc)
	require.Equal(t, []string{"reclaim/hp1/state"}, fc.subscribed)

	fc.handler(fc, fakeMessage{
		topic:   "reclaim/hp1/state",
		payload: []byte(`{"request_id":"r1","mode":"Mode 1: 24H","pump":1,"water":48.5,"compspeed":7.0,"power":10,"boost":false}`),
	})

	require.Len(t, l.snaps, 1)
	s := l.snaps[0]
	assert.True(t, s.Pump)
	assert.Equal(t, 48.5, s.Water)
	assert.Equal(t, 7, s.CompSpeed)
	assert.Equal(t, 10, s.Power)
	assert.Equal(t, "r1", s.RequestID)
	assert.False(t, s.ReceivedAt.IsZero())
}

func TestConnect_ErrorIsWrapped(t *testing.T) {
	g, fc := newTestGateway(t)
	fc.connToken = fakeToken{err: errors.New("refused")}

	err := g.Connect(context.Background(), &recordingListener{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused")
}

func TestOnMessage_BadPayloadIsDropped(t *testing.T) {
	g, fc := newTestGateway(t)
	l := &recordingListener{}
	require.NoError(t, g.Connect(context.Background(), l))

	g.onMessage(fc, fakeMessage{topic: "reclaim/hp1/state", payload: []byte(`{"pump":"maybe"}`)})
	assert.Empty(t, l.snaps)
}

func TestRequestUpdate_PublishesRequestID(t *testing.T) {
	g, fc := newTestGateway(t)

	ok := g.RequestUpdate(context.Background(), "abc")
	require.True(t, ok)
	require.Len(t, fc.publishes, 1)
	assert.Equal(t, "reclaim/hp1/update", fc.publishes[0].topic)

	var body map[string]string
	require.NoError(t, json.Unmarshal(fc.publishes[0].payload, &body))
	assert.Equal(t, "abc", body["request_id"])
}

func TestRequestUpdate_FalseOnPublishError(t *testing.T) {
	g, fc := newTestGateway(t)
	fc.pubToken = fakeToken{err: errors.New("broker gone")}

	assert.False(t, g.RequestUpdate(context.Background(), "abc"))
}

func TestRequestUpdate_FalseOnTimeout(t *testing.T) {
	g, fc := newTestGateway(t)
	g.cfg.PublishTimeout = 20 * time.Millisecond
	fc.pubToken = fakeToken{pending: true}

	assert.False(t, g.RequestUpdate(context.Background(), "abc"))
}

func TestSetValue_PublishesKeyValue(t *testing.T) {
	g, fc := newTestGateway(t)

	require.NoError(t, g.SetValue(context.Background(), "boost", true))
	require.Len(t, fc.publishes, 1)
	assert.Equal(t, "reclaim/hp1/set", fc.publishes[0].topic)
	assert.JSONEq(t, `{"key":"boost","value":true}`, string(fc.publishes[0].payload))
}

func TestSetValue_NotConnected(t *testing.T) {
	g, err := New(Config{DeviceID: "hp1"}, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, g.SetValue(context.Background(), "boost", true), errNotConnected)
}

func TestLoadTLSConfig_EmptyDisablesTLS(t *testing.T) {
	cfg, err := loadTLSConfig("", "", "")
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadTLSConfig_MissingFiles(t *testing.T) {
	_, err := loadTLSConfig("/nonexistent/ca.pem", "", "")
	assert.Error(t, err)

	_, err = loadTLSConfig("", "/nonexistent/cert.pem", "/nonexistent/key.pem")
	assert.Error(t, err)
}

func TestFlexBool(t *testing.T) {
	cases := map[string]bool{
		`true`: true, `false`: false, `1`: true, `0`: false, `"1"`: true, `"true"`: true, `null`: false, `2.0`: true,
	}
	for in, want := range cases {
		var b flexBool
		require.NoError(t, b.UnmarshalJSON([]byte(in)), in)
		assert.Equal(t, want, bool(b), in)
	}
	var b flexBool
	assert.Error(t, b.UnmarshalJSON([]byte(`"maybe"`)))
}

func TestEchoesRequestID_FollowsConfig(t *testing.T) {
	g, err := New(Config{DeviceID: "hp1"}, nil)
	require.NoError(t, err)
	assert.False(t, g.EchoesRequestID())

	g, err = New(Config{DeviceID: "hp1", EchoRequestID: true}, nil)
	require.NoError(t, err)
	assert.True(t, g.EchoesRequestID())
}
