package events

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/arnavshah/readiness-api-go/pkg/models"
)

// Event types shipped to the analytics pipeline
const (
	EventSnapshotComputed  = "SNAPSHOT_COMPUTED"
	EventAlertRaised       = "ALERT_RAISED"
	EventAssignmentCreated = "ASSIGNMENT_CREATED"
)

// Event is the raw readiness event shipped downstream for warehouse
// aggregation
type Event struct {
	EventID   string    `json:"event_id"`
	UnitID    string    `json:"unit_id"`
	EventType string    `json:"event_type"`
	EventTime time.Time `json:"event_time"`
	Payload   any       `json:"payload,omitempty"`
}

// Publisher ships readiness events to an MQTT broker. When no broker is
// configured the publisher is a logging no-op, so the rest of the system
// runs unchanged in development.
type Publisher struct {
	client mqtt.Client
	topic  string
}

// Connect dials the broker named by MQTT_BROKER_URL. Returns a no-op
// publisher when unset or unreachable; event delivery is best effort and
// never fatal.
func Connect() *Publisher {
	brokerURL := os.Getenv("MQTT_BROKER_URL")
	if brokerURL == "" {
		log.Println("events: MQTT_BROKER_URL not set, events will be logged only")
		return &Publisher{}
	}

	topic := os.Getenv("MQTT_TOPIC")
	if topic == "" {
		topic = "readiness/events"
	}

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(fmt.Sprintf("readiness-api-%s", uuid.NewString()[:8])).
		SetUsername(os.Getenv("MQTT_USERNAME")).
		SetPassword(os.Getenv("MQTT_PASSWORD")).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Printf("events: could not connect to MQTT broker: %v, events will be logged only", token.Error())
		return &Publisher{}
	}

	log.Printf("events: connected to MQTT broker, topic %s", topic)
	return &Publisher{client: client, topic: topic}
}

// Publish ships one event. Failures are logged and swallowed.
func (p *Publisher) Publish(unitID, eventType string, payload any) {
	event := Event{
		EventID:   uuid.NewString(),
		UnitID:    unitID,
		EventType: eventType,
		EventTime: time.Now().UTC(),
		Payload:   payload,
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("events: marshal event: %v", err)
		return
	}

	if p.client == nil {
		log.Printf("events: [dry-run] %s for unit %s", eventType, unitID)
		return
	}

	token := p.client.Publish(p.topic, 1, false, body)
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		log.Printf("events: publish %s: %v", eventType, token.Error())
	}
}

// PublishAlert ships an ALERT_RAISED event carrying the alert payload
func (p *Publisher) PublishAlert(alert models.Alert) {
	p.Publish(alert.UnitID, EventAlertRaised, alert)
}

// Close disconnects from the broker
func (p *Publisher) Close() {
	if p.client != nil {
		p.client.Disconnect(250)
	}
}
