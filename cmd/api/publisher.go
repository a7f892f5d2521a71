package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/IannisIP/RideApplicationBackend/internal/logger"
)

const auditQueue = "audit_events"

// EventMessage is the audit record published for registrations and logins.
type EventMessage struct {
	EventName string `json:"event_name"`
	ActorID   string `json:"actor_id"`
	Status    string `json:"status"`
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`
	Timestamp string `json:"timestamp"`
}

// logAuditEventAsync publishes an audit event without blocking the request
// handler. Skipped silently when no broker connection is configured.
func (app *Config) logAuditEventAsync(r *http.Request, eventName, actorID, status string) {
	if app.RabbitConn == nil {
		return
	}

	event := EventMessage{
		EventName: eventName,
		ActorID:   actorID,
		Status:    status,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	go func() {
		if err := publishAuditEvent(app.RabbitConn, event); err != nil {
			logger.Error("Failed to publish audit event",
				"event", eventName,
				"actor", actorID,
				"error", err,
			)
		}
	}()
}

func publishAuditEvent(conn *amqp.Connection, event EventMessage) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		auditQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return ch.PublishWithContext(ctx,
		"",     // default exchange
		q.Name, // routing key
		false,  // mandatory
		false,  // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// clientIP extracts the real client IP from request headers, checking
// X-Forwarded-For and X-Real-IP before falling back to RemoteAddr.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if idx := strings.Index(forwarded, ","); idx != -1 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	if idx := strings.LastIndex(r.RemoteAddr, ":"); idx != -1 {
		return r.RemoteAddr[:idx]
	}
	return r.RemoteAddr
}
