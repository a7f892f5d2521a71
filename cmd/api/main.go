package main

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgconn"
	_ "github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/IannisIP/RideApplicationBackend/data"
	"github.com/IannisIP/RideApplicationBackend/internal/env"
	"github.com/IannisIP/RideApplicationBackend/internal/logger"
)

var counts int64

// Config carries every collaborator a handler needs. Nothing is reached
// through package globals; the secret and stores are injected here at startup.
type Config struct {
	DB             *sql.DB
	Models         data.Models
	JWTSecret      string
	TokenExpiry    time.Duration
	AllowedOrigins []string
	RabbitConn     *amqp.Connection
}

func main() {
	logger.InitDefault("ride-app-backend")

	logger.Info("Starting ride app backend")

	conn := connectToDB()
	if conn == nil {
		logger.Fatal("Cannot connect to database")
	}

	jwtSecret := env.Get("JWT_SECRET", "")
	if jwtSecret == "" {
		jwtSecret = "default-secret-change-in-production"
		logger.Warn("Using default JWT secret. Set JWT_SECRET environment variable in production!")
	}

	// Session tokens live for 24 hours unless overridden.
	tokenExpiry := env.GetDuration("JWT_EXPIRY", 24*time.Hour)

	allowedOrigins := env.GetList("ALLOWED_ORIGINS", []string{"http://localhost:8080"})

	var rabbitConn *amqp.Connection
	if rabbitURL := env.Get("RABBITMQ_URL", ""); rabbitURL != "" {
		var err error
		rabbitConn, err = connectToRabbitMQ(rabbitURL)
		if err != nil {
			logger.Error("Failed to connect to RabbitMQ, continuing without audit events", "error", err)
		} else {
			defer func() {
				if err := rabbitConn.Close(); err != nil {
					logger.Error("Error closing RabbitMQ connection", "error", err)
				}
			}()
		}
	}

	app := Config{
		DB:             conn,
		Models:         data.New(conn),
		JWTSecret:      jwtSecret,
		TokenExpiry:    tokenExpiry,
		AllowedOrigins: allowedOrigins,
		RabbitConn:     rabbitConn,
	}

	webPort := env.Get("WEB_PORT", "3001")

	logger.Info("Starting HTTP server",
		"port", webPort,
		"token_expiry", tokenExpiry.String(),
		"allowed_origins", allowedOrigins,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", webPort),
		Handler: app.routes(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// Connection pooling configuration. Requests queue when all ten
	// connections are busy rather than failing.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	err = db.Ping()
	if err != nil {
		return nil, err
	}

	return db, nil
}

func connectToDB() *sql.DB {
	dsn := env.Get("DSN", "host=localhost port=5432 user=postgres password=admin dbname=rideapp sslmode=disable")

	for {
		connection, err := openDB(dsn)
		if err != nil {
			logger.Warn("Postgres not yet ready, retrying...",
				"attempt", counts+1,
				"error", err,
			)
			counts++
		} else {
			logger.Info("Connected to Postgres successfully")
			return connection
		}

		if counts > 10 {
			logger.Error("Failed to connect to Postgres after 10 attempts", "error", err)
			return nil
		}

		logger.Debug("Backing off for two seconds")
		time.Sleep(2 * time.Second)
		continue
	}
}

func connectToRabbitMQ(url string) (*amqp.Connection, error) {
	var attempts int64
	var backOff = 1 * time.Second

	for {
		c, err := amqp.Dial(url)
		if err == nil {
			logger.Info("Connected to RabbitMQ")
			return c, nil
		}

		logger.Info("RabbitMQ not yet ready...", "attempt", attempts+1)
		attempts++

		if attempts > 5 {
			return nil, err
		}
		backOff = time.Duration(math.Pow(float64(attempts), 2)) * time.Second
		logger.Debug("Backing off...", "duration", backOff.String())
		time.Sleep(backOff)
		continue
	}
}
