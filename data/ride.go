package data

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Ride describes one trip request/assignment. All domain fields are nullable:
// a create or update request may omit any of them and the column is stored
// as NULL. Foreign keys are not validated against the account tables.
type Ride struct {
	ID              int        `json:"id"`
	UserID          *int       `json:"user_id"`
	DriverID        *int       `json:"driver_id"`
	PickupLocation  *string    `json:"pickup_location"`
	DropoffLocation *string    `json:"dropoff_location"`
	RideDatetime    *time.Time `json:"ride_datetime"`
	RideStatus      *string    `json:"ride_status"`
	RideType        *string    `json:"ride_type"`
	VehicleType     *string    `json:"vehicle_type"`
	PaymentType     *string    `json:"payment_type"`
	PaymentAmount   *float64   `json:"payment_amount"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// RideStore is the persistence contract for ride records.
type RideStore interface {
	All(ctx context.Context) ([]Ride, error)
	Get(ctx context.Context, id int) (Ride, error)
	Insert(ctx context.Context, ride Ride) (Ride, error)
	Update(ctx context.Context, id int, ride Ride) error
	Delete(ctx context.Context, id int) error
}

type PostgresRideStore struct {
	DB *sql.DB
}

const rideColumns = `id, user_id, driver_id, pickup_location, dropoff_location,
	ride_datetime, ride_status, ride_type, vehicle_type, payment_type,
	payment_amount, created_at, updated_at`

func scanRide(row interface{ Scan(...interface{}) error }) (Ride, error) {
	var ride Ride
	err := row.Scan(
		&ride.ID,
		&ride.UserID,
		&ride.DriverID,
		&ride.PickupLocation,
		&ride.DropoffLocation,
		&ride.RideDatetime,
		&ride.RideStatus,
		&ride.RideType,
		&ride.VehicleType,
		&ride.PaymentType,
		&ride.PaymentAmount,
		&ride.CreatedAt,
		&ride.UpdatedAt,
	)
	return ride, err
}

func (s *PostgresRideStore) All(ctx context.Context) ([]Ride, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.DB.QueryContext(ctx, `select `+rideColumns+` from rides order by id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides = []Ride{}
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

func (s *PostgresRideStore) Get(ctx context.Context, id int) (Ride, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := s.DB.QueryRowContext(ctx, `select `+rideColumns+` from rides where id = $1`, id)
	ride, err := scanRide(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ride, ErrNotFound
	}
	return ride, err
}

func (s *PostgresRideStore) Insert(ctx context.Context, ride Ride) (Ride, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	now := time.Now()
	err := s.DB.QueryRowContext(ctx, `insert into rides
		(user_id, driver_id, pickup_location, dropoff_location, ride_datetime,
		 ride_status, ride_type, vehicle_type, payment_type, payment_amount,
		 created_at, updated_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		returning id, created_at, updated_at`,
		ride.UserID,
		ride.DriverID,
		ride.PickupLocation,
		ride.DropoffLocation,
		ride.RideDatetime,
		ride.RideStatus,
		ride.RideType,
		ride.VehicleType,
		ride.PaymentType,
		ride.PaymentAmount,
		now,
		now,
	).Scan(&ride.ID, &ride.CreatedAt, &ride.UpdatedAt)
	if err != nil {
		return ride, err
	}
	return ride, nil
}

// Update replaces all domain fields wholesale. Fields absent from the request
// body overwrite the stored values with NULL.
func (s *PostgresRideStore) Update(ctx context.Context, id int, ride Ride) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	result, err := s.DB.ExecContext(ctx, `update rides set
		user_id = $1, driver_id = $2, pickup_location = $3, dropoff_location = $4,
		ride_datetime = $5, ride_status = $6, ride_type = $7, vehicle_type = $8,
		payment_type = $9, payment_amount = $10, updated_at = $11
		where id = $12`,
		ride.UserID,
		ride.DriverID,
		ride.PickupLocation,
		ride.DropoffLocation,
		ride.RideDatetime,
		ride.RideStatus,
		ride.RideType,
		ride.VehicleType,
		ride.PaymentType,
		ride.PaymentAmount,
		time.Now(),
		id,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresRideStore) Delete(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	result, err := s.DB.ExecContext(ctx, `delete from rides where id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
