package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/IannisIP/RideApplicationBackend/data"
	"github.com/IannisIP/RideApplicationBackend/internal/logger"
	"github.com/IannisIP/RideApplicationBackend/internal/request"
	"github.com/IannisIP/RideApplicationBackend/internal/response"
)

// RideRequest carries the ten ride fields. None are required; omitted fields
// are stored as NULL.
type RideRequest struct {
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
}

func (req RideRequest) toRide() data.Ride {
	return data.Ride{
		UserID:          req.UserID,
		DriverID:        req.DriverID,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		RideDatetime:    req.RideDatetime,
		RideStatus:      req.RideStatus,
		RideType:        req.RideType,
		VehicleType:     req.VehicleType,
		PaymentType:     req.PaymentType,
		PaymentAmount:   req.PaymentAmount,
	}
}

func (app *Config) CreateRide(w http.ResponseWriter, r *http.Request) {
	var requestPayload RideRequest

	err := request.ReadJSON(w, r, &requestPayload)
	if request.HandleError(w, err) {
		return
	}

	ride, err := app.Models.Rides.Insert(r.Context(), requestPayload.toRide())
	if err != nil {
		logger.Error("Failed to create ride", "error", err)
		response.InternalServerError(w, "Failed to create ride")
		return
	}

	if claims := sessionClaims(r.Context()); claims != nil {
		logger.Info("Ride created", "ride_id", ride.ID, "requested_by", claims.Email)
	}

	response.Created(w, "Ride created successfully")
}

func (app *Config) ListRides(w http.ResponseWriter, r *http.Request) {
	rides, err := app.Models.Rides.All(r.Context())
	if err != nil {
		logger.Error("Failed to fetch rides", "error", err)
		response.InternalServerError(w, "Failed to fetch rides")
		return
	}

	response.WriteJSON(w, http.StatusOK, rides)
}

func (app *Config) GetRide(w http.ResponseWriter, r *http.Request) {
	id, err := rideID(r)
	if err != nil {
		response.BadRequest(w, "Invalid ride id")
		return
	}

	ride, err := app.Models.Rides.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			response.NotFound(w, "Ride not found")
			return
		}
		logger.Error("Failed to fetch ride", "ride_id", id, "error", err)
		response.InternalServerError(w, "Failed to fetch ride")
		return
	}

	response.WriteJSON(w, http.StatusOK, ride)
}

func (app *Config) UpdateRide(w http.ResponseWriter, r *http.Request) {
	id, err := rideID(r)
	if err != nil {
		response.BadRequest(w, "Invalid ride id")
		return
	}

	var requestPayload RideRequest
	err = request.ReadJSON(w, r, &requestPayload)
	if request.HandleError(w, err) {
		return
	}

	err = app.Models.Rides.Update(r.Context(), id, requestPayload.toRide())
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			response.NotFound(w, "Ride not found")
			return
		}
		logger.Error("Failed to update ride", "ride_id", id, "error", err)
		response.InternalServerError(w, "Failed to update ride")
		return
	}

	response.Success(w, "Ride updated successfully", nil)
}

func (app *Config) DeleteRide(w http.ResponseWriter, r *http.Request) {
	id, err := rideID(r)
	if err != nil {
		response.BadRequest(w, "Invalid ride id")
		return
	}

	err = app.Models.Rides.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			response.NotFound(w, "Ride not found")
			return
		}
		logger.Error("Failed to delete ride", "ride_id", id, "error", err)
		response.InternalServerError(w, "Failed to delete ride")
		return
	}

	if claims := sessionClaims(r.Context()); claims != nil {
		logger.Info("Ride deleted", "ride_id", id, "requested_by", claims.Email)
	}

	response.Success(w, "Ride deleted successfully", nil)
}

func rideID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}
