package main

import (
	"errors"
	"net/http"

	"github.com/IannisIP/RideApplicationBackend/data"
	"github.com/IannisIP/RideApplicationBackend/internal/logger"
	"github.com/IannisIP/RideApplicationBackend/internal/request"
	"github.com/IannisIP/RideApplicationBackend/internal/response"
	"github.com/IannisIP/RideApplicationBackend/internal/token"
)

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// authResponse is the body of every registration and login reply. The auth
// flag mirrors whether a token was issued.
type authResponse struct {
	Error   bool          `json:"error"`
	Message string        `json:"message"`
	Auth    bool          `json:"auth"`
	Token   string        `json:"token,omitempty"`
	User    *data.Account `json:"user,omitempty"`
}

func (app *Config) RegisterUser(w http.ResponseWriter, r *http.Request) {
	app.register(w, r, token.KindUser, app.Models.Users)
}

func (app *Config) RegisterDriver(w http.ResponseWriter, r *http.Request) {
	app.register(w, r, token.KindDriver, app.Models.Drivers)
}

func (app *Config) LoginUser(w http.ResponseWriter, r *http.Request) {
	app.login(w, r, token.KindUser, app.Models.Users)
}

func (app *Config) LoginDriver(w http.ResponseWriter, r *http.Request) {
	app.login(w, r, token.KindDriver, app.Models.Drivers)
}

// register creates an account in the given table and issues a session token.
// Users and drivers are separate uniqueness domains: the same email may be
// registered once in each.
func (app *Config) register(w http.ResponseWriter, r *http.Request, kind string, store data.AccountStore) {
	var requestPayload RegisterRequest

	err := request.ReadAndValidate(w, r, &requestPayload)
	if request.HandleError(w, err) {
		return
	}

	hashedPassword, err := data.HashPassword(requestPayload.Password)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		response.InternalServerError(w, "Failed to create account")
		return
	}

	account, err := store.Insert(r.Context(), data.Account{
		Email:     requestPayload.Email,
		Password:  hashedPassword,
		FirstName: requestPayload.FirstName,
		LastName:  requestPayload.LastName,
	})
	if err != nil {
		if errors.Is(err, data.ErrDuplicateEmail) {
			logger.Warn("Duplicate registration attempt",
				"kind", kind,
				"email", requestPayload.Email,
			)
			app.logAuditEventAsync(r, "ACCOUNT_REGISTRATION", requestPayload.Email, "failure")
			response.InternalServerError(w, kindLabel(kind)+" already exists")
			return
		}
		logger.Error("Failed to create account",
			"kind", kind,
			"email", requestPayload.Email,
			"error", err,
		)
		response.InternalServerError(w, "Failed to create account")
		return
	}

	sessionToken, err := token.Generate(account.Email, kind, app.JWTSecret, app.TokenExpiry)
	if err != nil {
		logger.Error("Failed to generate token", "email", account.Email, "error", err)
		response.InternalServerError(w, "Failed to generate authentication token")
		return
	}

	logger.Info("New account registered",
		"kind", kind,
		"email", account.Email,
		"id", account.ID,
	)
	app.logAuditEventAsync(r, "ACCOUNT_REGISTRATION", account.Email, "success")

	response.WriteJSON(w, http.StatusOK, authResponse{
		Message: kindLabel(kind) + " created",
		Auth:    true,
		Token:   sessionToken,
		User:    &account,
	})
}

// login verifies credentials against the stored hash and issues a fresh
// session token. There is no lockout or attempt counting.
func (app *Config) login(w http.ResponseWriter, r *http.Request, kind string, store data.AccountStore) {
	var requestPayload LoginRequest

	err := request.ReadAndValidate(w, r, &requestPayload)
	if request.HandleError(w, err) {
		return
	}

	account, err := store.GetByEmail(r.Context(), requestPayload.Email)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			logger.Warn("Login attempt for unknown account",
				"kind", kind,
				"email", requestPayload.Email,
			)
			response.BadRequest(w, "Cannot find "+kind)
			return
		}
		logger.Error("Failed to fetch account", "email", requestPayload.Email, "error", err)
		response.InternalServerError(w, "Failed to authenticate")
		return
	}

	valid, err := account.PasswordMatches(requestPayload.Password)
	if err != nil {
		logger.Error("Password comparison failed", "email", account.Email, "error", err)
		response.InternalServerError(w, "Failed to authenticate")
		return
	}
	if !valid {
		logger.Warn("Invalid password", "kind", kind, "email", account.Email)
		app.logAuditEventAsync(r, "ACCOUNT_LOGIN", account.Email, "failure")
		response.WriteJSON(w, http.StatusUnauthorized, authResponse{
			Error:   true,
			Message: "Username or password wrong",
			Auth:    false,
		})
		return
	}

	sessionToken, err := token.Generate(account.Email, kind, app.JWTSecret, app.TokenExpiry)
	if err != nil {
		logger.Error("Failed to generate token", "email", account.Email, "error", err)
		response.InternalServerError(w, "Failed to generate authentication token")
		return
	}

	logger.Info("Account authenticated", "kind", kind, "email", account.Email)
	app.logAuditEventAsync(r, "ACCOUNT_LOGIN", account.Email, "success")

	response.WriteJSON(w, http.StatusOK, authResponse{
		Message: "Auth ok",
		Auth:    true,
		Token:   sessionToken,
		User:    &account,
	})
}

// UserInfo resolves the account behind a session token. The token embeds the
// account kind, so drivers resolve against the drivers table.
func (app *Config) UserInfo(w http.ResponseWriter, r *http.Request) {
	tokenString := r.Header.Get("x-access-token")
	if tokenString == "" {
		response.Unauthorized(w, "No token provided")
		return
	}

	claims, err := token.Validate(tokenString, app.JWTSecret)
	if err != nil {
		response.InternalServerError(w, "Failed to authenticate token")
		return
	}

	store := app.Models.Users
	if claims.Kind == token.KindDriver {
		store = app.Models.Drivers
	}

	account, err := store.GetByEmail(r.Context(), claims.Email)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			response.NotFound(w, "Account not found")
			return
		}
		logger.Error("Failed to fetch account", "email", claims.Email, "error", err)
		response.InternalServerError(w, "Failed to fetch account")
		return
	}

	response.WriteJSON(w, http.StatusOK, account)
}

func kindLabel(kind string) string {
	if kind == token.KindDriver {
		return "Driver"
	}
	return "User"
}
