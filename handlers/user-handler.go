package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"shop-service/config"
	"shop-service/db"
	"shop-service/middleware"
	"shop-service/models"

	"golang.org/x/crypto/bcrypt"
)

var (
	generateFromPassword   = bcrypt.GenerateFromPassword
	compareHashAndPassword = bcrypt.CompareHashAndPassword
)

type UserHandler struct {
	cfg config.Config
}

func NewUserHandler(cfg config.Config) *UserHandler {
	return &UserHandler{cfg: cfg}
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json")

	rows, err := db.DB.QueryContext(r.Context(),
		"SELECT id, username, email, address, phone_number, created_at FROM users")
	if err != nil {
		log.Printf("Error listing users: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.Address, &user.PhoneNumber, &user.CreatedAt); err != nil {
			log.Printf("Error scanning user row: %v", err)
			return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		log.Printf("Error iterating user rows: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}

	json.NewEncoder(w).Encode(users)
	return nil
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json")

	id, err := idFromRequest(r)
	if err != nil {
		return err
	}

	var user models.User
	err = db.DB.QueryRowContext(r.Context(),
		"SELECT id, username, email, address, phone_number, created_at FROM users WHERE id = $1", id).
		Scan(&user.ID, &user.Username, &user.Email, &user.Address, &user.PhoneNumber, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return middleware.NewAppError(http.StatusNotFound, "User not found", err)
		}
		log.Printf("Error loading user: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}

	json.NewEncoder(w).Encode(user)
	return nil
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json")

	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return middleware.NewAppError(http.StatusBadRequest, "Invalid request payload", err)
	}
	if err := validate.Struct(req); err != nil {
		return middleware.NewAppError(http.StatusBadRequest, "Username, a valid email and password are required", err)
	}

	hashedPassword, err := generateFromPassword([]byte(req.Password), h.cfg.Bcrypt.Cost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}

	tx, err := db.DB.Begin()
	if err != nil {
		log.Printf("Error creating transaction: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}

	user := models.User{
		Username:    req.Username,
		Email:       req.Email,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	}
	// The unique index on email settles concurrent registrations: the
	// insert either wins or fails with a unique violation.
	err = tx.QueryRow(
		"INSERT INTO users (username, email, password_hash, address, phone_number) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at",
		req.Username, req.Email, string(hashedPassword), req.Address, req.PhoneNumber).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		_ = tx.Rollback()
		if isUniqueViolation(err) {
			return middleware.NewAppError(http.StatusConflict, "Email already registered", err)
		}
		log.Printf("Error inserting user into database: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}

	if err := tx.Commit(); err != nil {
		log.Printf("Error committing transaction: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
	return nil
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json")

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return middleware.NewAppError(http.StatusBadRequest, "Invalid request payload", err)
	}
	if err := validate.Struct(req); err != nil {
		return middleware.NewAppError(http.StatusBadRequest, "Email and password are required", err)
	}

	var userID int
	var storedHash string
	err := db.DB.QueryRowContext(r.Context(),
		"SELECT id, password_hash FROM users WHERE email = $1", req.Email).
		Scan(&userID, &storedHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return middleware.NewAppError(http.StatusNotFound, "User not found", err)
		}
		log.Printf("Database error: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}

	if err := compareHashAndPassword([]byte(storedHash), []byte(req.Password)); err != nil {
		return middleware.NewAppError(http.StatusUnauthorized, "Incorrect password", err)
	}

	json.NewEncoder(w).Encode(JSONResponse{
		"message": "Login successful",
		"user_id": userID,
	})
	return nil
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) error {
	id, err := idFromRequest(r)
	if err != nil {
		return err
	}

	tx, err := db.DB.Begin()
	if err != nil {
		log.Printf("Error creating transaction: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}

	result, err := tx.Exec("DELETE FROM users WHERE id = $1", id)
	if err != nil {
		_ = tx.Rollback()
		log.Printf("Error deleting user: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		log.Printf("Error reading rows affected: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		return middleware.NewAppError(http.StatusNotFound, "User not found", nil)
	}

	if err := tx.Commit(); err != nil {
		log.Printf("Error committing transaction: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
