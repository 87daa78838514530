package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"shop-service/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/lib/pq"
)

type JSONResponse map[string]interface{}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Postgres error code for violating a unique constraint.
const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}

func idFromRequest(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, middleware.NewAppError(http.StatusBadRequest, "Invalid id", err)
	}
	return id, nil
}
