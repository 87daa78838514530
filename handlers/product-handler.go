package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"shop-service/db"
	"shop-service/middleware"
	"shop-service/models"
)

type ProductHandler struct{}

func NewProductHandler() *ProductHandler {
	return &ProductHandler{}
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json")

	rows, err := db.DB.QueryContext(r.Context(),
		"SELECT id, product_name, description, price, created_at FROM products")
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var product models.Product
		if err := rows.Scan(&product.ID, &product.ProductName, &product.Description, &product.Price, &product.CreatedAt); err != nil {
			log.Printf("Error scanning product row: %v", err)
			return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		log.Printf("Error iterating product rows: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}

	json.NewEncoder(w).Encode(products)
	return nil
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json")

	id, err := idFromRequest(r)
	if err != nil {
		return err
	}

	var product models.Product
	err = db.DB.QueryRowContext(r.Context(),
		"SELECT id, product_name, description, price, created_at FROM products WHERE id = $1", id).
		Scan(&product.ID, &product.ProductName, &product.Description, &product.Price, &product.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return middleware.NewAppError(http.StatusNotFound, "Product not found", err)
		}
		log.Printf("Error loading product: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}

	json.NewEncoder(w).Encode(product)
	return nil
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json")

	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return middleware.NewAppError(http.StatusBadRequest, "Invalid request payload", err)
	}
	if err := validate.Struct(req); err != nil {
		return middleware.NewAppError(http.StatusBadRequest, "Product name and price are required", err)
	}

	tx, err := db.DB.Begin()
	if err != nil {
		log.Printf("Error creating transaction: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}

	product := models.Product{
		ProductName: req.ProductName,
		Description: req.Description,
		Price:       req.Price,
	}
	if req.ID != nil {
		// Caller-supplied id: the primary key decides whether it is taken.
		err = tx.QueryRow(
			"INSERT INTO products (id, product_name, description, price) VALUES ($1, $2, $3, $4) RETURNING id, created_at",
			*req.ID, req.ProductName, req.Description, req.Price).
			Scan(&product.ID, &product.CreatedAt)
	} else {
		err = tx.QueryRow(
			"INSERT INTO products (product_name, description, price) VALUES ($1, $2, $3) RETURNING id, created_at",
			req.ProductName, req.Description, req.Price).
			Scan(&product.ID, &product.CreatedAt)
	}
	if err != nil {
		_ = tx.Rollback()
		if isUniqueViolation(err) {
			return middleware.NewAppError(http.StatusConflict, "Product with this id already exists", err)
		}
		log.Printf("Error inserting product into database: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}

	if err := tx.Commit(); err != nil {
		log.Printf("Error committing transaction: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(product)
	return nil
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := idFromRequest(r)
	if err != nil {
		return err
	}

	tx, err := db.DB.Begin()
	if err != nil {
		log.Printf("Error creating transaction: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}

	result, err := tx.Exec("DELETE FROM products WHERE id = $1", id)
	if err != nil {
		_ = tx.Rollback()
		log.Printf("Error deleting product: %v", err)
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
		return middleware.NewAppError(http.StatusNotFound, "Product not found", nil)
	}

	if err := tx.Commit(); err != nil {
		log.Printf("Error committing transaction: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
