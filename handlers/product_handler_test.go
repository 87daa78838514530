package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shop-service/middleware"
	"shop-service/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCreateProductServerAssignedID(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	price := decimal.RequireFromString("19.99")
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO products \(product_name, description, price\)`).
		WithArgs("Keyboard", nil, price).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(3, time.Now()))
	mock.ExpectCommit()

	handler := NewProductHandler()
	body, _ := json.Marshal(models.CreateProductRequest{ProductName: "Keyboard", Price: price})

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()

	middleware.ErrorHandler(handler.CreateProduct).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created models.Product
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 3, created.ID)
	assert.Equal(t, "Keyboard", created.ProductName)
	assert.True(t, created.Price.Equal(price))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProductCallerSuppliedID(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	id := 42
	description := "Mechanical"
	price := decimal.RequireFromString("59.90")
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO products \(id, product_name, description, price\)`).
		WithArgs(id, "Keyboard", description, price).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(id, time.Now()))
	mock.ExpectCommit()

	handler := NewProductHandler()
	body, _ := json.Marshal(models.CreateProductRequest{
		ID:          &id,
		ProductName: "Keyboard",
		Description: &description,
		Price:       price,
	})

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()

	middleware.ErrorHandler(handler.CreateProduct).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created models.Product
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, id, created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProductDuplicateID(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	id := 42
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO products \(id, product_name, description, price\)`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "products_pkey"})
	mock.ExpectRollback()

	handler := NewProductHandler()
	body, _ := json.Marshal(models.CreateProductRequest{
		ID:          &id,
		ProductName: "Keyboard",
		Price:       decimal.RequireFromString("59.90"),
	})

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()

	middleware.ErrorHandler(handler.CreateProduct).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product with this id already exists")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProductMissingName(t *testing.T) {
	handler := NewProductHandler()
	body, _ := json.Marshal(models.CreateProductRequest{Price: decimal.RequireFromString("1.00")})

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()

	middleware.ErrorHandler(handler.CreateProduct).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListProducts(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT id, product_name, description, price, created_at FROM products`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_name", "description", "price", "created_at"}).
			AddRow(1, "Keyboard", "Mechanical", "59.90", time.Now()).
			AddRow(2, "Mouse", nil, "19.99", time.Now()))

	handler := NewProductHandler()
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()

	middleware.ErrorHandler(handler.ListProducts).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var products []models.Product
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 2)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("59.90")))
	assert.Nil(t, products[1].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductNotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT id, product_name, description, price, created_at FROM products WHERE id = \$1`).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	handler := NewProductHandler()
	req := httptest.NewRequest(http.MethodGet, "/products/99", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "99"})
	rec := httptest.NewRecorder()

	middleware.ErrorHandler(handler.GetProduct).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductSuccess(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT id, product_name, description, price, created_at FROM products WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_name", "description", "price", "created_at"}).
			AddRow(1, "Keyboard", "Mechanical", "59.90", time.Now()))

	handler := NewProductHandler()
	req := httptest.NewRequest(http.MethodGet, "/products/1", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "1"})
	rec := httptest.NewRecorder()

	middleware.ErrorHandler(handler.GetProduct).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var product models.Product
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	assert.Equal(t, 1, product.ID)
	assert.Equal(t, "Mechanical", *product.Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProductSuccess(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	handler := NewProductHandler()
	req := httptest.NewRequest(http.MethodDelete, "/products/1", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "1"})
	rec := httptest.NewRecorder()

	middleware.ErrorHandler(handler.DeleteProduct).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProductNotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	handler := NewProductHandler()
	req := httptest.NewRequest(http.MethodDelete, "/products/99", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "99"})
	rec := httptest.NewRecorder()

	middleware.ErrorHandler(handler.DeleteProduct).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
