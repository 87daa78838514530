package routes

import (
	"shop-service/handlers"
	"shop-service/middleware"

	"github.com/gorilla/mux"
)

func SetupRoutes(userHandler *handlers.UserHandler, productHandler *handlers.ProductHandler) *mux.Router {
	router := mux.NewRouter()

	router.Handle("/users", middleware.ErrorHandler(userHandler.ListUsers)).Methods("GET")
	router.Handle("/users", middleware.ErrorHandler(userHandler.CreateUser)).Methods("POST")
	router.Handle("/users/{id}", middleware.ErrorHandler(userHandler.GetUser)).Methods("GET")
	router.Handle("/users/{id}", middleware.ErrorHandler(userHandler.DeleteUser)).Methods("DELETE")
	router.Handle("/login", middleware.ErrorHandler(userHandler.Login)).Methods("POST")

	router.Handle("/products", middleware.ErrorHandler(productHandler.ListProducts)).Methods("GET")
	router.Handle("/products", middleware.ErrorHandler(productHandler.CreateProduct)).Methods("POST")
	router.Handle("/products/{id}", middleware.ErrorHandler(productHandler.GetProduct)).Methods("GET")
	router.Handle("/products/{id}", middleware.ErrorHandler(productHandler.DeleteProduct)).Methods("DELETE")

	router.HandleFunc("/health", handlers.HealthHandler).Methods("GET")

	return router
}
