package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router builds the route table. Login, logout, registration and the health
// probe are public; everything else requires a bearer token and is subject
// to per-user rate limiting.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	r.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", s.logout).Methods(http.MethodDelete)
	r.HandleFunc("/auth/users", s.register).Methods(http.MethodPost)

	protected := r.PathPrefix("/").Subrouter()
	protected.Use(s.authenticate, s.limitRequests)

	protected.HandleFunc("/auth/users/{id}", s.updateUser).Methods(http.MethodPut)
	protected.HandleFunc("/auth/users/{id}", s.deleteUser).Methods(http.MethodDelete)

	protected.HandleFunc("/products", s.listProducts).Methods(http.MethodGet)
	protected.HandleFunc("/products", s.createProduct).Methods(http.MethodPost)
	protected.HandleFunc("/products/{id}", s.getProduct).Methods(http.MethodGet)
	protected.HandleFunc("/products/{id}", s.updateProduct).Methods(http.MethodPut)
	protected.HandleFunc("/products/{id}", s.deleteProduct).Methods(http.MethodDelete)

	protected.HandleFunc("/products/{id}/items", s.addItem).Methods(http.MethodPost)
	protected.HandleFunc("/products/{id}/items/{index}", s.updateItem).Methods(http.MethodPut)
	protected.HandleFunc("/products/{id}/items/{index}", s.deleteItem).Methods(http.MethodDelete)

	return r
}
