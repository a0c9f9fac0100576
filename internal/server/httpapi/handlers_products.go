package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/pantrykeeper/internal/server/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const eanLength = 13

type createProductRequest struct {
	EAN         string `json:"ean"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateProductRequest struct {
	EAN         *string `json:"ean"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type itemRequest struct {
	ExpirationDate string `json:"expiration_date"`
}

type itemDTO struct {
	ExpirationDate time.Time `json:"expiration_date"`
}

type productDTO struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	EAN         string    `json:"ean,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Items       []itemDTO `json:"items"`
}

type productsResponse struct {
	Products []productDTO `json:"products"`
}

type itemsResponse struct {
	Items []itemDTO `json:"items"`
}

func toProductDTO(p *models.Product) productDTO {
	return productDTO{
		ID:          p.ID,
		UserID:      p.UserID,
		EAN:         p.EAN,
		Name:        p.Name,
		Description: p.Description,
		Items:       toItemDTOs(p.Items),
	}
}

func toItemDTOs(items []models.Item) []itemDTO {
	result := make([]itemDTO, 0, len(items))
	for _, item := range items {
		result = append(result, itemDTO{ExpirationDate: item.ExpirationDate})
	}
	return result
}

// ownerAndProduct pulls the authenticated owner id and the validated product
// key out of the request. The key is a UUID; anything else is a 400.
func (s *Server) ownerAndProduct(w http.ResponseWriter, r *http.Request) (ownerID, productID string, ok bool) {
	claims, found := claimsFromContext(r.Context())
	if !found {
		writeError(w, http.StatusUnauthorized, "no credentials")
		return "", "", false
	}
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return "", "", false
	}
	return claims.UserID, id, true
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no credentials")
		return
	}

	products, err := s.products.List(r.Context(), claims.UserID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	dtos := make([]productDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, toProductDTO(p))
	}
	writeJSON(w, http.StatusOK, productsResponse{Products: dtos})
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	ownerID, productID, ok := s.ownerAndProduct(w, r)
	if !ok {
		return
	}

	product, err := s.products.Get(r.Context(), ownerID, productID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductDTO(product))
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no credentials")
		return
	}

	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.EAN != "" && len(req.EAN) != eanLength {
		writeError(w, http.StatusBadRequest, "ean must be 13 characters")
		return
	}

	product, err := s.products.Create(r.Context(), claims.UserID, req.EAN, req.Name, req.Description)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProductDTO(product))
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	ownerID, productID, ok := s.ownerAndProduct(w, r)
	if !ok {
		return
	}

	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.EAN != nil && *req.EAN != "" && len(*req.EAN) != eanLength {
		writeError(w, http.StatusBadRequest, "ean must be 13 characters")
		return
	}

	product, err := s.products.Update(r.Context(), ownerID, productID, models.ProductPatch{
		EAN:         req.EAN,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductDTO(product))
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	ownerID, productID, ok := s.ownerAndProduct(w, r)
	if !ok {
		return
	}

	if err := s.products.Delete(r.Context(), ownerID, productID); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	ownerID, productID, ok := s.ownerAndProduct(w, r)
	if !ok {
		return
	}

	item, ok := s.decodeItem(w, r)
	if !ok {
		return
	}

	items, err := s.products.AddItem(r.Context(), ownerID, productID, item)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, itemsResponse{Items: toItemDTOs(items)})
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	ownerID, productID, ok := s.ownerAndProduct(w, r)
	if !ok {
		return
	}
	index, ok := s.itemIndex(w, r)
	if !ok {
		return
	}

	item, ok := s.decodeItem(w, r)
	if !ok {
		return
	}

	items, err := s.products.UpdateItem(r.Context(), ownerID, productID, index, item)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, itemsResponse{Items: toItemDTOs(items)})
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	ownerID, productID, ok := s.ownerAndProduct(w, r)
	if !ok {
		return
	}
	index, ok := s.itemIndex(w, r)
	if !ok {
		return
	}

	items, err := s.products.DeleteItem(r.Context(), ownerID, productID, index)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, itemsResponse{Items: toItemDTOs(items)})
}

func (s *Server) decodeItem(w http.ResponseWriter, r *http.Request) (models.Item, bool) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ExpirationDate == "" {
		writeError(w, http.StatusBadRequest, "expiration_date is required")
		return models.Item{}, false
	}

	date, err := parseDate(req.ExpirationDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expiration_date")
		return models.Item{}, false
	}

	return models.Item{ExpirationDate: date}, true
}

func (s *Server) itemIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || index < 0 {
		writeError(w, http.StatusBadRequest, "invalid item index")
		return 0, false
	}
	return index, true
}

// parseDate accepts RFC3339 timestamps and plain dates ("2006-01-02").
func parseDate(value string) (time.Time, error) {
	if date, err := time.Parse(time.RFC3339, value); err == nil {
		return date, nil
	}
	return time.Parse("2006-01-02", value)
}
