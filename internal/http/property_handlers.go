package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"rentkenya/internal/domain"
	"rentkenya/internal/lib/logger/sl"
	"rentkenya/internal/services/property"
	"rentkenya/internal/services/search"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxImageSize = 10 << 20 // 10 MiB

type createPropertyRequest struct {
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	PropertyType  domain.PropertyType `json:"property_type"`
	Location      string              `json:"location"`
	Price         int64               `json:"price"`
	Bedrooms      int32               `json:"bedrooms"`
	Bathrooms     float64             `json:"bathrooms"`
	IsFurnished   bool                `json:"is_furnished"`
	IsPetFriendly bool                `json:"is_pet_friendly"`
	Amenities     []string            `json:"amenities"`
}

func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	var req createPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, s.log, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := s.properties.CreateProperty(r.Context(), domain.Property{
		LandlordID:    userID,
		Title:         req.Title,
		Description:   req.Description,
		PropertyType:  req.PropertyType,
		Location:      req.Location,
		Price:         req.Price,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		IsFurnished:   req.IsFurnished,
		IsPetFriendly: req.IsPetFriendly,
		IsAvailable:   true,
		Amenities:     req.Amenities,
	})
	if err != nil {
		if isPropertyValidationError(err) {
			respondError(w, s.log, http.StatusBadRequest, userFacing(err))
			return
		}
		s.log.Error("create property failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "failed to create property")
		return
	}

	respondJSON(w, s.log, http.StatusCreated, "property created", map[string]string{"id": id.String()})
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, s.log, http.StatusBadRequest, "invalid property id")
		return
	}

	// Идентичность опциональна: публичный просмотр тоже считается
	var viewerID *uuid.UUID
	if uid, ok := userIDFromContext(r.Context()); ok {
		viewerID = &uid
	}

	prop, err := s.properties.GetProperty(r.Context(), id, viewerID)
	if err != nil {
		if errors.Is(err, property.ErrPropertyNotFound) {
			respondError(w, s.log, http.StatusNotFound, "property not found")
			return
		}
		s.log.Error("get property failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "failed to get property")
		return
	}

	respondJSON(w, s.log, http.StatusOK, "", prop)
}

type updatePropertyRequest struct {
	Title         *string              `json:"title"`
	Description   *string              `json:"description"`
	PropertyType  *domain.PropertyType `json:"property_type"`
	Location      *string              `json:"location"`
	Price         *int64               `json:"price"`
	Bedrooms      *int32               `json:"bedrooms"`
	Bathrooms     *float64             `json:"bathrooms"`
	IsFurnished   *bool                `json:"is_furnished"`
	IsPetFriendly *bool                `json:"is_pet_friendly"`
	IsAvailable   *bool                `json:"is_available"`
	Amenities     []string             `json:"amenities"`
}

func (s *Server) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, s.log, http.StatusBadRequest, "invalid property id")
		return
	}

	var req updatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, s.log, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.properties.UpdateProperty(r.Context(), id, userID, domain.PropertyFilter{
		Title:         req.Title,
		Description:   req.Description,
		PropertyType:  req.PropertyType,
		Location:      req.Location,
		Price:         req.Price,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		IsFurnished:   req.IsFurnished,
		IsPetFriendly: req.IsPetFriendly,
		IsAvailable:   req.IsAvailable,
		Amenities:     req.Amenities,
	})
	if err != nil {
		switch {
		case errors.Is(err, property.ErrPropertyNotFound):
			respondError(w, s.log, http.StatusNotFound, "property not found")
		case errors.Is(err, property.ErrNotOwner):
			respondError(w, s.log, http.StatusForbidden, "property belongs to another landlord")
		default:
			s.log.Error("update property failed", sl.Err(err))
			respondError(w, s.log, http.StatusInternalServerError, "failed to update property")
		}
		return
	}

	respondJSON(w, s.log, http.StatusOK, "property updated", updated)
}

// handleListProperties — выборка из БД по грубому фильтру, затем точная
// доводка критериев в памяти.
func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	criteria := criteriaFromQuery(r)
	filter := coarseFilter(criteria, paginationFromQuery(r))

	result, err := s.properties.ListProperties(r.Context(), filter)
	if err != nil {
		s.log.Error("list properties failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "failed to list properties")
		return
	}

	items := search.Filter(result.Items, criteria)

	respondJSON(w, s.log, http.StatusOK, "", map[string]interface{}{
		"items":           items,
		"next_page_token": result.NextPageToken,
		"total_count":     result.TotalCount,
		"has_more":        result.HasMore,
	})
}

func (s *Server) handleListMyProperties(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	result, err := s.properties.ListByLandlord(r.Context(), userID, paginationFromQuery(r))
	if err != nil {
		s.log.Error("list my properties failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "failed to list properties")
		return
	}

	respondJSON(w, s.log, http.StatusOK, "", map[string]interface{}{
		"items":           result.Items,
		"next_page_token": result.NextPageToken,
		"total_count":     result.TotalCount,
		"has_more":        result.HasMore,
	})
}

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, s.log, http.StatusBadRequest, "invalid property id")
		return
	}

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		respondError(w, s.log, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, s.log, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	url, err := s.properties.AddImage(r.Context(), id, userID,
		header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		switch {
		case errors.Is(err, property.ErrPropertyNotFound):
			respondError(w, s.log, http.StatusNotFound, "property not found")
		case errors.Is(err, property.ErrNotOwner):
			respondError(w, s.log, http.StatusForbidden, "property belongs to another landlord")
		case errors.Is(err, property.ErrStorageDisabled):
			respondError(w, s.log, http.StatusServiceUnavailable, "image storage is not configured")
		default:
			s.log.Error("upload image failed", sl.Err(err))
			respondError(w, s.log, http.StatusInternalServerError, "failed to upload image")
		}
		return
	}

	respondJSON(w, s.log, http.StatusCreated, "image uploaded", map[string]string{"url": url})
}

// criteriaFromQuery разбирает критерии фильтрации из query-параметров.
// coarseFilter переводит критерии поиска в SQL-фильтр для грубой выборки.
// Точное число спален сужается диапазоном Min=Max.
func coarseFilter(criteria domain.FilterCriteria, pagination *domain.PaginationParams) domain.PropertyFilter {
	filter := domain.PropertyFilter{
		MinPrice:    criteria.MinPrice,
		MaxPrice:    criteria.MaxPrice,
		MinBedrooms: criteria.Bedrooms,
		MaxBedrooms: criteria.Bedrooms,
		Pagination:  pagination,
		IsAvailable: boolPtr(true),
	}
	if criteria.PropertyType != domain.PropertyTypeUnspecified {
		pt := criteria.PropertyType
		filter.PropertyType = &pt
	}
	if criteria.Location != "" {
		loc := criteria.Location
		filter.Location = &loc
	}
	return filter
}

func criteriaFromQuery(r *http.Request) domain.FilterCriteria {
	q := r.URL.Query()

	criteria := domain.FilterCriteria{
		Query:        q.Get("q"),
		Location:     q.Get("location"),
		PropertyType: domain.PropertyType(q.Get("property_type")),
		MoveInDate:   q.Get("move_in_date"),
	}

	if v := q.Get("bedrooms"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			b := int32(n)
			criteria.Bedrooms = &b
		}
	}
	if v := q.Get("min_price"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			criteria.MinPrice = &n
		}
	}
	if v := q.Get("max_price"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			criteria.MaxPrice = &n
		}
	}
	if v := q.Get("is_furnished"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			criteria.IsFurnished = &b
		}
	}
	if v := q.Get("is_pet_friendly"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			criteria.IsPetFriendly = &b
		}
	}
	if amenities := q["amenity"]; len(amenities) > 0 {
		criteria.Amenities = amenities
	}

	return criteria
}

func paginationFromQuery(r *http.Request) *domain.PaginationParams {
	q := r.URL.Query()

	var size int32
	if v := q.Get("page_size"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			size = int32(n)
		}
	}

	return &domain.PaginationParams{
		PageSize:       domain.NormalizePageSize(size),
		PageToken:      q.Get("page_token"),
		OrderDirection: domain.NormalizeOrderDirection(q.Get("order")),
	}
}

func boolPtr(b bool) *bool { return &b }

func isPropertyValidationError(err error) bool {
	for _, target := range []error{
		domain.ErrEmptyTitle,
		domain.ErrEmptyLocation,
		domain.ErrNegativePrice,
		domain.ErrNegativeBedrooms,
		domain.ErrNegativeBathrooms,
		domain.ErrUnknownPropertyType,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
