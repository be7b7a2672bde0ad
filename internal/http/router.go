package httpapi

import (
	"log/slog"
	"net/http"

	"rentkenya/internal/config"
	"rentkenya/internal/domain"
	"rentkenya/internal/services/favorites"
	"rentkenya/internal/services/inquiry"
	"rentkenya/internal/services/notification"
	"rentkenya/internal/services/property"
	"rentkenya/internal/services/recommendation"
	"rentkenya/internal/services/search"
	"rentkenya/internal/services/user"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// Server — HTTP-слой поверх сервисов. Держит только роутинг и (де)сериализацию;
// вся логика в сервисах.
type Server struct {
	log    *slog.Logger
	secret string

	users           *user.Service
	properties      *property.Service
	favorites       *favorites.Service
	inquiries       *inquiry.Service
	notifications   *notification.Service
	searches        *search.Service
	recommendations *recommendation.Service
}

func NewServer(
	log *slog.Logger,
	cfg *config.Config,
	users *user.Service,
	properties *property.Service,
	favs *favorites.Service,
	inquiries *inquiry.Service,
	notifications *notification.Service,
	searches *search.Service,
	recommendations *recommendation.Service,
) *Server {
	return &Server{
		log:             log,
		secret:          cfg.Secret,
		users:           users,
		properties:      properties,
		favorites:       favs,
		inquiries:       inquiries,
		notifications:   notifications,
		searches:        searches,
		recommendations: recommendations,
	}
}

// Router собирает все маршруты API.
func (s *Server) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logMiddleware)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	r.Use(corsHandler.Handler)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		respondJSON(w, s.log, http.StatusOK, "ok", nil)
	})

	r.Route("/api", func(r chi.Router) {
		// Публичные маршруты
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Get("/properties", s.handleListProperties)
		r.Get("/properties/{id}", s.handleGetProperty)

		// Маршруты с обязательной аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/profile", s.handleGetProfile)
			r.Patch("/profile", s.handleUpdateProfile)

			// Управление объектами доступно только арендодателям
			r.Group(func(r chi.Router) {
				r.Use(s.requireRole(domain.RoleLandlord))

				r.Post("/properties", s.handleCreateProperty)
				r.Patch("/properties/{id}", s.handleUpdateProperty)
				r.Post("/properties/{id}/images", s.handleUploadImage)
				r.Get("/my/properties", s.handleListMyProperties)
			})

			r.Post("/favorites/{propertyID}/toggle", s.handleToggleFavorite)
			r.Get("/favorites", s.handleListFavorites)

			r.Post("/comparison/{propertyID}", s.handleAddToComparison)
			r.Delete("/comparison/{propertyID}", s.handleRemoveFromComparison)
			r.Get("/comparison", s.handleGetComparison)
			r.Delete("/comparison", s.handleClearComparison)

			r.Post("/inquiries", s.handleCreateInquiry)
			r.Get("/inquiries/inbox", s.handleListInbox)
			r.Get("/inquiries/sent", s.handleListSent)
			r.Patch("/inquiries/{id}/read", s.handleMarkInquiryRead)
			r.Get("/inquiries/unread-count", s.handleInquiryUnreadCount)

			r.Get("/notifications", s.handleListNotifications)
			r.Patch("/notifications/{id}/read", s.handleMarkNotificationRead)
			r.Get("/notifications/unread-count", s.handleNotificationUnreadCount)

			r.Post("/searches", s.handleSaveSearch)
			r.Get("/searches", s.handleListSavedSearches)
			r.Get("/searches/{id}/results", s.handleRunSavedSearch)
			r.Delete("/searches/{id}", s.handleDeleteSavedSearch)

			r.Get("/preferences", s.handleGetPreferences)
			r.Put("/preferences", s.handleUpsertPreferences)

			r.Get("/recommendations", s.handleGetRecommendations)
			r.Get("/metrics/ai", s.handleAIStats)
		})
	})

	return r
}
