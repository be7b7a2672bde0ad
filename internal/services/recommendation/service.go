package recommendation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"rentkenya/internal/config"
	"rentkenya/internal/domain"
	"rentkenya/internal/lib/llm"
	"rentkenya/internal/lib/logger/sl"
	"rentkenya/internal/lib/metrics"
	"rentkenya/internal/services/user"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type ProfileProvider interface {
	GetProfile(ctx context.Context, id uuid.UUID) (domain.Profile, error)
}

type PreferencesProvider interface {
	GetPreferences(ctx context.Context, userID uuid.UUID) (domain.SearchPreferences, error)
}

type FavoritesProvider interface {
	FavoriteIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type CandidateProvider interface {
	ListAvailableExcluding(ctx context.Context, exclude []uuid.UUID, limit int) ([]domain.Property, error)
}

var ErrProfileNotFound = errors.New("profile not found")

type Service struct {
	log       *slog.Logger
	profiles  ProfileProvider
	prefs     PreferencesProvider
	favorites FavoritesProvider
	props     CandidateProvider
	llmClient llm.Client
	metrics   *metrics.AIMetrics
	cfg       config.RecommendConfig
}

func New(
	log *slog.Logger,
	profiles ProfileProvider,
	prefs PreferencesProvider,
	favorites FavoritesProvider,
	props CandidateProvider,
	llmClient llm.Client,
	cfg config.RecommendConfig,
) *Service {
	return &Service{
		log:       log,
		profiles:  profiles,
		prefs:     prefs,
		favorites: favorites,
		props:     props,
		llmClient: llmClient,
		metrics:   metrics.GetAIMetrics(log),
		cfg:       cfg,
	}
}

// userContext — контекст пользователя, сериализуемый в промпт модели.
type userContext struct {
	Profile        profileContext            `json:"profile"`
	Preferences    *domain.SearchPreferences `json:"preferences,omitempty"`
	HasPreferences bool                      `json:"hasPreferences"`
	PreferredAreas []string                  `json:"preferredAreas,omitempty"`
}

// profileContext — усечённый профиль без контактных данных.
type profileContext struct {
	FirstName string      `json:"first_name"`
	Role      domain.Role `json:"role"`
}

// MatchProperties — подбирает объекты для пользователя через LLM.
//
// Отказы делятся на два класса. Транспортные и инфраструктурные ошибки
// возвращаются вызывающему как error. Неразборчивый ответ модели — это
// деградация: возвращается пустая выдача со статусом degraded и без error.
func (s *Service) MatchProperties(ctx context.Context, userID uuid.UUID) (domain.MatchResult, error) {
	const op = "recommendation.Service.MatchProperties"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID.String()))

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrProfileNotFound) {
			return domain.MatchResult{}, fmt.Errorf("%s: %w", op, ErrProfileNotFound)
		}
		log.Error("failed to get profile", sl.Err(err))
		return domain.MatchResult{}, fmt.Errorf("%s: %w", op, err)
	}

	// Отсутствие предпочтений — штатная ситуация
	prefs, err := s.prefs.GetPreferences(ctx, userID)
	if err != nil {
		log.Error("failed to get preferences", sl.Err(err))
		return domain.MatchResult{}, fmt.Errorf("%s: %w", op, err)
	}
	hasPrefs := !prefs.UpdatedAt.IsZero()

	favoriteIDs, err := s.favorites.FavoriteIDs(ctx, userID)
	if err != nil {
		log.Error("failed to get favorites", sl.Err(err))
		return domain.MatchResult{}, fmt.Errorf("%s: %w", op, err)
	}

	candidates, err := s.props.ListAvailableExcluding(ctx, favoriteIDs, s.cfg.CandidateLimit)
	if err != nil {
		log.Error("failed to list candidates", sl.Err(err))
		return domain.MatchResult{}, fmt.Errorf("%s: %w", op, err)
	}

	// Нечего оценивать — модель не вызывается
	if len(candidates) == 0 {
		return domain.MatchResult{Status: domain.MatchStatusOK, Matches: []domain.PropertyMatch{}}, nil
	}

	if !s.llmClient.IsEnabled() {
		log.Warn("llm client disabled, returning degraded result")
		return degraded("llm disabled"), nil
	}

	uctx := userContext{
		Profile: profileContext{
			FirstName: profile.FirstName,
			Role:      profile.Role,
		},
		HasPreferences: hasPrefs,
	}
	if hasPrefs {
		uctx.Preferences = &prefs
		for _, loc := range prefs.PreferredLocations {
			uctx.PreferredAreas = append(uctx.PreferredAreas, domain.NormalizeArea(loc))
		}
	}

	uctxJSON, err := json.Marshal(uctx)
	if err != nil {
		return domain.MatchResult{}, fmt.Errorf("%s: %w", op, err)
	}
	candidatesJSON, err := json.Marshal(candidates)
	if err != nil {
		return domain.MatchResult{}, fmt.Errorf("%s: %w", op, err)
	}

	timer := s.metrics.StartTimer()
	resp, err := s.llmClient.MatchProperties(ctx, llm.MatchRequest{
		UserContext: uctxJSON,
		Candidates:  candidatesJSON,
		MinScore:    s.cfg.MinScore,
		MaxMatches:  s.cfg.MaxMatches,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	timer.Stop(err)
	if err != nil {
		if errors.Is(err, llm.ErrMalformedResponse) {
			log.Warn("model response unparseable, degrading", sl.Err(err))
			s.metrics.RecordDegraded()
			return degraded("model response unparseable"), nil
		}
		log.Error("llm request failed", sl.Err(err))
		return domain.MatchResult{}, fmt.Errorf("%s: %w", op, err)
	}

	matches := s.resolveMatches(resp.Matches, candidates)
	log.Info("matches resolved", slog.Int("count", len(matches)))

	return domain.MatchResult{
		Status:  domain.MatchStatusOK,
		Matches: matches,
	}, nil
}

// Stats возвращает накопленные метрики вызовов модели.
func (s *Service) Stats() metrics.Stats {
	return s.metrics.GetStats()
}

func degraded(reason string) domain.MatchResult {
	return domain.MatchResult{
		Status:         domain.MatchStatusDegraded,
		DegradedReason: reason,
		Matches:        []domain.PropertyMatch{},
	}
}

// resolveMatches сопоставляет ответ модели с каноническими кандидатами по id.
// Ограничения MinScore/MaxMatches применяются здесь же: инструкции промпта
// для модели не обязательны к исполнению.
func (s *Service) resolveMatches(payloads []llm.MatchPayload, candidates []domain.Property) []domain.PropertyMatch {
	byID := lo.KeyBy(candidates, func(p domain.Property) uuid.UUID { return p.ID })

	matches := make([]domain.PropertyMatch, 0, len(payloads))
	for _, payload := range payloads {
		if payload.MatchScore < s.cfg.MinScore {
			continue
		}

		var echoed struct {
			ID uuid.UUID `json:"id"`
		}
		if err := json.Unmarshal(payload.Property, &echoed); err != nil {
			s.log.Warn("match payload without parseable property id", sl.Err(err))
			continue
		}

		// Модель может выдумать объект; такие записи отбрасываются
		canonical, ok := byID[echoed.ID]
		if !ok {
			s.log.Warn("model returned unknown property",
				slog.String("property_id", echoed.ID.String()))
			continue
		}

		score := payload.MatchScore
		if score > 100 {
			score = 100
		}

		matches = append(matches, domain.PropertyMatch{
			Property:   canonical,
			MatchScore: score,
			Reasons:    payload.Reasons,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})

	if len(matches) > s.cfg.MaxMatches {
		matches = matches[:s.cfg.MaxMatches]
	}

	return matches
}
