package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"tag-admin/pkg/config"
	"tag-admin/pkg/models"
)

const sessionTTL = 30 * time.Minute

// TagAPI is the remote tags collection
type TagAPI interface {
	PageSource
	CreateTag(ctx context.Context, tag models.Tag) (*models.Tag, error)
}

// Service handles operations related to tags
type Service struct {
	config   *config.Config
	api      TagAPI
	pages    *PageCache
	sessions *cache.Cache
	validate *validator.Validate
	logger   zerolog.Logger
	mu       sync.Mutex
}

var (
	// defaultService is the singleton instance of Service
	defaultService *Service
	once           sync.Once
)

// InitService initializes the service with the given configuration
func InitService(cfg *config.Config, logger zerolog.Logger) {
	once.Do(func() {
		defaultService = NewService(cfg, NewTagClient(cfg, logger), logger)
	})
}

// Default returns the service created by InitService
func Default() *Service {
	return defaultService
}

// NewService creates a service reading tags from api
func NewService(cfg *config.Config, api TagAPI, logger zerolog.Logger) *Service {
	return &Service{
		config:   cfg,
		api:      api,
		pages:    NewPageCache(api, cfg.CacheTTL, logger),
		sessions: cache.New(sessionTTL, 2*sessionTTL),
		validate: validator.New(),
		logger:   logger,
	}
}

// Config returns the configuration the service was built with
func (s *Service) Config() *config.Config {
	return s.config
}

// NewView creates a list view backed by the shared page cache
func (s *Service) NewView() *ListView {
	return NewListView(s.pages, s.config.RequestTimeout, s.logger)
}

// View returns the list view for an admin session, creating it on first use.
// Sessions idle for longer than sessionTTL start over with a fresh view.
func (s *Service) View(sessionID string) *ListView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, found := s.sessions.Get(sessionID); found {
		view := cached.(*ListView)
		s.sessions.Set(sessionID, view, cache.DefaultExpiration)
		return view
	}

	view := s.NewView()
	s.sessions.Set(sessionID, view, cache.DefaultExpiration)
	return view
}

// GetPage returns one page of tags, from cache when possible
func GetPage(ctx context.Context, intent models.QueryIntent) (*models.TagPage, error) {
	return defaultService.GetPage(ctx, intent)
}

// GetPage returns one page of tags, from cache when possible
func (s *Service) GetPage(ctx context.Context, intent models.QueryIntent) (*models.TagPage, error) {
	return s.pages.Get(ctx, intent)
}

// CollectTags returns every tag matching filter, walking all pages
func CollectTags(ctx context.Context, filter string) ([]models.Tag, error) {
	return defaultService.CollectTags(ctx, filter)
}

// CollectTags returns every tag matching filter, walking all pages
func (s *Service) CollectTags(ctx context.Context, filter string) ([]models.Tag, error) {
	var tags []models.Tag

	for page := 1; ; page++ {
		result, err := s.pages.Get(ctx, models.QueryIntent{Page: page, FilterText: filter})
		if err != nil {
			return nil, fmt.Errorf("collect tags page %d: %w", page, err)
		}
		tags = append(tags, result.Data...)

		if result.Next == nil || page >= result.Last || len(result.Data) == 0 {
			break
		}
	}

	if tags == nil {
		tags = []models.Tag{}
	}
	return tags, nil
}

// CreateTagInput is the validated payload for a new tag
type CreateTagInput struct {
	Title string `validate:"required,min=2,max=64"`
	Slug  string `validate:"required"`
}

// CreateTag creates a tag through the default service
func CreateTag(ctx context.Context, title string) (*models.Tag, error) {
	return defaultService.CreateTag(ctx, title)
}

// CreateTag validates title, derives its slug, stores the tag remotely and drops every
// cached page so the new tag shows up on the next fetch.
func (s *Service) CreateTag(ctx context.Context, title string) (*models.Tag, error) {
	input := CreateTagInput{
		Title: strings.TrimSpace(title),
	}
	input.Slug = Slugify(input.Title)

	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTag, validationMessage(err))
	}

	created, err := s.api.CreateTag(ctx, models.Tag{
		Title: input.Title,
		Slug:  input.Slug,
	})
	if err != nil {
		return nil, err
	}

	s.pages.Invalidate()
	s.logger.Info().Str("id", created.ID).Str("slug", created.Slug).Msg("tag created")

	return created, nil
}

func validationMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err.Error()
	}

	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			messages = append(messages, field+" is required")
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, e.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, e.Param()))
		default:
			messages = append(messages, field+" is invalid")
		}
	}
	return strings.Join(messages, ", ")
}
