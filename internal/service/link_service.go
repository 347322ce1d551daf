package service

import (
	"context"
	"errors"
	"time"

	"github.com/tnhnyldz/LinkShorteningAssignment/internal/apperr"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/models"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/repository"
	"go.uber.org/zap"
)

// LinkService интерфейс сервиса ссылок
type LinkService interface {
	Create(ctx context.Context, userID string, input *models.CreateLinkInput) (*models.Link, error)
	Resolve(ctx context.Context, key string) (*models.Link, error)
	GetByID(ctx context.Context, id string) (*models.Link, error)
	List(ctx context.Context) ([]models.Link, error)
	MostClicked(ctx context.Context) ([]models.Link, error)
	Update(ctx context.Context, id string, input *models.UpdateLinkInput) error
	Delete(ctx context.Context, id string) error
}

type linkService struct {
	linkRepo  repository.LinkRepository
	userRepo  repository.UserRepository
	cacheRepo repository.CacheRepository
	keygen    *KeyGenerator
	baseURL   string
	logger    *zap.Logger
}

// NewLinkService создаёт новый экземпляр сервиса. baseURL передаётся явно,
// никакого глобального состояния.
func NewLinkService(
	linkRepo repository.LinkRepository,
	userRepo repository.UserRepository,
	cacheRepo repository.CacheRepository,
	keygen *KeyGenerator,
	baseURL string,
	logger *zap.Logger,
) LinkService {
	return &linkService{
		linkRepo:  linkRepo,
		userRepo:  userRepo,
		cacheRepo: cacheRepo,
		keygen:    keygen,
		baseURL:   baseURL,
		logger:    logger,
	}
}

// Create создаёт новую короткую ссылку от имени userID.
func (s *linkService) Create(ctx context.Context, userID string, input *models.CreateLinkInput) (*models.Link, error) {
	link := &models.Link{
		OriginalURL: input.OriginalURL,
		CreatedBy:   userID,
		ClickCount:  0,
		CreatedAt:   time.Now(),
		ExpiredAt:   input.ExpiredAt,
	}

	if input.SpecialKey != "" {
		if len(input.SpecialKey) > maxSpecialKeyLen {
			return nil, apperr.New(apperr.Validation, "special key must be at most 10 characters")
		}

		shortenedURL := s.shortenedURL(input.SpecialKey)
		_, err := s.linkRepo.GetByShortenedURL(ctx, shortenedURL)
		if err == nil {
			return nil, apperr.New(apperr.Conflict, "special key is already in use, please choose another one")
		}
		if !errors.Is(err, repository.ErrLinkNotFound) {
			return nil, err
		}

		link.ShortenedURL = shortenedURL
	} else {
		// Синтезированный ключ на существование не проверяется
		link.ShortenedURL = s.shortenedURL(s.keygen.Generate(time.Now()))
	}

	if err := s.linkRepo.Create(ctx, link); err != nil {
		return nil, err
	}

	s.cache(ctx, link)

	return link, nil
}

// Resolve находит ссылку по ключу, проверяет срок жизни и атомарно
// увеличивает счётчик переходов. Используется и редиректом, и GeyByKey.
func (s *linkService) Resolve(ctx context.Context, key string) (*models.Link, error) {
	shortenedURL := s.shortenedURL(key)

	link, err := s.cacheRepo.Get(ctx, shortenedURL)
	if err != nil {
		link, err = s.linkRepo.GetByShortenedURL(ctx, shortenedURL)
		if err != nil {
			if errors.Is(err, repository.ErrLinkNotFound) {
				return nil, apperr.New(apperr.NotFound, "link not found")
			}
			return nil, err
		}
		s.cache(ctx, link)
	}

	if link.ExpiredAt.Before(time.Now()) {
		// Счётчик просроченной ссылки не трогаем
		return nil, apperr.New(apperr.Expired, "link has expired")
	}

	count, err := s.linkRepo.IncrementClickCount(ctx, link.ID)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			// Удалена между чтением и инкрементом
			return nil, apperr.New(apperr.NotFound, "link not found")
		}
		return nil, err
	}
	link.ClickCount = count

	return link, nil
}

func (s *linkService) GetByID(ctx context.Context, id string) (*models.Link, error) {
	link, err := s.linkRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, apperr.New(apperr.NotFound, "link not found")
		}
		return nil, err
	}
	return link, nil
}

func (s *linkService) List(ctx context.Context) ([]models.Link, error) {
	return s.linkRepo.List(ctx)
}

// MostClicked возвращает все ссылки по убыванию кликов с именами владельцев.
func (s *linkService) MostClicked(ctx context.Context) ([]models.Link, error) {
	links, err := s.linkRepo.ListByClicks(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	joinOwnerNames(links, users)

	return links, nil
}

func (s *linkService) Update(ctx context.Context, id string, input *models.UpdateLinkInput) error {
	current, err := s.linkRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return apperr.New(apperr.NotFound, "link not found")
		}
		return err
	}

	updated := &models.Link{
		ID:           id,
		OriginalURL:  input.OriginalURL,
		ShortenedURL: input.ShortenedURL,
		CreatedBy:    input.CreatedBy,
		ClickCount:   input.ClickCount,
		CreatedAt:    current.CreatedAt,
		ExpiredAt:    input.ExpiredAt,
	}

	if err := s.linkRepo.Update(ctx, updated); err != nil {
		return err
	}

	// Инвалидация кэша по старому и новому адресу
	s.uncache(ctx, current.ShortenedURL)
	if updated.ShortenedURL != current.ShortenedURL {
		s.uncache(ctx, updated.ShortenedURL)
	}

	return nil
}

func (s *linkService) Delete(ctx context.Context, id string) error {
	link, err := s.linkRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return apperr.New(apperr.NotFound, "link not found")
		}
		return err
	}

	s.uncache(ctx, link.ShortenedURL)

	return s.linkRepo.Delete(ctx, id)
}

func (s *linkService) shortenedURL(key string) string {
	return s.baseURL + "/" + key
}

// cache кладёт ссылку в кэш до истечения её срока. Ошибка кэша не
// прерывает операцию.
func (s *linkService) cache(ctx context.Context, link *models.Link) {
	ttl := time.Until(link.ExpiredAt)
	if ttl <= 0 {
		return
	}
	if err := s.cacheRepo.Set(ctx, link.ShortenedURL, link, ttl); err != nil {
		s.logger.Debug("failed to cache link", zap.String("shortened_url", link.ShortenedURL), zap.Error(err))
	}
}

func (s *linkService) uncache(ctx context.Context, shortenedURL string) {
	if err := s.cacheRepo.Delete(ctx, shortenedURL); err != nil {
		s.logger.Debug("failed to invalidate cached link", zap.String("shortened_url", shortenedURL), zap.Error(err))
	}
}

// joinOwnerNames подставляет имена владельцев в выборку ссылок. Хранилище
// документное, join делается на стороне приложения; отсутствующий
// владелец оставляет имя пустым, а не роняет весь запрос.
func joinOwnerNames(links []models.Link, users []models.User) {
	names := make(map[string]string, len(users))
	for _, user := range users {
		names[user.ID] = user.FullName
	}

	for i := range links {
		links[i].CreatedUser = names[links[i].CreatedBy]
	}
}
