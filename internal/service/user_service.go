package service

import (
	"context"
	"errors"

	"github.com/tnhnyldz/LinkShorteningAssignment/internal/apperr"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/models"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/repository"
)

// UserService интерфейс сервиса пользователей
type UserService interface {
	Create(ctx context.Context, input *models.UserInput) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id string, input *models.UserInput) error
	Delete(ctx context.Context, id string) error
	MostLinkShortenerUser(ctx context.Context) (*models.MostLinkShortenerUserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	linkRepo repository.LinkRepository
}

func NewUserService(userRepo repository.UserRepository, linkRepo repository.LinkRepository) UserService {
	return &userService{
		userRepo: userRepo,
		linkRepo: linkRepo,
	}
}

func (s *userService) Create(ctx context.Context, input *models.UserInput) (*models.User, error) {
	user := &models.User{
		FullName: input.FullName,
		Username: input.Username,
		Password: input.Password,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.New(apperr.NotFound, "user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) Update(ctx context.Context, id string, input *models.UserInput) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.New(apperr.NotFound, "user not found")
		}
		return err
	}

	user := &models.User{
		ID:       id,
		FullName: input.FullName,
		Username: input.Username,
		Password: input.Password,
	}

	return s.userRepo.Update(ctx, user)
}

func (s *userService) Delete(ctx context.Context, id string) error {
	err := s.userRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return apperr.New(apperr.NotFound, "user not found")
	}
	return err
}

// MostLinkShortenerUser находит владельца наибольшего числа ссылок.
// Группировка в памяти по всем ссылкам, как и остальные агрегаты.
func (s *userService) MostLinkShortenerUser(ctx context.Context) (*models.MostLinkShortenerUserResponse, error) {
	links, err := s.linkRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if len(links) == 0 {
		return nil, apperr.New(apperr.NotFound, "no links have been created yet")
	}

	ownerID, count := mostFrequentOwner(links)

	user, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.New(apperr.NotFound, "user not found")
		}
		return nil, err
	}

	return &models.MostLinkShortenerUserResponse{
		FullName:  user.FullName,
		LinkCount: count,
	}, nil
}

// mostFrequentOwner возвращает createdBy с наибольшим числом ссылок.
// При равенстве побеждает владелец, первым набравший максимум, то есть
// порядок обхода стабилен.
func mostFrequentOwner(links []models.Link) (string, int) {
	counts := make(map[string]int)
	var bestID string
	best := 0

	for _, link := range links {
		counts[link.CreatedBy]++
		if counts[link.CreatedBy] > best {
			best = counts[link.CreatedBy]
			bestID = link.CreatedBy
		}
	}

	return bestID, best
}
