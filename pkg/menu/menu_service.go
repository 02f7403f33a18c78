package menu

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/entities"
	"github.com/m2-berezin/safedine-app/internal/utils/storage"
	"gorm.io/gorm"
)

type (
	MenuService interface {
		GetMenu(ctx context.Context, restaurantID string, prefs domain.Preferences, safeOnly bool) (domain.MenuResponse, error)
		UploadItemImage(ctx context.Context, req domain.UploadItemImageRequest) error
	}

	menuService struct {
		menuRepository MenuRepository
		s3             storage.AwsS3
		policy         FilterPolicy
	}
)

func NewMenuService(menuRepository MenuRepository, s3 storage.AwsS3, policy FilterPolicy) MenuService {
	return &menuService{
		menuRepository: menuRepository,
		s3:             s3,
		policy:         policy,
	}
}

// GetMenu returns the restaurant's active menu. Unavailable items are never
// offered; remaining items carry an is_safe flag for the diner's
// preferences, and safeOnly drops unsafe ones entirely. Read failures
// degrade to an empty menu with a logged warning.
func (s *menuService) GetMenu(ctx context.Context, restaurantID string, prefs domain.Preferences, safeOnly bool) (domain.MenuResponse, error) {
	menu, err := s.menuRepository.GetActiveMenu(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.MenuResponse{}, domain.ErrMenuNotFound
		}
		log.Printf("menu read failed for restaurant %s: %v", restaurantID, err)
		return domain.MenuResponse{Categories: []domain.MenuCategoryResponse{}}, nil
	}

	response := domain.MenuResponse{
		ID:         menu.ID.String(),
		Name:       menu.Name,
		Categories: make([]domain.MenuCategoryResponse, 0, len(menu.Categories)),
	}

	for _, category := range menu.Categories {
		categoryResponse := domain.MenuCategoryResponse{
			ID:    category.ID.String(),
			Name:  category.Name,
			Items: []domain.MenuItemResponse{},
		}

		for _, item := range category.Items {
			if !item.IsAvailable {
				continue
			}

			safe := IsSafe(item.Allergens, item.DietaryInfo, prefs, s.policy)
			if safeOnly && !safe {
				continue
			}

			categoryResponse.Items = append(categoryResponse.Items, toItemResponse(item, safe))
		}

		response.Categories = append(response.Categories, categoryResponse)
	}

	return response, nil
}

func (s *menuService) UploadItemImage(ctx context.Context, req domain.UploadItemImageRequest) error {
	item, err := s.menuRepository.GetMenuItemByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrMenuItemNotFound
		}
		return err
	}

	fileName := fmt.Sprintf("menu-item-%s", item.ID.String())
	var objectKey string
	var uploadErr error

	if item.ImageURL != "" {
		existingKey := s.s3.GetObjectKeyFromLink(item.ImageURL)
		if existingKey != "" {
			objectKey, uploadErr = s.s3.UpdateFile(existingKey, req.Image, storage.AllowImage...)
		} else {
			objectKey, uploadErr = s.s3.UploadFile(fileName, req.Image, "menu-items", storage.AllowImage...)
		}
	} else {
		objectKey, uploadErr = s.s3.UploadFile(fileName, req.Image, "menu-items", storage.AllowImage...)
	}

	if uploadErr != nil {
		return uploadErr
	}

	item.ImageURL = s.s3.GetPublicLinkKey(objectKey)
	return s.menuRepository.UpdateMenuItem(ctx, item)
}

func toItemResponse(item *entities.MenuItem, safe bool) domain.MenuItemResponse {
	return domain.MenuItemResponse{
		ID:              item.ID.String(),
		Name:            item.Name,
		Description:     item.Description,
		Price:           item.Price,
		Allergens:       item.Allergens,
		DietaryInfo:     item.DietaryInfo,
		IsPopular:       item.IsPopular,
		IsSafe:          safe,
		PreparationTime: item.PreparationTime,
		Calories:        item.Calories,
		SpiceLevel:      item.SpiceLevel,
		ImageURL:        item.ImageURL,
	}
}
