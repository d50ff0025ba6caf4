package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"realview/internal/caching"
	"realview/internal/common"
	"realview/internal/models"
	"realview/internal/repositories"

	"github.com/google/uuid"
)

// ErrNotPending is returned when a review or submit hits a listing that is
// not in a state the transition accepts.
var ErrNotPending = errors.New("listing is not awaiting review")

const propertyCacheTTL = 5 * time.Minute

// MaxListingImages caps how many images one listing carries.
const MaxListingImages = 5

// ImageUpload is one multipart image on its way to object storage.
type ImageUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
	Size        int64
}

type PropertyInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Location    string  `json:"location"`
	Dimensions  *string `json:"dimensions"`
}

type PropertyService interface {
	Create(ctx context.Context, agentID uuid.UUID, input *PropertyInput, images []ImageUpload) (*models.Property, error)
	GetVisible(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, requesterRole string) (*models.Property, error)
	ListApproved(ctx context.Context, filter *models.PropertySearchFilter) ([]*models.Property, int64, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*models.Property, error)
	Update(ctx context.Context, id, agentID uuid.UUID, update *models.PropertyUpdate) (*models.Property, error)
	Delete(ctx context.Context, id, agentID uuid.UUID) error
	Submit(ctx context.Context, id, agentID uuid.UUID) (*models.Property, error)
	Review(ctx context.Context, id uuid.UUID, action, reason string) (*models.Property, error)
	ReapStaleDrafts(ctx context.Context, olderThan time.Time) (int, error)
}

type propertyService struct {
	propertyRepo repositories.PropertyRepository
	storage      StorageService
	cacheSvc     caching.CacheService
}

func NewPropertyService(propertyRepo repositories.PropertyRepository, storage StorageService, cacheSvc caching.CacheService) PropertyService {
	return &propertyService{
		propertyRepo: propertyRepo,
		storage:      storage,
		cacheSvc:     cacheSvc,
	}
}

func (s *propertyService) validateInput(input *PropertyInput) error {
	if err := common.ValidateRequiredString(input.Title, "title"); err != nil {
		return &ValidationError{Field: "title", Message: err.Error()}
	}
	if err := common.ValidatePositivePrice(input.Price); err != nil {
		return &ValidationError{Field: "price", Message: err.Error()}
	}
	if err := common.ValidateRequiredString(input.Location, "location"); err != nil {
		return &ValidationError{Field: "location", Message: err.Error()}
	}
	return nil
}

// Create persists a new listing. A complete submission (at least one image)
// goes straight to PENDING review; without images it parks as DRAFT for the
// multi-step form flow to finish later.
func (s *propertyService) Create(ctx context.Context, agentID uuid.UUID, input *PropertyInput, images []ImageUpload) (*models.Property, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}
	if len(images) > MaxListingImages {
		return nil, &ValidationError{Field: "images", Message: fmt.Sprintf("at most %d images allowed", MaxListingImages)}
	}

	propertyID := uuid.New()
	imageURLs := make([]string, 0, len(images))
	for i, img := range images {
		objectName := fmt.Sprintf("properties/%s/%d-%s", propertyID, i, sanitizeFilename(img.Filename))
		url, err := s.storage.UploadImage(ctx, objectName, img.ContentType, img.Reader, img.Size)
		if err != nil {
			return nil, fmt.Errorf("failed to upload image: %w", err)
		}
		imageURLs = append(imageURLs, url)
	}

	status := models.PropertyStatusPending
	if len(imageURLs) == 0 {
		status = models.PropertyStatusDraft
	}

	property := &models.Property{
		ID:          propertyID,
		AgentID:     agentID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Price:       input.Price,
		Location:    strings.TrimSpace(input.Location),
		Dimensions:  input.Dimensions,
		Images:      imageURLs,
		Status:      status,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

// GetVisible enforces read visibility: APPROVED listings are public, every
// other status is visible only to the owning agent or an admin and reads as
// absent to anyone else.
func (s *propertyService) GetVisible(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, requesterRole string) (*models.Property, error) {
	property, err := s.cacheSvc.GetProperty(ctx, id)
	if err != nil {
		log.Printf("WARN: property cache read failed: %v", err)
	}
	if property == nil {
		property, err = s.propertyRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if cacheErr := s.cacheSvc.SetProperty(ctx, property, propertyCacheTTL); cacheErr != nil {
			log.Printf("WARN: property cache write failed: %v", cacheErr)
		}
	}

	if property.Status == models.PropertyStatusApproved {
		return property, nil
	}
	if requesterRole == models.RoleAdmin || property.AgentID == requesterID {
		return property, nil
	}
	return nil, repositories.ErrNotFound
}

func (s *propertyService) ListApproved(ctx context.Context, filter *models.PropertySearchFilter) ([]*models.Property, int64, error) {
	filter.Query = common.SanitizeSearchQuery(filter.Query)
	filter.Limit, filter.Offset = common.ValidatePaginationParams(filter.Limit, filter.Offset)
	return s.propertyRepo.ListApproved(ctx, filter)
}

func (s *propertyService) ListByAgent(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*models.Property, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.propertyRepo.ListByAgent(ctx, agentID, limit, offset)
}

func (s *propertyService) Update(ctx context.Context, id, agentID uuid.UUID, update *models.PropertyUpdate) (*models.Property, error) {
	if update.Title != nil {
		if err := common.ValidateRequiredString(*update.Title, "title"); err != nil {
			return nil, &ValidationError{Field: "title", Message: err.Error()}
		}
	}
	if update.Price != nil {
		if err := common.ValidatePositivePrice(*update.Price); err != nil {
			return nil, &ValidationError{Field: "price", Message: err.Error()}
		}
	}
	if update.Location != nil {
		if err := common.ValidateRequiredString(*update.Location, "location"); err != nil {
			return nil, &ValidationError{Field: "location", Message: err.Error()}
		}
	}

	if err := s.propertyRepo.UpdateByOwner(ctx, id, agentID, update); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return s.propertyRepo.GetByID(ctx, id)
}

func (s *propertyService) Delete(ctx context.Context, id, agentID uuid.UUID) error {
	// Read first only to learn the image names; the ownership decision
	// stays inside the filtered DELETE below.
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.propertyRepo.DeleteByOwner(ctx, id, agentID); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.removeImages(ctx, property.Images)
	return nil
}

func (s *propertyService) Submit(ctx context.Context, id, agentID uuid.UUID) (*models.Property, error) {
	err := s.propertyRepo.SubmitByOwner(ctx, id, agentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNoTransition) {
			return nil, s.explainNoTransition(ctx, id, agentID)
		}
		return nil, err
	}
	s.invalidate(ctx, id)
	return s.propertyRepo.GetByID(ctx, id)
}

func (s *propertyService) Review(ctx context.Context, id uuid.UUID, action, reason string) (*models.Property, error) {
	action = strings.ToUpper(strings.TrimSpace(action))
	if action != models.ReviewActionApprove && action != models.ReviewActionReject {
		return nil, &ValidationError{Field: "action", Message: "action must be APPROVED or REJECTED"}
	}

	var reasonPtr *string
	if action == models.ReviewActionReject {
		reason = strings.TrimSpace(reason)
		if reason == "" {
			return nil, &ValidationError{Field: "reason", Message: "a rejection reason is required"}
		}
		reasonPtr = &reason
	}

	err := s.propertyRepo.Review(ctx, id, action, reasonPtr)
	if err != nil {
		if errors.Is(err, repositories.ErrNoTransition) {
			return nil, s.explainNoTransition(ctx, id, uuid.Nil)
		}
		return nil, err
	}
	s.invalidate(ctx, id)
	return s.propertyRepo.GetByID(ctx, id)
}

// explainNoTransition distinguishes "listing absent (or not yours)" from
// "listing in the wrong state" after the conditional update already refused
// atomically. The diagnosis is read-only and best-effort.
func (s *propertyService) explainNoTransition(ctx context.Context, id, requiredOwner uuid.UUID) error {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return repositories.ErrNotFound
	}
	if requiredOwner != uuid.Nil && property.AgentID != requiredOwner {
		return repositories.ErrNotFound
	}
	return ErrNotPending
}

// ReapStaleDrafts deletes DRAFT listings untouched since olderThan, images
// included. Run from the background scheduler.
func (s *propertyService) ReapStaleDrafts(ctx context.Context, olderThan time.Time) (int, error) {
	drafts, err := s.propertyRepo.ListStaleDrafts(ctx, olderThan)
	if err != nil {
		return 0, err
	}

	reaped := 0
	for _, draft := range drafts {
		if err := s.propertyRepo.Delete(ctx, draft.ID); err != nil {
			log.Printf("WARN: failed to reap stale draft %s: %v", draft.ID, err)
			continue
		}
		s.invalidate(ctx, draft.ID)
		s.removeImages(ctx, draft.Images)
		reaped++
	}
	return reaped, nil
}

func (s *propertyService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cacheSvc.DeleteProperty(ctx, id); err != nil {
		log.Printf("WARN: property cache invalidation failed: %v", err)
	}
}

// removeImages is best-effort cleanup; a leaked object is logged, never a
// request failure.
func (s *propertyService) removeImages(ctx context.Context, urls []string) {
	for _, url := range urls {
		objectName := objectNameFromURL(url)
		if objectName == "" {
			continue
		}
		if err := s.storage.DeleteImage(ctx, objectName); err != nil {
			log.Printf("WARN: failed to delete image %s: %v", objectName, err)
		}
	}
}

// objectNameFromURL strips scheme, host and bucket from a stored image URL.
func objectNameFromURL(url string) string {
	parts := strings.SplitN(url, "/", 5)
	if len(parts) < 5 {
		return ""
	}
	return parts[4]
}

func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" {
		name = "image"
	}
	if len(name) > 80 {
		name = name[len(name)-80:]
	}
	return name
}
