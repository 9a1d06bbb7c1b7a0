package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/sharpfade/barber-booking-api/models"
	"github.com/sharpfade/barber-booking-api/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const photoURLTTL = time.Hour

// PhotoService validates, stores and serves barber profile photos.
type PhotoService struct {
	db     *gorm.DB
	store  ObjectStore
	logger *zap.Logger
	now    func() time.Time
}

// NewPhotoService creates a PhotoService on top of an object store.
func NewPhotoService(db *gorm.DB, store ObjectStore, logger *zap.Logger) *PhotoService {
	return &PhotoService{db: db, store: store, logger: orNop(logger), now: time.Now}
}

// UploadBarberPhoto replaces a barber's photo. The previous object is
// removed after the new key is saved.
func (s *PhotoService) UploadBarberPhoto(ctx context.Context, barberID uint, fileHeader *multipart.FileHeader) (*models.Barber, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return nil, err
	}
	contentType, _ := utils.ImageContentType(fileHeader.Filename)

	var barber models.Barber
	if err := s.db.WithContext(ctx).Preload("User").First(&barber, barberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBarberNotFound
		}
		return nil, Internal("Failed to load barber", err)
	}

	content, err := readUpload(fileHeader)
	if err != nil {
		return nil, Internal("Failed to read upload", err)
	}

	key := utils.BarberPhotoKey(barber.ID, fileHeader.Filename, s.now())
	if err := s.store.PutObject(ctx, key, contentType, content); err != nil {
		return nil, Internal("Failed to upload image", err)
	}

	previous := barber.PhotoKey
	if err := s.db.WithContext(ctx).Model(&barber).Update("photo_key", key).Error; err != nil {
		return nil, Internal("Failed to save photo", err)
	}
	barber.PhotoKey = &key

	if previous != nil && *previous != key {
		if err := s.store.DeleteObject(ctx, *previous); err != nil {
			s.logger.Warn("failed to delete previous photo", zap.String("key", *previous), zap.Error(err))
		}
	}

	s.AttachURL(ctx, &barber)
	return &barber, nil
}

// AttachURL fills PhotoURL with a presigned link. Failures leave it empty.
func (s *PhotoService) AttachURL(ctx context.Context, barber *models.Barber) {
	if barber == nil || barber.PhotoKey == nil || *barber.PhotoKey == "" {
		return
	}
	url, err := s.store.PresignGet(ctx, *barber.PhotoKey, photoURLTTL)
	if err != nil {
		s.logger.Warn("failed to presign photo", zap.Uint("barber_id", barber.ID), zap.Error(err))
		return
	}
	barber.PhotoURL = &url
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return content, nil
}
