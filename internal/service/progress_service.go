package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime"
	"path"
	"strings"
	"time"

	"trainerhub/app/internal/domain"
	"trainerhub/app/internal/repository"
	"trainerhub/app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PhotoURL is a presigned object storage URL.
type PhotoURL struct {
	URL       string    `json:"url"`
	ObjectKey string    `json:"objectKey,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ProgressService records client body measurements and their photos.
type ProgressService interface {
	ListForClient(ctx context.Context, trainerID, clientID primitive.ObjectID, page domain.Page) ([]domain.Progress, domain.Page, error)
	Create(ctx context.Context, trainerID primitive.ObjectID, p *domain.Progress) (*domain.Progress, error)
	Update(ctx context.Context, trainerID, progressID primitive.ObjectID, patch domain.ProgressPatch) (*domain.Progress, error)
	Delete(ctx context.Context, trainerID, progressID primitive.ObjectID) error
	Stats(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.ProgressStats, error)
	// PhotoUploadURL issues a PUT URL and records the object key on the measurement.
	PhotoUploadURL(ctx context.Context, trainerID, progressID primitive.ObjectID, contentType string) (*PhotoURL, error)
	PhotoDownloadURL(ctx context.Context, trainerID, progressID primitive.ObjectID) (*PhotoURL, error)
}

type progressService struct {
	progressRepo repository.ProgressRepository
	clientRepo   repository.ClientRepository
	files        storage.FileStorage
	logger       *zap.Logger
	now          func() time.Time
}

// NewProgressService creates a new instance of progressService. Pass
// storage.Disabled() when no bucket is configured.
func NewProgressService(progressRepo repository.ProgressRepository, clientRepo repository.ClientRepository, files storage.FileStorage, logger *zap.Logger) ProgressService {
	if files == nil {
		files = storage.Disabled()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &progressService{
		progressRepo: progressRepo,
		clientRepo:   clientRepo,
		files:        files,
		logger:       logger,
		now:          time.Now,
	}
}

func withPhotoFlag(p *domain.Progress) *domain.Progress {
	p.HasPhoto = p.PhotoKey != ""
	return p
}

func validateProgress(p *domain.Progress) error {
	if _, err := time.Parse(domain.DateLayout, p.Date); err != nil {
		return invalid("date must be YYYY-MM-DD")
	}
	for _, v := range []*float64{p.Weight, p.Chest, p.Waist, p.Hips, p.Biceps} {
		if v != nil && *v < 0 {
			return invalid("measurements cannot be negative")
		}
	}
	return nil
}

func (s *progressService) checkClient(ctx context.Context, trainerID, clientID primitive.ObjectID) error {
	if _, err := s.clientRepo.GetByID(ctx, trainerID, clientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("get client: %w", err)
	}
	return nil
}

func (s *progressService) ListForClient(ctx context.Context, trainerID, clientID primitive.ObjectID, page domain.Page) ([]domain.Progress, domain.Page, error) {
	page = page.Normalize()
	if err := s.checkClient(ctx, trainerID, clientID); err != nil {
		return nil, page, err
	}
	items, total, err := s.progressRepo.ListByClient(ctx, trainerID, clientID, page)
	if err != nil {
		return nil, page, fmt.Errorf("list progress: %w", err)
	}
	if items == nil {
		items = []domain.Progress{}
	}
	for i := range items {
		withPhotoFlag(&items[i])
	}
	page.Total = total
	return items, page, nil
}

func (s *progressService) Create(ctx context.Context, trainerID primitive.ObjectID, p *domain.Progress) (*domain.Progress, error) {
	if p == nil {
		return nil, invalid("measurement is required")
	}
	if p.ClientID.IsZero() {
		return nil, invalid("clientId is required")
	}
	p.ID = primitive.NilObjectID
	p.TrainerID = trainerID
	p.PhotoKey = ""
	if p.Date == "" {
		p.Date = s.now().UTC().Format(domain.DateLayout)
	}
	if err := validateProgress(p); err != nil {
		return nil, err
	}
	if err := s.checkClient(ctx, trainerID, p.ClientID); err != nil {
		return nil, err
	}
	if _, err := s.progressRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create progress: %w", err)
	}
	return withPhotoFlag(p), nil
}

func (s *progressService) get(ctx context.Context, trainerID, progressID primitive.ObjectID) (*domain.Progress, error) {
	p, err := s.progressRepo.GetByID(ctx, trainerID, progressID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return p, nil
}

func (s *progressService) save(ctx context.Context, p *domain.Progress) error {
	if err := s.progressRepo.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgressNotFound
		}
		return fmt.Errorf("update progress: %w", err)
	}
	return nil
}

func (s *progressService) Update(ctx context.Context, trainerID, progressID primitive.ObjectID, patch domain.ProgressPatch) (*domain.Progress, error) {
	p, err := s.get(ctx, trainerID, progressID)
	if err != nil {
		return nil, err
	}
	patch.Apply(p)
	if err := validateProgress(p); err != nil {
		return nil, err
	}
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return withPhotoFlag(p), nil
}

func (s *progressService) Delete(ctx context.Context, trainerID, progressID primitive.ObjectID) error {
	p, err := s.get(ctx, trainerID, progressID)
	if err != nil {
		return err
	}
	if err := s.progressRepo.Delete(ctx, trainerID, progressID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgressNotFound
		}
		return fmt.Errorf("delete progress: %w", err)
	}
	if p.PhotoKey != "" {
		// The record is gone either way; an orphaned object is only logged.
		if err := s.files.DeleteObject(ctx, p.PhotoKey); err != nil {
			s.logger.Warn("Failed to delete progress photo",
				zap.String("progress_id", progressID.Hex()),
				zap.String("object_key", p.PhotoKey),
				zap.Error(err))
		}
	}
	return nil
}

var statMetrics = []struct {
	name string
	get  func(*domain.Progress) *float64
}{
	{"weight", func(p *domain.Progress) *float64 { return p.Weight }},
	{"chest", func(p *domain.Progress) *float64 { return p.Chest }},
	{"waist", func(p *domain.Progress) *float64 { return p.Waist }},
	{"hips", func(p *domain.Progress) *float64 { return p.Hips }},
	{"biceps", func(p *domain.Progress) *float64 { return p.Biceps }},
}

func (s *progressService) Stats(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.ProgressStats, error) {
	if err := s.checkClient(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	all, err := s.progressRepo.AllByClient(ctx, trainerID, clientID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return computeStats(clientID, all), nil
}

// computeStats expects entries oldest first.
func computeStats(clientID primitive.ObjectID, entries []domain.Progress) *domain.ProgressStats {
	stats := &domain.ProgressStats{
		ClientID: clientID,
		Count:    len(entries),
		Metrics:  make(map[string]*domain.MetricStats),
	}
	if len(entries) == 0 {
		return stats
	}
	stats.FirstDate = entries[0].Date
	stats.LastDate = entries[len(entries)-1].Date

	for _, m := range statMetrics {
		var ms *domain.MetricStats
		for i := range entries {
			v := m.get(&entries[i])
			if v == nil {
				continue
			}
			if ms == nil {
				ms = &domain.MetricStats{First: *v}
			}
			ms.Latest = *v
		}
		if ms != nil {
			ms.Change = math.Round((ms.Latest-ms.First)*100) / 100
			stats.Metrics[m.name] = ms
		}
	}
	return stats
}

func (s *progressService) PhotoUploadURL(ctx context.Context, trainerID, progressID primitive.ObjectID, contentType string) (*PhotoURL, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, invalid("contentType must be an image type")
	}
	p, err := s.get(ctx, trainerID, progressID)
	if err != nil {
		return nil, err
	}

	key := path.Join("progress", trainerID.Hex(), p.ClientID.Hex(), uuid.NewString()+photoExtension(contentType))
	url, err := s.files.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, storageErr(err)
	}

	previous := p.PhotoKey
	p.PhotoKey = key
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	if previous != "" && previous != key {
		if err := s.files.DeleteObject(ctx, previous); err != nil {
			s.logger.Warn("Failed to delete replaced progress photo", zap.String("object_key", previous), zap.Error(err))
		}
	}
	return &PhotoURL{URL: url, ObjectKey: key, ExpiresAt: s.now().Add(storage.DefaultPresignedURLExpiry)}, nil
}

func (s *progressService) PhotoDownloadURL(ctx context.Context, trainerID, progressID primitive.ObjectID) (*PhotoURL, error) {
	p, err := s.get(ctx, trainerID, progressID)
	if err != nil {
		return nil, err
	}
	if p.PhotoKey == "" {
		return nil, ErrNoPhoto
	}
	url, err := s.files.GeneratePresignedDownloadURL(ctx, p.PhotoKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, storageErr(err)
	}
	return &PhotoURL{URL: url, ExpiresAt: s.now().Add(storage.DefaultPresignedURLExpiry)}, nil
}

func storageErr(err error) error {
	if errors.Is(err, storage.ErrDisabled) {
		return ErrPhotoUnavailable
	}
	return fmt.Errorf("presign photo url: %w", err)
}

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/heic": ".heic",
}

func photoExtension(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return photoExtensions[mediaType]
}
