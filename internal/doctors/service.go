package doctors

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/hafiz229/doctors-portal-server/internal/models"
	"github.com/hafiz229/doctors-portal-server/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageURLTTL is how long a presigned doctor image link stays valid.
const ImageURLTTL = 15 * time.Minute

// ImageStore is an optional object-storage mirror for doctor images.
type ImageStore interface {
	PutImage(ctx context.Context, key string, data []byte, contentType string) error
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Service manages the doctor directory.
type Service struct {
	repo   Repository
	images ImageStore
}

// NewService returns a Service. images may be nil.
func NewService(r Repository, images ImageStore) *Service {
	return &Service{repo: r, images: images}
}

// ImageKey is the object key a doctor image is mirrored under.
func ImageKey(id primitive.ObjectID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "image"
	}
	return "doctors/" + id.Hex() + "/" + name
}

// Add stores a doctor with its uploaded image. A failing mirror does not
// fail the request; the doctor is stored without an image key.
func (s *Service) Add(ctx context.Context, d models.Doctor, filename string) (models.InsertResult, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	if d.Name == "" || d.Email == "" {
		return models.InsertResult{}, fmt.Errorf("name and email are required: %w", models.ErrInvalidInput)
	}
	if len(d.Image) == 0 {
		return models.InsertResult{}, fmt.Errorf("image is required: %w", models.ErrInvalidInput)
	}
	d.ID = primitive.NewObjectID()
	d.ImageKey = ""
	if s.images != nil {
		key := ImageKey(d.ID, filename)
		if err := s.images.PutImage(ctx, key, d.Image, d.ContentType); err != nil {
			logger.Warnf("doctors: mirroring image for %s failed: %v", d.ID.Hex(), err)
		} else {
			d.ImageKey = key
		}
	}
	return s.repo.Insert(ctx, &d)
}

// List returns every doctor, with presigned image links when mirrored.
func (s *Service) List(ctx context.Context) ([]*models.Doctor, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.images == nil {
		return docs, nil
	}
	for _, d := range docs {
		if d.ImageKey == "" {
			continue
		}
		u, err := s.images.PresignedURL(ctx, d.ImageKey, ImageURLTTL)
		if err != nil {
			logger.Warnf("doctors: presign %s failed: %v", d.ImageKey, err)
			continue
		}
		d.ImageURL = u
	}
	return docs, nil
}
