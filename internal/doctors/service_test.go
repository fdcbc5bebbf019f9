package doctors

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hafiz229/doctors-portal-server/internal/models"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeImages struct {
	puts   map[string][]byte
	putErr error
}

func newFakeImages() *fakeImages { return &fakeImages{puts: map[string][]byte{}} }

func (f *fakeImages) PutImage(ctx context.Context, key string, data []byte, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts[key] = data
	return nil
}

func (f *fakeImages) PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "https://cdn.example.com/" + key + "?ttl=" + expires.String(), nil
}

func TestImageKey(t *testing.T) {
	id := primitive.NewObjectID()
	require.Equal(t, "doctors/"+id.Hex()+"/photo.png", ImageKey(id, "photo.png"))
	require.Equal(t, "doctors/"+id.Hex()+"/photo.png", ImageKey(id, `C:\Users\me\photo.png`))
	require.Equal(t, "doctors/"+id.Hex()+"/passwd", ImageKey(id, "../../etc/passwd"))
	require.Equal(t, "doctors/"+id.Hex()+"/image", ImageKey(id, ""))
}

func TestAdd_Validation(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	ctx := context.Background()
	_, err := svc.Add(ctx, models.Doctor{Email: "d@x.com", Image: []byte{1}}, "a.png")
	require.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = svc.Add(ctx, models.Doctor{Name: "Dr", Image: []byte{1}}, "a.png")
	require.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = svc.Add(ctx, models.Doctor{Name: "Dr", Email: "d@x.com"}, "a.png")
	require.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestAddAndList_WithoutMirror(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	ctx := context.Background()
	res, err := svc.Add(ctx, models.Doctor{Name: " Dr. Who ", Email: "Who@Example.com", Image: []byte("img"), ContentType: "image/png"}, "who.png")
	require.NoError(t, err)
	require.True(t, res.Acknowledged)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, res.InsertedID, list[0].ID)
	require.Equal(t, "Dr. Who", list[0].Name)
	require.Equal(t, "who@example.com", list[0].Email)
	require.Equal(t, []byte("img"), list[0].Image)
	require.Empty(t, list[0].ImageKey)
	require.Empty(t, list[0].ImageURL)
}

func TestAddAndList_WithMirror(t *testing.T) {
	images := newFakeImages()
	svc := NewService(NewMemoryRepo(), images)
	ctx := context.Background()
	res, err := svc.Add(ctx, models.Doctor{Name: "Dr", Email: "d@x.com", Image: []byte("img")}, "d.jpg")
	require.NoError(t, err)

	key := "doctors/" + res.InsertedID.Hex() + "/d.jpg"
	require.Equal(t, []byte("img"), images.puts[key])

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, key, list[0].ImageKey)
	require.Equal(t, "https://cdn.example.com/"+key+"?ttl=15m0s", list[0].ImageURL)
}

func TestAdd_MirrorFailureStillStores(t *testing.T) {
	images := newFakeImages()
	images.putErr = errors.New("minio down")
	svc := NewService(NewMemoryRepo(), images)
	_, err := svc.Add(context.Background(), models.Doctor{Name: "Dr", Email: "d@x.com", Image: []byte("img")}, "d.jpg")
	require.NoError(t, err)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Empty(t, list[0].ImageKey)
	require.Empty(t, list[0].ImageURL)
}
