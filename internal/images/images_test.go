package images

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"anemone/internal/services"
)

func fixture() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	return img
}

func TestConvertKeepsJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, fixture(), nil))
	out, ext, err := Convert(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, "jpg", ext)
	require.Equal(t, buf.Bytes(), out)
}

func TestConvertReencodesBMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, fixture()))
	out, ext, err := Convert(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, "png", ext)
	require.True(t, bytes.HasPrefix(out, []byte("\x89PNG")))
}

func TestConvertRejectsGarbage(t *testing.T) {
	_, _, err := Convert([]byte("not an image"))
	require.Error(t, err)
}

func TestCollectorNumbersInOrder(t *testing.T) {
	var jpg, bm bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpg, fixture(), nil))
	require.NoError(t, bmp.Encode(&bm, fixture()))
	sources := map[string][]byte{"a.jpg": jpg.Bytes(), "b.bmp": bm.Bytes()}
	loads := 0
	c := NewCollector(func(_ context.Context, ref string) ([]byte, error) {
		loads++
		data, ok := sources[ref]
		if !ok {
			return nil, errors.New("missing")
		}
		return data, nil
	})
	ctx := context.Background()

	name, err := c.Add(ctx, "a.jpg")
	require.NoError(t, err)
	require.Equal(t, "1.jpg", name)
	name, err = c.Add(ctx, "b.bmp")
	require.NoError(t, err)
	require.Equal(t, "2.png", name)
	name, err = c.Add(ctx, "a.jpg")
	require.NoError(t, err)
	require.Equal(t, "1.jpg", name)
	require.Equal(t, 2, loads)

	files := c.Files()
	require.Len(t, files, 2)
	require.Equal(t, "image/png", files[1].MediaType)

	_, err = c.Add(ctx, "nope.png")
	require.ErrorIs(t, err, services.ErrInput)
}
