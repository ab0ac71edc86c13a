package media

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestDecodeImage(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(pngHeader)

	data, contentType, err := DecodeImage("data:image/png;base64," + encoded)
	require.NoError(t, err)
	require.Equal(t, "image/png", contentType)
	require.Equal(t, pngHeader, data)

	data, contentType, err = DecodeImage(encoded)
	require.NoError(t, err)
	require.Equal(t, "image/png", contentType)
	require.Equal(t, pngHeader, data)

	for _, bad := range []string{"", "data:image/png,abc", "%%%", base64.StdEncoding.EncodeToString([]byte("plain text"))} {
		_, _, err := DecodeImage(bad)
		require.ErrorIs(t, err, ErrInvalidImage, bad)
	}
}

type fakeObjectAPI struct {
	puts    []*s3.PutObjectInput
	deletes []string
	err     error
}

func (f *fakeObjectAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3UploaderUploadAndDelete(t *testing.T) {
	api := &fakeObjectAPI{}
	up := NewS3Uploader(api, "shop-media", "eu-west-1", "")

	obj, err := up.Upload(context.Background(), "products", pngHeader, "image/png")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(obj.Key, "products/"))
	require.True(t, strings.HasSuffix(obj.Key, ".png"))
	require.Equal(t, "https://shop-media.s3.eu-west-1.amazonaws.com/"+obj.Key, obj.URL)

	require.Len(t, api.puts, 1)
	require.Equal(t, "shop-media", aws.ToString(api.puts[0].Bucket))
	require.Equal(t, "image/png", aws.ToString(api.puts[0].ContentType))

	require.NoError(t, up.Delete(context.Background(), obj.Key))
	require.NoError(t, up.Delete(context.Background(), ""))
	require.Equal(t, []string{obj.Key}, api.deletes)
}

func TestS3UploaderCustomBaseURLAndErrors(t *testing.T) {
	api := &fakeObjectAPI{err: errors.New("boom")}
	up := NewS3Uploader(api, "b", "r", "https://cdn.example.com/")

	_, err := up.Upload(context.Background(), "products", pngHeader, "image/png")
	require.ErrorContains(t, err, "boom")
	require.Error(t, up.Delete(context.Background(), "k"))
	require.Equal(t, "https://cdn.example.com", up.baseURL)
}

func TestMemoryUploader(t *testing.T) {
	up := NewMemoryUploader()
	obj, err := up.Upload(context.Background(), "products", pngHeader, "image/png")
	require.NoError(t, err)
	require.True(t, up.Has(obj.Key))
	require.NoError(t, up.Delete(context.Background(), obj.Key))
	require.False(t, up.Has(obj.Key))
}
