package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"storefront-backend/internal/shared/storage/object"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "fallback/products.json", want: "fallback/products.json"},
		{name: "simple prefix", prefix: "root", key: "fallback/products.json", want: "root/fallback/products.json"},
		{name: "prefix trailing slash", prefix: "root/", key: "fallback/products.json", want: "root/fallback/products.json"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/fallback/products.json", want: "root/fallback/products.json"},
		{name: "nested prefix", prefix: "root/sub", key: "fallback/products.json", want: "root/sub/fallback/products.json"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

type fakeS3 struct {
	getErr  error
	body    string
	put     *s3.PutObjectInput
	putBody string
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = params
	data, _ := io.ReadAll(params.Body)
	f.putBody = string(data)
	return &s3.PutObjectOutput{}, nil
}

func TestOpenMapsNoSuchKey(t *testing.T) {
	store := &Store{client: &fakeS3{getErr: &s3types.NoSuchKey{}}, bucket: "b"}
	if _, err := store.Open(context.Background(), "fallback/products.json"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	store = &Store{client: &fakeS3{getErr: errors.New("access denied")}, bucket: "b"}
	if _, err := store.Open(context.Background(), "k"); err == nil || errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected plain error, got %v", err)
	}
}

func TestSaveWithKeyEncryptsAndCounts(t *testing.T) {
	fake := &fakeS3{}
	store := &Store{client: fake, bucket: "b", prefix: "shop", kmsKeyID: "kms-1"}

	n, err := store.SaveWithKey(context.Background(), "fallback/products.json", "application/json", strings.NewReader(`[]`))
	if err != nil {
		t.Fatalf("SaveWithKey: %v", err)
	}
	if n != 2 || fake.putBody != `[]` {
		t.Fatalf("unexpected upload n=%d body=%q", n, fake.putBody)
	}
	if aws.ToString(fake.put.Key) != "shop/fallback/products.json" {
		t.Fatalf("unexpected key %q", aws.ToString(fake.put.Key))
	}
	if fake.put.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms || aws.ToString(fake.put.SSEKMSKeyId) != "kms-1" {
		t.Fatalf("expected kms encryption, got %+v", fake.put)
	}
}

func TestSaveWithKeyDefaults(t *testing.T) {
	fake := &fakeS3{}
	store := &Store{client: fake, bucket: "b"}

	if _, err := store.SaveWithKey(context.Background(), "/fallback/products.json", "", strings.NewReader(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("SaveWithKey: %v", err)
	}
	if aws.ToString(fake.put.Key) != "fallback/products.json" {
		t.Fatalf("unexpected key %q", aws.ToString(fake.put.Key))
	}
	if aws.ToString(fake.put.ContentType) != "application/json" {
		t.Fatalf("unexpected content type %q", aws.ToString(fake.put.ContentType))
	}
	if aws.ToInt64(fake.put.ContentLength) != int64(len(`[{"id":"1"}]`)) {
		t.Fatalf("unexpected content length %d", aws.ToInt64(fake.put.ContentLength))
	}
	if fake.put.ServerSideEncryption != s3types.ServerSideEncryptionAes256 {
		t.Fatalf("expected AES256 without a kms key, got %q", fake.put.ServerSideEncryption)
	}
}

func TestSaveWithKeyRejectsOversizedBody(t *testing.T) {
	fake := &fakeS3{}
	store := &Store{client: fake, bucket: "b"}

	body := strings.NewReader(strings.Repeat("x", maxObjectBytes+1))
	if _, err := store.SaveWithKey(context.Background(), "k", "application/json", body); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if fake.put != nil {
		t.Fatalf("oversized body must not be uploaded")
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Options{Region: "us-east-1"}); err == nil {
		t.Fatalf("expected error without bucket")
	}
}
