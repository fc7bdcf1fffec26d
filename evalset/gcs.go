// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package evalset

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/auth/credentials"
	"cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/go-a2a/agentops/internal/pool"
	"github.com/go-a2a/agentops/types"
)

// GCSStore is a [Store] that mirrors the suite layout into a Cloud Storage
// bucket, <prefix><agent_id>/<category>.jsonl.
type GCSStore struct {
	client *storage.Client
	bucket *storage.BucketHandle

	bucketName string
	prefix     string
}

var _ Store = (*GCSStore)(nil)

// GCSStoreOption configures a [GCSStore].
type GCSStoreOption func(*GCSStore)

// WithObjectPrefix prepends a prefix to every suite object name. A
// trailing slash is added when missing.
func WithObjectPrefix(prefix string) GCSStoreOption {
	return func(s *GCSStore) {
		if prefix != "" && !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		s.prefix = prefix
	}
}

// NewGCSStore creates a [GCSStore] over the given bucket, authenticating
// with application default credentials.
func NewGCSStore(ctx context.Context, bucketName string, opts ...GCSStoreOption) (*GCSStore, error) {
	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		Scopes: []string{
			storage.ScopeFullControl,
			storage.ScopeReadWrite,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get credentials for storage: %w", err)
	}

	client, err := storage.NewGRPCClient(ctx, option.WithAuthCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	s := &GCSStore{
		client:     client,
		bucket:     client.Bucket(bucketName),
		bucketName: bucketName,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// objectName constructs the object name of a category within the bucket.
func (s *GCSStore) objectName(agentID string, category types.EvalCategory) string {
	return s.prefix + agentID + "/" + suiteFileName(category)
}

// Location implements [Store].
func (s *GCSStore) Location(agentID string, category types.EvalCategory) string {
	return fmt.Sprintf("gs://%s/%s", s.bucketName, s.objectName(agentID, category))
}

// Exists implements [Store].
func (s *GCSStore) Exists(ctx context.Context, agentID string, category types.EvalCategory) (bool, error) {
	_, err := s.bucket.Object(s.objectName(agentID, category)).Attrs(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, storage.ErrObjectNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat eval set object: %w", err)
	}
}

// Write implements [Store].
func (s *GCSStore) Write(ctx context.Context, agentID string, category types.EvalCategory, cases []*types.EvalCase) (string, error) {
	buf := pool.Buffer.Get()
	buf.Reset()
	defer pool.Buffer.Put(buf)
	if err := encodeJSONL(buf, cases); err != nil {
		return "", err
	}

	w := s.bucket.Object(s.objectName(agentID, category)).NewWriter(ctx)
	w.ContentType = "application/jsonl"
	if _, err := w.Write(buf.Bytes()); err != nil {
		w.Close()
		return "", fmt.Errorf("upload eval set: %w", err)
	}
	// The upload is finalized on Close, so its error is the upload error.
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload eval set: %w", err)
	}
	return s.Location(agentID, category), nil
}

// Read implements [Store].
func (s *GCSStore) Read(ctx context.Context, agentID string, category types.EvalCategory) ([]*types.EvalCase, error) {
	r, err := s.bucket.Object(s.objectName(agentID, category)).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open eval set object: %w", err)
	}
	defer r.Close()

	cases, err := decodeJSONL(r)
	if err != nil {
		return nil, fmt.Errorf("read eval set %s/%s: %w", agentID, category, err)
	}
	return cases, nil
}

// List implements [Store].
func (s *GCSStore) List(ctx context.Context, agentID string) ([]types.EvalCategory, error) {
	stored := make(map[types.EvalCategory]bool, 4)

	it := s.bucket.Objects(ctx, &storage.Query{
		Prefix: s.prefix + agentID + "/",
	})
	for {
		objAttrs, err := it.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, fmt.Errorf("list eval set objects: %w", err)
		}

		name := objAttrs.Name[strings.LastIndex(objAttrs.Name, "/")+1:]
		category, ok := strings.CutSuffix(name, ".jsonl")
		if ok && types.EvalCategory(category).Valid() {
			stored[types.EvalCategory(category)] = true
		}
	}

	var out []types.EvalCategory
	for _, category := range types.EvalCategories() {
		if stored[category] {
			out = append(out, category)
		}
	}
	return out, nil
}

// Sync mirrors every category stored for the agent in src into the bucket,
// uploading the categories concurrently.
func (s *GCSStore) Sync(ctx context.Context, src Store, agentID string) error {
	categories, err := src.List(ctx, agentID)
	if err != nil {
		return fmt.Errorf("list source suite: %w", err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	for _, category := range categories {
		eg.Go(func() error {
			cases, err := src.Read(ctx, agentID, category)
			if err != nil {
				return err
			}
			_, err = s.Write(ctx, agentID, category, cases)
			return err
		})
	}
	return eg.Wait()
}

// Close releases the underlying storage client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
