package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/maheshrc27/threads-gateway/internal/models"
	"github.com/maheshrc27/threads-gateway/internal/threads"
)

// fakeThreads serves canned responses per path and counts calls.
type fakeThreads struct {
	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	calls    map[string]int
	requests []*http.Request
	srv      *httptest.Server
}

func newFakeThreads(t *testing.T) *fakeThreads {
	t.Helper()
	f := &fakeThreads{
		routes: map[string]http.HandlerFunc{},
		calls:  map[string]int{},
	}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls[r.URL.Path]++
		f.requests = append(f.requests, r)
		h, ok := f.routes[r.URL.Path]
		f.mu.Unlock()
		if !ok {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeThreads) handle(path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[path] = h
}

func (f *fakeThreads) json(path string, status int, body string) {
	f.handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (f *fakeThreads) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeThreads) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeThreads) client(timeout time.Duration) *threads.Client {
	return threads.NewClient(threads.Options{
		GraphURL:   f.srv.URL,
		TokenURL:   f.srv.URL + "/oauth/access_token",
		RefreshURL: f.srv.URL + "/refresh_access_token",
		Timeout:    timeout,
	})
}

// fakeStager records staged and released keys.
type fakeStager struct {
	mu         sync.Mutex
	staged     []string
	released   []string
	stageErr   error
	releaseErr error
}

func (s *fakeStager) Stage(ctx context.Context, img *models.Image) (*StagedImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stageErr != nil {
		return nil, s.stageErr
	}
	key := StagedKeyPrefix + img.Filename
	s.staged = append(s.staged, key)
	return &StagedImage{Key: key, URL: "https://cdn.example.com/" + key}, nil
}

func (s *fakeStager) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = append(s.released, key)
	return s.releaseErr
}

// fakeObjectStore is an in-memory ObjectStore.
type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string]types.Object
	bodies  map[string][]byte
	putErr  error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		objects: map[string]types.Object{},
		bodies:  map[string][]byte{},
	}
}

func (s *fakeObjectStore) add(key string, modified time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = types.Object{Key: aws.String(key), LastModified: aws.Time(modified)}
}

func (s *fakeObjectStore) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if s.putErr != nil {
		return nil, s.putErr
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := aws.ToString(params.Key)
	s.bodies[key] = data
	s.objects[key] = types.Object{Key: params.Key, LastModified: aws.Time(time.Now())}
	return &s3.PutObjectOutput{}, nil
}

func (s *fakeObjectStore) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := aws.ToString(params.Key)
	if _, ok := s.objects[key]; !ok {
		return nil, errors.New("no such key")
	}
	delete(s.objects, key)
	delete(s.bodies, key)
	return &s3.DeleteObjectOutput{}, nil
}

func (s *fakeObjectStore) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, obj := range s.objects {
		out.Contents = append(out.Contents, obj)
	}
	return out, nil
}

var (
	pngBytes = append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 32)...)
	gifBytes = append([]byte("GIF89a"), make([]byte, 32)...)
)

func pngImage() *models.Image {
	data := make([]byte, len(pngBytes))
	copy(data, pngBytes)
	return &models.Image{Filename: "photo.png", ContentType: "application/octet-stream", Data: data}
}
