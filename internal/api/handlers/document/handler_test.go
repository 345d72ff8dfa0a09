package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/DealDesk-Platform/Document-Service/internal/filestore"
	"github.com/DealDesk-Platform/Document-Service/internal/models"
	"github.com/DealDesk-Platform/Document-Service/internal/scanner"
	"github.com/DealDesk-Platform/Document-Service/internal/storage"
)

const (
	testUserID    = "user-1"
	testCompanyID = "11111111-1111-1111-1111-111111111111"

	pdfMime  = "application/pdf"
	xlsxMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// fakeFileStore is an in-memory FileStore with write fault injection.
type fakeFileStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	writeCalls int
	failOnCall int // 1-based write call that fails; 0 disables
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{objects: make(map[string][]byte)}
}

func (f *fakeFileStore) Write(ctx context.Context, companyID, key string, content []byte, contentType string) (filestore.WriteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.writeCalls++
	if f.failOnCall != 0 && f.writeCalls == f.failOnCall {
		return filestore.WriteResult{}, errors.New("disk full")
	}

	path := companyID + "/" + key
	f.objects[path] = append([]byte(nil), content...)
	return filestore.WriteResult{Path: path, Size: int64(len(content))}, nil
}

func (f *fakeFileStore) OpenStream(ctx context.Context, path string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	content, exists := f.objects[path]
	if !exists {
		return nil, fmt.Errorf("%w: %s", filestore.ErrUnavailable, path)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (f *fakeFileStore) Remove(ctx context.Context, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.objects[path]; !exists {
		return false, nil
	}
	delete(f.objects, path)
	return true, nil
}

func (f *fakeFileStore) drop(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, path)
}

// stubScanner returns canned verdicts or a canned error.
type stubScanner struct {
	mu       sync.Mutex
	err      error
	infected map[int][]string // batch index -> threats
	calls    int
}

func (s *stubScanner) ScanBatch(ctx context.Context, batch []scanner.File) ([]scanner.Verdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.err != nil {
		return nil, s.err
	}

	verdicts := make([]scanner.Verdict, len(batch))
	for i := range batch {
		if threats, bad := s.infected[i]; bad {
			verdicts[i] = scanner.Verdict{Clean: false, Threats: threats}
		} else {
			verdicts[i] = scanner.Verdict{Clean: true}
		}
	}
	return verdicts, nil
}

// recordingNotifier captures emitted notifications; optionally fails.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (n *recordingNotifier) Emit(userID, category, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.messages = append(n.messages, message)
	return nil
}

type testEnv struct {
	router   *gin.Engine
	handler  *Handler
	store    *storage.MemoryStore
	files    *fakeFileStore
	scanner  *stubScanner
	notifier *recordingNotifier
}

// newTestEnv wires a handler against in-memory collaborators behind a stub
// auth middleware that injects the given user identity.
func newTestEnv(t *testing.T, userID string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		store:    storage.NewMemoryStore(),
		files:    newFakeFileStore(),
		scanner:  &stubScanner{},
		notifier: &recordingNotifier{},
	}

	require.NoError(t, env.store.SaveCompany(models.Company{
		ID:     testCompanyID,
		UserID: testUserID,
		Name:   "Acme Capital",
	}))

	h := New(env.store, env.files, env.scanner, env.notifier)
	env.handler = h

	authStub := func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	}

	r := gin.New()
	docs := r.Group("/api/documents", authStub)
	docs.POST("", h.Upload)
	docs.GET("", h.List)
	docs.GET("/:id/download", h.Download)
	docs.DELETE("/:id", h.Delete)

	env.router = r
	return env
}

type filePart struct {
	name     string
	mimeType string
	content  []byte
}

func multipartBody(t *testing.T, parts []filePart) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, p := range parts {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="files"; filename="%s"`, p.name))
		header.Set("Content-Type", p.mimeType)

		pw, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = pw.Write(p.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return body, w.FormDataContentType()
}

func (e *testEnv) upload(t *testing.T, parts []filePart) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, parts)
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) delete(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodDelete, path, nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

type uploadSuccessBody struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    []models.Document `json:"data"`
}

func decodeUploadSuccess(t *testing.T, rec *httptest.ResponseRecorder) uploadSuccessBody {
	t.Helper()
	var body uploadSuccessBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
