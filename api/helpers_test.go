package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rpupo63/personal-blog-backend/database/dbtest"
	"github.com/rpupo63/personal-blog-backend/services"
	"github.com/stretchr/testify/require"
)

const testAdminPassword = "open-sesame"

type recordingMailer struct {
	mu   sync.Mutex
	sent []services.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg services.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type testAPI struct {
	t         *testing.T
	db        database.Database
	mailer    *recordingMailer
	admin     *services.AdminService
	uploadDir string
	handler   http.Handler
}

func newTestAPI(t *testing.T, cfg map[string]string) *testAPI {
	t.Helper()

	db := database.New(dbtest.Open(t))
	mailer := &recordingMailer{}
	admin := services.NewAdminService(services.AdminOptions{Password: testAdminPassword, Secret: "test-secret"})

	uploadDir := filepath.Join(t.TempDir(), "uploads")
	store, err := services.NewLocalStore(uploadDir)
	require.NoError(t, err)

	svc := services.New(db, services.NewEmailService(mailer, "blog@example.com", "https://blog.example.com"), admin, store)
	if cfg == nil {
		cfg = map[string]string{}
	}

	return &testAPI{
		t:         t,
		db:        db,
		mailer:    mailer,
		admin:     admin,
		uploadDir: uploadDir,
		handler:   newRouter(db, svc, withConfig(cfg), withStartupTime(time.Now().Add(-time.Minute))),
	}
}

func (a *testAPI) request(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
