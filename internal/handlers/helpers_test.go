package handlers

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"gomarket/internal/config"
	"gomarket/internal/logger"
	"gomarket/internal/models"
	"gomarket/internal/service"
	"gomarket/internal/upload"

	"github.com/gin-gonic/gin"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{}
	cfg.Session.Secret = "test-secret"
	cfg.Session.CookieName = "market_session"
	cfg.Upload.Dir = t.TempDir()
	cfg.Upload.MaxBytes = 3 << 20
	cfg.RateLimit.RPS = 1000
	cfg.RateLimit.Burst = 1000
	return cfg
}

func newTestRouter(t *testing.T, svc *service.Service, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	uploads, err := upload.NewStore(cfg.Upload.Dir)
	if err != nil {
		t.Fatalf("upload store: %v", err)
	}
	return NewHandler(svc, logger.Nop(), cfg, uploads).InitRoutes()
}

func doGet(r *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doPostForm(r *gin.Engine, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// doPostMultipart submits fields plus an optional file part named "image".
func doPostMultipart(t *testing.T, r *gin.Engine, path string, fields map[string]string, filename string, fileBody []byte, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if filename != "" {
		part, err := mw.CreateFormFile("image", filename)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write(fileBody); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// testUser is the account most tests authenticate as.
var testUser = &models.User{ID: 1, Username: "alice", Email: "alice@example.com"}

// authedService builds a Service whose mocks authenticate testUser and a
// real session manager so the cookie round trip is exercised for real.
func authedService(products *mockProducts, audit *mockAuditLog) (*service.Service, *mockAuth) {
	auth := &mockAuth{
		authUser: testUser,
		userByID: map[int64]*models.User{testUser.ID: testUser},
	}
	if products == nil {
		products = &mockProducts{}
	}
	if audit == nil {
		audit = &mockAuditLog{}
	}
	return &service.Service{
		Authorization: auth,
		Sessions:      service.NewSessionManager(time.Hour),
		Products:      products,
		AuditLog:      audit,
	}, auth
}

// login authenticates through the real /login route and returns the
// cookies carrying the session.
func login(t *testing.T, r *gin.Engine) []*http.Cookie {
	t.Helper()

	w := doPostForm(r, "/login", url.Values{
		"email":    {testUser.Email},
		"password": {"secret1"},
	}, nil)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("login: got status %d, want %d", w.Code, http.StatusSeeOther)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login: no session cookie set")
	}
	return cookies
}

func bodyString(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	b, err := io.ReadAll(w.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}
