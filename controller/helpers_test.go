package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Itish41/portfolio-cms/models"
	"github.com/Itish41/portfolio-cms/repository/sqlrepo"
	services "github.com/Itish41/portfolio-cms/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendContact(ctx context.Context, msg services.ContactMessage) error {
	return m.Called(ctx, msg).Error(0)
}

// testApp is a router over an in-memory sqlite store.
type testApp struct {
	t      *testing.T
	router *gin.Engine
	auth   *services.AuthService
	mail   *MockMailer
	tokens map[string]string
	users  map[string]*models.User
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(sqlrepo.Models()...))

	blogs := sqlrepo.NewStore[models.Blog](db)
	media := services.NewLocalMediaStore(t.TempDir())
	portfolio := services.NewPortfolio(services.PortfolioRepos{
		Profile:      sqlrepo.NewStore[models.Profile](db),
		Projects:     sqlrepo.NewStore[models.Project](db),
		Skills:       sqlrepo.NewStore[models.Skill](db),
		Blogs:        blogs,
		Education:    sqlrepo.NewStore[models.Education](db),
		Experience:   sqlrepo.NewStore[models.Experience](db),
		Testimonials: sqlrepo.NewStore[models.Testimonial](db),
	}, media, services.NewSearchService(nil, blogs))

	users := sqlrepo.NewUserStore(db)
	standards := sqlrepo.NewStandardStore(db)
	auth := services.NewAuthService(users, "test-secret", time.Hour)
	mail := new(MockMailer)

	app := &testApp{
		t:    t,
		auth: auth,
		mail: mail,
		router: NewRouter(Deps{
			Portfolio: portfolio,
			Auth:      auth,
			Standards: services.NewStandardService(standards),
			Templates: services.NewTemplateService(services.TemplateRepos{
				Details:   sqlrepo.NewSoftDeleteStore[models.StandardDetail](db),
				Types:     sqlrepo.NewSoftDeleteStore[models.StandardDetailType](db),
				Templates: sqlrepo.NewSoftDeleteStore[models.StandardTemplate](db),
			}),
			Approvals: services.NewApprovalService(
				sqlrepo.NewAssignmentStore(db), sqlrepo.NewApprovalRequestStore(db), standards, users, services.LogNotifier{}),
			Mail:      mail,
			UploadDir: media.Dir(),
		}),
		tokens: map[string]string{},
		users:  map[string]*models.User{},
	}

	require.NoError(t, auth.EnsureAdmin(context.Background(), "admin", "admin-password"))
	admin, err := users.FindByUsername(context.Background(), "admin")
	require.NoError(t, err)
	app.remember("admin", admin)
	for _, u := range []services.NewUser{
		{Username: "rina", Name: "Rina", Password: "reviewer-pass", Role: models.RoleReviewer},
		{Username: "dewi", Name: "Dewi", Password: "member-pass", Role: models.RoleMember},
		{Username: "eko", Name: "Eko", Password: "member-pass", Role: models.RoleMember},
	} {
		created, err := auth.CreateUser(context.Background(), models.Identity{UserID: admin.ID, Role: models.RoleAdmin}, u)
		require.NoError(t, err)
		app.remember(u.Username, created)
	}
	return app
}

func (a *testApp) remember(username string, u *models.User) {
	token, err := a.auth.IssueToken(models.Identity{UserID: u.ID, Name: u.Name, Role: u.Role})
	require.NoError(a.t, err)
	a.tokens[username] = token
	a.users[username] = u
}

// do sends a JSON request as user ("" for anonymous) and decodes the body.
func (a *testApp) do(method, path, user string, body interface{}) (int, map[string]interface{}) {
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(req, user)
}

func (a *testApp) send(req *http.Request, user string) (int, map[string]interface{}) {
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+a.tokens[user])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	out := map[string]interface{}{}
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

// list sends a GET expecting a JSON array.
func (a *testApp) list(path string) []map[string]interface{} {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var out []map[string]interface{}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// multipartRequest builds a form post with an optional file part.
func multipartRequest(t *testing.T, method, path string, fields map[string]string, fileField, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
