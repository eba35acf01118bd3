package controller

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProfileEndpoints(t *testing.T) {
	app := newTestApp(t)

	code, body := app.do(http.MethodGet, "/api/profile", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Your Name", body["name"])

	code, _ = app.do(http.MethodPut, "/api/profile", "", map[string]string{"name": "Ana"})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = app.do(http.MethodPut, "/api/profile", "dewi", map[string]string{"name": "Ana"})
	assert.Equal(t, http.StatusForbidden, code)

	req := multipartRequest(t, http.MethodPut, "/api/profile", map[string]string{
		"name":   "Ana Putri",
		"social": `{"github":"https://github.com/ana"}`,
	}, "avatar", "me.png", pngHeader)
	code, body = app.send(req, "admin")
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Profile updated successfully", body["message"])
	profile := body["profile"].(map[string]interface{})
	assert.Equal(t, "Ana Putri", profile["name"])
	assert.Equal(t, "Web Developer", profile["title"], "fields missing from the form are kept")
	assert.Equal(t, "https://github.com/ana", profile["social"].(map[string]interface{})["github"])
	avatar := profile["avatar"].(string)
	assert.True(t, strings.HasPrefix(avatar, "/uploads/profile/"))

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, avatar, nil))
	assert.Equal(t, http.StatusOK, w.Code, "uploads are served")
}

func TestProjectEndpoints(t *testing.T) {
	app := newTestApp(t)

	req := multipartRequest(t, http.MethodPost, "/api/projects", map[string]string{
		"title":        "Portfolio",
		"category":     "web",
		"description":  "This site",
		"technologies": "Go, Gin ,",
		"featured":     "true",
	}, "image", "shot.png", pngHeader)
	code, body := app.send(req, "admin")
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "Project created successfully", body["message"])
	project := body["project"].(map[string]interface{})
	assert.Equal(t, []interface{}{"Go", "Gin"}, project["technologies"])
	assert.True(t, strings.HasPrefix(project["image"].(string), "/uploads/projects/"))
	id := project["id"].(string)

	code, _ = app.do(http.MethodPost, "/api/projects", "admin", map[string]interface{}{
		"title": "CLI", "category": "tools", "description": "A tool",
	})
	require.Equal(t, http.StatusCreated, code)

	assert.Len(t, app.list("/api/projects"), 2)
	assert.Len(t, app.list("/api/projects?category=all"), 2)
	assert.Len(t, app.list("/api/projects?category=tools"), 1)
	featured := app.list("/api/projects?featured=true")
	require.Len(t, featured, 1)
	assert.Equal(t, id, featured[0]["id"])

	req = multipartRequest(t, http.MethodPost, "/api/projects", map[string]string{
		"title": "Bad", "category": "web", "description": "text upload",
	}, "image", "notes.png", []byte("plain text"))
	code, body = app.send(req, "admin")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Only image files are allowed!", body["message"])

	code, body = app.do(http.MethodPost, "/api/projects", "admin", map[string]interface{}{"title": "Missing"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, body["message"])

	code, body = app.do(http.MethodPut, "/api/projects/"+id, "admin", map[string]interface{}{"featured": false})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, false, body["project"].(map[string]interface{})["featured"])
	assert.Empty(t, app.list("/api/projects?featured=true"))

	code, body = app.do(http.MethodGet, "/api/projects/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "project not found", body["message"])

	code, body = app.do(http.MethodDelete, "/api/projects/"+id, "admin", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Project deleted successfully", body["message"])
	code, _ = app.do(http.MethodDelete, "/api/projects/"+id, "admin", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSkillIconSwitching(t *testing.T) {
	app := newTestApp(t)

	code, body := app.do(http.MethodPost, "/api/skills", "admin", map[string]interface{}{"name": "Go", "level": 90})
	require.Equal(t, http.StatusCreated, code, body)
	skill := body["skill"].(map[string]interface{})
	assert.Equal(t, "⚡", skill["icon"])
	assert.Equal(t, "emoji", skill["iconType"])
	assert.Equal(t, "other", skill["category"])
	id := skill["id"].(string)

	req := multipartRequest(t, http.MethodPut, "/api/skills/"+id, nil, "iconFile", "go.png", pngHeader)
	code, body = app.send(req, "admin")
	require.Equal(t, http.StatusOK, code, body)
	skill = body["skill"].(map[string]interface{})
	assert.Equal(t, "image", skill["iconType"])
	iconURL := skill["iconUrl"].(string)

	code, body = app.do(http.MethodPut, "/api/skills/"+id, "admin", map[string]interface{}{"iconType": "emoji", "icon": "🐹"})
	require.Equal(t, http.StatusOK, code, body)
	skill = body["skill"].(map[string]interface{})
	assert.Nil(t, skill["iconUrl"])

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, iconURL, nil))
	assert.Equal(t, http.StatusNotFound, w.Code, "replaced icon is removed")
}

func TestBlogsResumeAndSearch(t *testing.T) {
	app := newTestApp(t)

	for _, b := range []map[string]interface{}{
		{"title": "Goroutines", "category": "go", "excerpt": "Concurrency", "content": "channels", "published": true},
		{"title": "Draft Go", "category": "go", "excerpt": "wip", "content": "todo"},
	} {
		code, body := app.do(http.MethodPost, "/api/blogs", "admin", b)
		require.Equal(t, http.StatusCreated, code, body)
		assert.Equal(t, "5 min read", body["blog"].(map[string]interface{})["readTime"])
	}
	assert.Len(t, app.list("/api/blogs"), 2)
	assert.Len(t, app.list("/api/blogs?published=true"), 1)

	results := app.list("/api/blogs/search?q=go")
	require.Len(t, results, 1)
	assert.Equal(t, "Goroutines", results[0]["title"])
	assert.Empty(t, app.list("/api/blogs/search?q=kubernetes"))
	code, _ := app.do(http.MethodGet, "/api/blogs/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	for _, e := range []map[string]interface{}{
		{"degree": "BSc", "institution": "UI", "period": "2015-2019", "description": "CS", "order": 2},
		{"degree": "MSc", "institution": "ITB", "period": "2019-2021", "description": "CS", "order": 1},
	} {
		code, body := app.do(http.MethodPost, "/api/education", "admin", e)
		require.Equal(t, http.StatusCreated, code, body)
	}
	code, body := app.do(http.MethodGet, "/api/resume", "", nil)
	require.Equal(t, http.StatusOK, code)
	education := body["education"].([]interface{})
	require.Len(t, education, 2)
	assert.Equal(t, "MSc", education[0].(map[string]interface{})["degree"])
	assert.Empty(t, body["experience"])
}

func TestContactEndpoint(t *testing.T) {
	app := newTestApp(t)
	valid := map[string]string{"name": "Budi", "email": "budi@example.com", "subject": "Hi", "message": "Hello"}

	code, body := app.do(http.MethodPost, "/api/contact", "", map[string]string{"name": "Budi"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "All fields (name, email, subject, message) are required.", body["message"])

	bad := map[string]string{"name": "Budi", "email": "nope", "subject": "Hi", "message": "Hello"}
	code, body = app.do(http.MethodPost, "/api/contact", "", bad)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid email format.", body["message"])

	app.mail.On("SendContact", mock.Anything, mock.Anything).Return(nil).Once()
	code, body = app.do(http.MethodPost, "/api/contact", "", valid)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Message sent successfully!", body["message"])

	app.mail.On("SendContact", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()
	code, body = app.do(http.MethodPost, "/api/contact", "", valid)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Failed to send message. Please try again later.", body["message"])
	assert.NotContains(t, body, "error")

	ExposeErrors = true
	t.Cleanup(func() { ExposeErrors = false })
	app.mail.On("SendContact", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()
	_, body = app.do(http.MethodPost, "/api/contact", "", valid)
	assert.Equal(t, "smtp down", body["error"])
	app.mail.AssertExpectations(t)
}

func TestAuthEndpoints(t *testing.T) {
	app := newTestApp(t)

	code, body := app.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "dewi", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", body["message"])

	code, body = app.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "dewi", "password": "member-pass"})
	require.Equal(t, http.StatusOK, code, body)
	token := body["token"].(string)
	assert.NotContains(t, body["user"], "passwordHash")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	code, body = app.send(req, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "dewi", body["username"])

	code, _ = app.do(http.MethodGet, "/api/users", "dewi", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = app.do(http.MethodPost, "/api/users", "admin", map[string]string{
		"username": "eko", "name": "Eko", "password": "another-pass", "role": "member",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "username eko is already taken", body["message"])

	code, _ = app.do(http.MethodPost, "/api/users", "admin", map[string]string{
		"username": "fajar", "name": "Fajar", "password": "short", "role": "member",
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRouterHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	code, body := app.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
