package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chaeeun2/alolot/database"
	"github.com/Chaeeun2/alolot/models"
	"github.com/Chaeeun2/alolot/storage"
)

const testPassword = "correct horse"

type testEnv struct {
	handler http.Handler
	db      database.Database
	files   *storage.MemoryStore
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	files := storage.NewMemoryStore("http://localhost:8080/files")
	db := database.New(database.NewMemoryStore(), files)

	c := map[string]string{
		"JWT_SECRET":       "test-secret",
		"ADMIN_PASSWORD":   testPassword,
		"PUBLIC_BASE_URL":  "https://alolot.kr",
		"ACCEPTED_ORIGINS": "https://alolot.kr",
	}
	router, err := newRouter(db, withConfig(c), withStartupTime(time.Now()), withFiles(files))
	require.NoError(t, err)

	return testEnv{handler: router, db: db, files: files}
}

func (e testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e testEnv) login(t *testing.T) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/admin/login", "", loginRequest{Password: testPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNewRouter_RequiresSecret(t *testing.T) {
	files := storage.NewMemoryStore("")
	db := database.New(database.NewMemoryStore(), files)

	_, err := newRouter(db, withConfig(map[string]string{"ADMIN_PASSWORD": "x"}), withFiles(files))
	assert.Error(t, err)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/admin/project", "", models.Project{Title: "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/admin/project", "not-a-token", models.Project{Title: "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPut, "/admin/about", "", models.About{Email: "a@b.c"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/admin/login", "", loginRequest{Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := env.login(t)
	rec = env.do(t, http.MethodGet, "/admin/projects", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProjectLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/admin/category", token, models.Category{Name: "Branding", Color: "#ffeeaa"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	category := decode[models.Category](t, rec)

	rec = env.do(t, http.MethodPost, "/admin/project", token, models.Project{
		Title:      "Poster",
		Categories: []models.CategoryRef{{ID: category.ID}},
		DetailMedia: []models.MediaItem{
			{Type: models.MediaTypeImage, URL: "http://localhost:8080/files/uploads/1-a.jpg"},
			{Type: models.MediaTypeVideo, URL: "https://youtu.be/dQw4w9WgXcQ"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Project](t, rec)
	require.Len(t, created.Categories, 1)
	assert.Equal(t, "Branding", created.Categories[0].Name)
	require.Len(t, created.DetailMedia, 2)
	assert.Equal(t, models.VideoPlatformYouTube, created.DetailMedia[1].Platform)
	assert.Equal(t, 1, created.DetailMedia[1].Order)

	rec = env.do(t, http.MethodGet, "/projects?category=Branding", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[projectCollection](t, rec).Total)

	rec = env.do(t, http.MethodGet, "/projects?category=Editorial", "", nil)
	assert.Equal(t, 0, decode[projectCollection](t, rec).Total)

	rec = env.do(t, http.MethodGet, "/project/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Poster", decode[models.Project](t, rec).Title)

	rec = env.do(t, http.MethodDelete, "/admin/project/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/project/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Error, "project not found")
}

func TestCreateProject_Validation(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/admin/project", token, models.Project{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/admin/project", token, models.Project{
		Title:       "Bad video",
		DetailMedia: []models.MediaItem{{Type: models.MediaTypeVideo, URL: "https://example.com/clip"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/admin/project", token, models.Project{
		Title:      "Unknown category",
		Categories: []models.CategoryRef{{ID: "missing"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjectMedia(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/admin/project", token, models.Project{Title: "Book"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[models.Project](t, rec).ID

	for _, u := range []string{"http://localhost:8080/files/uploads/a.jpg", "http://localhost:8080/files/uploads/b.jpg"} {
		rec = env.do(t, http.MethodPost, "/admin/project/"+id+"/media", token, mediaRequest{Type: models.MediaTypeImage, URL: u})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	rec = env.do(t, http.MethodPost, "/admin/project/"+id+"/media", token, mediaRequest{Type: models.MediaTypeVideo, URL: "https://vimeo.com/76979871"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/admin/project/"+id+"/media/move", token, map[string]int{"from": 2, "to": 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[orderedView[models.MediaItem]](t, rec)
	require.Len(t, view.Items, 3)
	assert.Equal(t, models.MediaTypeVideo, view.Items[0].Type)

	assert.Eventually(t, func() bool {
		p, err := env.db.ProjectRepo().FindByID(t.Context(), id)
		return err == nil && len(p.DetailMedia) == 3 && p.DetailMedia[0].Type == models.MediaTypeVideo
	}, 2*time.Second, 10*time.Millisecond)

	rec = env.do(t, http.MethodDelete, "/admin/project/"+id+"/media/1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	items := decode[[]models.MediaItem](t, rec)
	require.Len(t, items, 2)
	assert.Equal(t, "http://localhost:8080/files/uploads/b.jpg", items[1].URL)
	assert.Equal(t, 1, items[1].Order)

	rec = env.do(t, http.MethodDelete, "/admin/project/"+id+"/media/9", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/admin/project/"+id+"/media/move", token, map[string]int{"from": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMainImages_MoveIsOptimisticAndPersisted(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	var ids []string
	for _, name := range []string{"a", "b", "c"} {
		rec := env.do(t, http.MethodPost, "/admin/main-image", token, models.Image{URL: "http://localhost:8080/files/uploads/" + name + ".jpg", FileName: name})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		ids = append(ids, decode[models.Image](t, rec).ID)
	}

	rec := env.do(t, http.MethodPost, "/admin/main-images/move", token, map[string]int{"from": 0, "to": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[orderedView[models.Image]](t, rec)
	require.Len(t, view.Items, 3)
	assert.Equal(t, []string{ids[1], ids[2], ids[0]}, []string{view.Items[0].ID, view.Items[1].ID, view.Items[2].ID})

	assert.Eventually(t, func() bool {
		rec := env.do(t, http.MethodGet, "/main-images", "", nil)
		images := decode[imageCollection](t, rec).Images
		return len(images) == 3 && images[0].ID == ids[1] && images[2].ID == ids[0]
	}, 2*time.Second, 10*time.Millisecond)

	rec = env.do(t, http.MethodPut, "/admin/main-images/order", token, orderRequest{IDs: []string{ids[2], ids[1], ids[0]}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view = decode[orderedView[models.Image]](t, rec)
	assert.Equal(t, ids[2], view.Items[0].ID)
	assert.Equal(t, "idle", view.State)

	rec = env.do(t, http.MethodPut, "/admin/main-images/order", token, orderRequest{IDs: []string{ids[0], ids[0]}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, "/admin/main-image/"+ids[0], token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/admin/main-images", token, nil)
	assert.Len(t, decode[orderedView[models.Image]](t, rec).Items, 2)
}

func multipartUpload(t *testing.T, fileName, contentType string, data []byte, slot string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if slot != "" {
		require.NoError(t, mw.WriteField("slot", slot))
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewNRGBA(image.Rect(0, 0, 32, 16))))

	req := multipartUpload(t, "logo.png", "image/png", img.Bytes(), "thumbnail")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[uploadResponse](t, rec)
	assert.True(t, resp.Success)
	assert.True(t, strings.HasPrefix(resp.FileName, "uploads/"), resp.FileName)
	assert.Equal(t, "http://localhost:8080/files/"+resp.FileName, resp.URL)
	assert.Equal(t, 1, env.files.Len())

	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/"+resp.FileName, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestUpload_TooLarge(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	req := multipartUpload(t, "huge.jpg", "image/jpeg", make([]byte, 11<<20), "main")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())
	assert.Zero(t, env.files.Len())
}

func TestUpload_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, multipartUpload(t, "a.png", "image/png", []byte("x"), ""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, env.files.Len())
}

func TestPresign(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/admin/presign", token, presignRequest{FileName: "a.jpg", FileType: "image/jpeg"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"expiresIn":600`)

	rec = env.do(t, http.MethodPost, "/admin/presign", token, presignRequest{FileName: "a.zip", FileType: "application/zip"})
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestBackgroundAndAbout(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodGet, "/background?category=Branding", "", nil)
	assert.Equal(t, "#ffffff", decode[backgroundResponse](t, rec).Color)

	rec = env.do(t, http.MethodPost, "/admin/category", token, models.Category{Name: "Branding", Color: "#ffeeaa"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/background?category=Branding", "", nil)
	assert.Equal(t, "#ffeeaa", decode[backgroundResponse](t, rec).Color)
	rec = env.do(t, http.MethodGet, "/background", "", nil)
	bg := decode[backgroundResponse](t, rec)
	assert.Equal(t, "ALL", bg.Category)
	assert.Equal(t, "#ffeeaa", bg.Color)

	rec = env.do(t, http.MethodGet, "/about", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.DefaultAbout().Email, decode[models.About](t, rec).Email)

	rec = env.do(t, http.MethodPut, "/admin/about", token, models.About{Email: "hello@alolot.kr", AnotherProjects: []string{"2025, Test"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = env.do(t, http.MethodGet, "/about", "", nil)
	assert.Equal(t, "hello@alolot.kr", decode[models.About](t, rec).Email)
}

func TestSitemapRoute(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/admin/project", token, models.Project{Title: "Zine", ThumbnailURL: "http://localhost:8080/files/uploads/z.jpg"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[models.Project](t, rec).ID

	rec = env.do(t, http.MethodGet, "/sitemap.xml", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, rec.Body.String(), "<loc>https://alolot.kr/projects/"+id+"</loc>")
	assert.Contains(t, rec.Body.String(), "<image:loc>http://localhost:8080/files/uploads/z.jpg</image:loc>")
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/admin/project", nil)
	req.Header.Set("Origin", "https://alolot.kr")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://alolot.kr", rec.Header().Get("Access-Control-Allow-Origin"))
}
