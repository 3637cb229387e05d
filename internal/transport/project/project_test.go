package project_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	domainmedia "github.com/portfolio/projects-api/internal/domain/media"
	domainproject "github.com/portfolio/projects-api/internal/domain/project"
	"github.com/portfolio/projects-api/internal/mocks"
	portgit "github.com/portfolio/projects-api/internal/port/git"
	"github.com/portfolio/projects-api/internal/service/importer"
	projectsvc "github.com/portfolio/projects-api/internal/service/project"
	transportproject "github.com/portfolio/projects-api/internal/transport/project"
)

func init() { gin.SetMode(gin.TestMode) }

type deps struct {
	repo  *mocks.MockProjectRepository
	media *mocks.MockMediaStore
	git   *mocks.MockRepoReader
}

func newRouter(t *testing.T) (*gin.Engine, deps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := deps{
		repo:  mocks.NewMockProjectRepository(ctrl),
		media: mocks.NewMockMediaStore(ctrl),
		git:   mocks.NewMockRepoReader(ctrl),
	}
	log := zaptest.NewLogger(t)
	svc := projectsvc.NewService(d.repo, d.media, nil, log, domainmedia.DefaultFolder)

	r := gin.New()
	transportproject.Register(r.Group("/api/projects"), svc, log, transportproject.Options{
		Importer: importer.NewService(d.git, svc),
	})
	return r, d
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	msg, _ := body["message"].(string)
	return msg
}

// ── GET /api/projects ─────────────────────────────────────────────────────────

func TestListProjects_Defaults(t *testing.T) {
	r, d := newRouter(t)
	d.repo.EXPECT().List(gomock.Any(), domainproject.NewListQuery("", "", "", "")).Return(nil, int64(0), nil)

	w := doJSON(r, http.MethodGet, "/api/projects", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":0,"page":1,"limit":10,"projects":[]}`, w.Body.String())
}

func TestListProjects_PassesQuery(t *testing.T) {
	r, d := newRouter(t)
	d.repo.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, q domainproject.ListQuery) ([]domainproject.Project, int64, error) {
			assert.Equal(t, 3, q.Page)
			assert.Equal(t, 100, q.Limit)
			assert.Equal(t, "foo", q.Search)
			require.NotNil(t, q.Sort)
			assert.Equal(t, domainproject.SortTitle, q.Sort.Field)
			assert.True(t, q.Sort.Desc)
			return nil, 0, nil
		})

	w := doJSON(r, http.MethodGet, "/api/projects?page=3&limit=500&search=foo&sort=title:desc", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListProjects_StoreFault(t *testing.T) {
	r, d := newRouter(t)
	d.repo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, int64(0), errors.New("db down"))

	w := doJSON(r, http.MethodGet, "/api/projects", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server Error", messageOf(t, w))
}

// ── POST /api/projects ────────────────────────────────────────────────────────

func TestCreateProject_Success(t *testing.T) {
	r, d := newRouter(t)
	created := domainproject.Project{ID: primitive.NewObjectID(), Title: "Portfolio", Technologies: []string{"Go"}}
	d.repo.EXPECT().Create(gomock.Any(), domainproject.Input{
		Title:        "Portfolio",
		Description:  "A personal portfolio site",
		Technologies: []string{"Go"},
	}).Return(created, nil)

	w := doJSON(r, http.MethodPost, "/api/projects", `{"title":"Portfolio","description":"A personal portfolio site","technologies":["Go"]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, created.ID.Hex(), got["id"])
}

func TestCreateProject_TechStackAlias(t *testing.T) {
	r, d := newRouter(t)
	d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in domainproject.Input) (domainproject.Project, error) {
			assert.Equal(t, []string{"Node", "Express"}, in.Technologies)
			return domainproject.Project{ID: primitive.NewObjectID()}, nil
		})

	w := doJSON(r, http.MethodPost, "/api/projects", `{"title":"Portfolio","description":"A personal portfolio site","techStack":["Node","Express"]}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateProject_ValidationNeverReachesStore(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "short title", body: `{"title":"ab","description":"A personal portfolio site","technologies":["Go"]}`, wantMsg: `"title"`},
		{name: "missing description", body: `{"title":"Portfolio","technologies":["Go"]}`, wantMsg: `"description"`},
		{name: "empty technologies", body: `{"title":"Portfolio","description":"A personal portfolio site","technologies":[]}`, wantMsg: `"technologies"`},
		{name: "empty body", body: ``, wantMsg: `"title"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newRouter(t)
			w := doJSON(r, http.MethodPost, "/api/projects", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, messageOf(t, w), tt.wantMsg)
		})
	}
}

func TestCreateProject_MalformedJSON(t *testing.T) {
	r, _ := newRouter(t)
	w := doJSON(r, http.MethodPost, "/api/projects", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", messageOf(t, w))
}

func TestCreateProject_StoreRejection(t *testing.T) {
	r, d := newRouter(t)
	d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domainproject.Project{}, errors.New("duplicate key"))

	w := doJSON(r, http.MethodPost, "/api/projects", `{"title":"Portfolio","description":"A personal portfolio site","technologies":["Go"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Error creating project", messageOf(t, w))
}

// ── PUT /api/projects/:id ─────────────────────────────────────────────────────

func TestUpdateProject(t *testing.T) {
	id := primitive.NewObjectID()

	tests := []struct {
		name     string
		path     string
		body     string
		setup    func(d deps)
		wantCode int
		wantMsg  string
	}{
		{
			name: "success",
			path: "/api/projects/" + id.Hex(),
			body: `{"title":"Renamed project"}`,
			setup: func(d deps) {
				title := "Renamed project"
				d.repo.EXPECT().Update(gomock.Any(), id, domainproject.Patch{Title: &title}).
					Return(domainproject.Project{ID: id, Title: title}, nil)
			},
			wantCode: http.StatusOK,
		},
		{name: "malformed id", path: "/api/projects/123", body: `{"title":"Renamed project"}`, setup: func(deps) {}, wantCode: http.StatusBadRequest, wantMsg: "Invalid project ID format"},
		{name: "malformed id and body", path: "/api/projects/123", body: `{`, setup: func(deps) {}, wantCode: http.StatusBadRequest, wantMsg: "Invalid project ID format"},
		{name: "invalid patch", path: "/api/projects/" + id.Hex(), body: `{"technologies":[]}`, setup: func(deps) {}, wantCode: http.StatusBadRequest, wantMsg: `"technologies"`},
		{
			name: "not found",
			path: "/api/projects/" + id.Hex(),
			body: `{"title":"Renamed project"}`,
			setup: func(d deps) {
				d.repo.EXPECT().Update(gomock.Any(), id, gomock.Any()).Return(domainproject.Project{}, domainproject.ErrNotFound)
			},
			wantCode: http.StatusNotFound,
			wantMsg:  "Project not found",
		},
		{
			name: "store fault",
			path: "/api/projects/" + id.Hex(),
			body: `{"title":"Renamed project"}`,
			setup: func(d deps) {
				d.repo.EXPECT().Update(gomock.Any(), id, gomock.Any()).Return(domainproject.Project{}, errors.New("timeout"))
			},
			wantCode: http.StatusInternalServerError,
			wantMsg:  "Error updating project",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, d := newRouter(t)
			tt.setup(d)

			w := doJSON(r, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantMsg != "" {
				assert.Contains(t, messageOf(t, w), tt.wantMsg)
			}
		})
	}
}

// ── DELETE /api/projects/:id ──────────────────────────────────────────────────

func TestDeleteProject(t *testing.T) {
	id := primitive.NewObjectID()

	tests := []struct {
		name     string
		path     string
		setup    func(d deps)
		wantCode int
		wantMsg  string
	}{
		{
			name:     "success",
			path:     "/api/projects/" + id.Hex(),
			setup:    func(d deps) { d.repo.EXPECT().Delete(gomock.Any(), id).Return(nil) },
			wantCode: http.StatusOK,
			wantMsg:  "Project deleted successfully",
		},
		{name: "malformed id", path: "/api/projects/xyz", setup: func(deps) {}, wantCode: http.StatusBadRequest, wantMsg: "Invalid project ID format"},
		{
			name:     "not found",
			path:     "/api/projects/" + id.Hex(),
			setup:    func(d deps) { d.repo.EXPECT().Delete(gomock.Any(), id).Return(domainproject.ErrNotFound) },
			wantCode: http.StatusNotFound,
			wantMsg:  "Project not found",
		},
		{
			name:     "store fault",
			path:     "/api/projects/" + id.Hex(),
			setup:    func(d deps) { d.repo.EXPECT().Delete(gomock.Any(), id).Return(errors.New("timeout")) },
			wantCode: http.StatusInternalServerError,
			wantMsg:  "Error deleting project",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, d := newRouter(t)
			tt.setup(d)

			w := doJSON(r, http.MethodDelete, tt.path, "")
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantMsg, messageOf(t, w))
		})
	}
}

// ── POST /api/projects/upload ─────────────────────────────────────────────────

var pngSignature = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func multipartReq(t *testing.T, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, "/api/projects/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func png(size int) []byte {
	data := make([]byte, size)
	copy(data, pngSignature)
	return data
}

func TestUploadImage_Success(t *testing.T) {
	r, d := newRouter(t)
	d.media.EXPECT().Upload(gomock.Any(), gomock.Any()).Return("https://res.cloudinary.com/demo/shot.png", nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartReq(t, "image", "shot.png", "image/png", png(1<<20)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"File uploaded successfully","imageUrl":"https://res.cloudinary.com/demo/shot.png"}`, w.Body.String())
}

func TestUploadImage_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     func(t *testing.T) *http.Request
		wantMsg string
	}{
		{name: "no file", req: func(t *testing.T) *http.Request { return multipartReq(t, "", "", "", nil) }, wantMsg: "No file uploaded"},
		{name: "wrong field", req: func(t *testing.T) *http.Request { return multipartReq(t, "photo", "shot.png", "image/png", png(64)) }, wantMsg: "No file uploaded"},
		{name: "gif", req: func(t *testing.T) *http.Request {
			return multipartReq(t, "image", "anim.gif", "image/gif", []byte("GIF89a........."))
		}, wantMsg: "Only images are allowed!"},
		{name: "6 MiB", req: func(t *testing.T) *http.Request { return multipartReq(t, "image", "big.png", "image/png", png(6<<20)) }, wantMsg: "File too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No EXPECT on the media store: reaching it fails the test.
			r, _ := newRouter(t)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, tt.req(t))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantMsg, messageOf(t, w))
		})
	}
}

func TestUploadImage_ProviderFault(t *testing.T) {
	r, d := newRouter(t)
	d.media.EXPECT().Upload(gomock.Any(), gomock.Any()).Return("", errors.New("Invalid Signature abc123"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartReq(t, "image", "shot.png", "image/png", png(128)))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Image upload failed", messageOf(t, w))
	assert.NotContains(t, w.Body.String(), "abc123")
}

// ── POST /api/projects/import ─────────────────────────────────────────────────

func TestImportProject(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		setup    func(d deps)
		wantCode int
		wantMsg  string
	}{
		{
			name: "success",
			body: `{"owner":"octo","repo":"hello"}`,
			setup: func(d deps) {
				d.git.EXPECT().Repository(gomock.Any(), "octo", "hello").Return(portgit.RepoInfo{
					Name: "hello", Description: "Says hello to the world", Languages: []string{"Go"},
				}, nil)
				d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domainproject.Project{ID: primitive.NewObjectID(), Title: "hello"}, nil)
			},
			wantCode: http.StatusCreated,
		},
		{name: "missing repo", body: `{"owner":"octo"}`, setup: func(deps) {}, wantCode: http.StatusBadRequest, wantMsg: `"repository"`},
		{
			name: "repo not found",
			body: `{"owner":"octo","repo":"nope"}`,
			setup: func(d deps) {
				d.git.EXPECT().Repository(gomock.Any(), "octo", "nope").Return(portgit.RepoInfo{}, portgit.ErrRepoNotFound)
			},
			wantCode: http.StatusNotFound,
			wantMsg:  "Repository not found",
		},
		{
			name: "github fault",
			body: `{"owner":"octo","repo":"hello"}`,
			setup: func(d deps) {
				d.git.EXPECT().Repository(gomock.Any(), "octo", "hello").Return(portgit.RepoInfo{}, errors.New("rate limited"))
			},
			wantCode: http.StatusBadGateway,
			wantMsg:  "GitHub lookup failed",
		},
		{
			name: "repo fails validation",
			body: `{"owner":"octo","repo":"hi"}`,
			setup: func(d deps) {
				d.git.EXPECT().Repository(gomock.Any(), "octo", "hi").Return(portgit.RepoInfo{
					Name: "hi", Description: "Too short title", Languages: []string{"Go"},
				}, nil)
			},
			wantCode: http.StatusBadRequest,
			wantMsg:  `"title"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, d := newRouter(t)
			tt.setup(d)

			w := doJSON(r, http.MethodPost, "/api/projects/import", tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantMsg != "" {
				assert.Contains(t, messageOf(t, w), tt.wantMsg)
			}
		})
	}
}
