package project

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/portfolio/projects-api/internal/domain/media"
	domainproject "github.com/portfolio/projects-api/internal/domain/project"
	"github.com/portfolio/projects-api/internal/metrics"
	portgit "github.com/portfolio/projects-api/internal/port/git"
	"github.com/portfolio/projects-api/internal/service/importer"
	projectsvc "github.com/portfolio/projects-api/internal/service/project"
)

// maxUploadBody bounds the multipart request; the image limit itself is
// enforced by the service.
const maxUploadBody = media.MaxImageSize + 1<<20

// Options carries the optional collaborators of the project routes.
type Options struct {
	// Importer enables POST /import when non-nil.
	Importer *importer.Service
	Metrics  *metrics.Metrics
	// CreateMiddleware runs before the create and import handlers.
	CreateMiddleware []gin.HandlerFunc
	// UploadMiddleware runs before the upload handler.
	UploadMiddleware []gin.HandlerFunc
}

func Register(rg *gin.RouterGroup, svc *projectsvc.Service, log *zap.Logger, opts Options) {
	rg.GET("", listProjects(svc, log))
	rg.POST("", chain(opts.CreateMiddleware, createProject(svc, log))...)
	rg.PUT("/:id", updateProject(svc, log))
	rg.DELETE("/:id", deleteProject(svc, log))
	rg.POST("/upload", chain(opts.UploadMiddleware, uploadImage(svc, opts.Metrics, log))...)
	if opts.Importer != nil {
		rg.POST("/import", chain(opts.CreateMiddleware, importProject(opts.Importer, log))...)
	}
}

func chain(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	out = append(out, mw...)
	return append(out, h)
}

func message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// projectReq accepts "techStack" as an alias of "technologies".
type projectReq struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Technologies *[]string `json:"technologies"`
	TechStack    *[]string `json:"techStack"`
}

func (r projectReq) technologies() *[]string {
	if r.Technologies != nil {
		return r.Technologies
	}
	return r.TechStack
}

func (r projectReq) input() domainproject.Input {
	var in domainproject.Input
	if r.Title != nil {
		in.Title = *r.Title
	}
	if r.Description != nil {
		in.Description = *r.Description
	}
	if techs := r.technologies(); techs != nil {
		in.Technologies = *techs
	}
	return in
}

func (r projectReq) patch() domainproject.Patch {
	return domainproject.Patch{
		Title:        r.Title,
		Description:  r.Description,
		Technologies: r.technologies(),
	}
}

// bindOptionalJSON treats an empty body as an empty object.
func bindOptionalJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func listProjects(svc *projectsvc.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := domainproject.NewListQuery(c.Query("page"), c.Query("limit"), c.Query("search"), c.Query("sort"))

		page, err := svc.List(c.Request.Context(), q)
		if err != nil {
			log.Error("list projects failed", zap.Error(err))
			message(c, http.StatusInternalServerError, "Server Error")
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func createProject(svc *projectsvc.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req projectReq
		if err := bindOptionalJSON(c, &req); err != nil {
			message(c, http.StatusBadRequest, "Invalid request body")
			return
		}

		p, err := svc.Create(c.Request.Context(), req.input())
		if err != nil {
			var verr *domainproject.ValidationError
			if errors.As(err, &verr) {
				message(c, http.StatusBadRequest, verr.Error())
				return
			}
			log.Error("create project failed", zap.Error(err))
			message(c, http.StatusBadRequest, "Error creating project")
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func updateProject(svc *projectsvc.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req projectReq
		if err := bindOptionalJSON(c, &req); err != nil {
			if _, idErr := domainproject.ParseID(c.Param("id")); idErr != nil {
				message(c, http.StatusBadRequest, "Invalid project ID format")
				return
			}
			message(c, http.StatusBadRequest, "Invalid request body")
			return
		}

		p, err := svc.Update(c.Request.Context(), c.Param("id"), req.patch())
		if err != nil {
			var verr *domainproject.ValidationError
			switch {
			case errors.Is(err, domainproject.ErrInvalidID):
				message(c, http.StatusBadRequest, "Invalid project ID format")
			case errors.As(err, &verr):
				message(c, http.StatusBadRequest, verr.Error())
			case errors.Is(err, domainproject.ErrNotFound):
				message(c, http.StatusNotFound, "Project not found")
			default:
				log.Error("update project failed", zap.String("project_id", c.Param("id")), zap.Error(err))
				message(c, http.StatusInternalServerError, "Error updating project")
			}
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func deleteProject(svc *projectsvc.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := svc.Delete(c.Request.Context(), c.Param("id"))
		switch {
		case err == nil:
			message(c, http.StatusOK, "Project deleted successfully")
		case errors.Is(err, domainproject.ErrInvalidID):
			message(c, http.StatusBadRequest, "Invalid project ID format")
		case errors.Is(err, domainproject.ErrNotFound):
			message(c, http.StatusNotFound, "Project not found")
		default:
			log.Error("delete project failed", zap.String("project_id", c.Param("id")), zap.Error(err))
			message(c, http.StatusInternalServerError, "Error deleting project")
		}
	}
}

func uploadImage(svc *projectsvc.Service, m *metrics.Metrics, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)

		fh, err := c.FormFile("image")
		if err != nil {
			m.RecordUpload(metrics.UploadRejected)
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) || c.Request.ContentLength > maxUploadBody {
				message(c, http.StatusBadRequest, "File too large")
				return
			}
			message(c, http.StatusBadRequest, "No file uploaded")
			return
		}

		f, err := fh.Open()
		if err != nil {
			m.RecordUpload(metrics.UploadFailed)
			log.Error("open uploaded file", zap.Error(err))
			message(c, http.StatusInternalServerError, "Image upload failed")
			return
		}
		defer f.Close()

		url, err := svc.UploadImage(c.Request.Context(), &projectsvc.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
		if err != nil {
			switch {
			case errors.Is(err, media.ErrNoFile):
				m.RecordUpload(metrics.UploadRejected)
				message(c, http.StatusBadRequest, "No file uploaded")
			case errors.Is(err, media.ErrUnsupportedImage):
				m.RecordUpload(metrics.UploadRejected)
				message(c, http.StatusBadRequest, "Only images are allowed!")
			case errors.Is(err, media.ErrImageTooLarge):
				m.RecordUpload(metrics.UploadRejected)
				message(c, http.StatusBadRequest, "File too large")
			default:
				m.RecordUpload(metrics.UploadFailed)
				log.Error("image upload failed", zap.String("filename", fh.Filename), zap.Error(err))
				message(c, http.StatusInternalServerError, "Image upload failed")
			}
			return
		}

		m.RecordUpload(metrics.UploadOK)
		c.JSON(http.StatusOK, gin.H{
			"message":  "File uploaded successfully",
			"imageUrl": url,
		})
	}
}

type importReq struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

func importProject(imp *importer.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req importReq
		if err := bindOptionalJSON(c, &req); err != nil {
			message(c, http.StatusBadRequest, "Invalid request body")
			return
		}

		p, err := imp.Import(c.Request.Context(), req.Owner, req.Repo)
		if err != nil {
			var verr *domainproject.ValidationError
			switch {
			case errors.As(err, &verr):
				message(c, http.StatusBadRequest, verr.Error())
			case errors.Is(err, portgit.ErrRepoNotFound):
				message(c, http.StatusNotFound, "Repository not found")
			case errors.Is(err, importer.ErrLookup):
				log.Error("github lookup failed", zap.String("owner", req.Owner), zap.String("repo", req.Repo), zap.Error(err))
				message(c, http.StatusBadGateway, "GitHub lookup failed")
			default:
				log.Error("import project failed", zap.Error(err))
				message(c, http.StatusBadRequest, "Error creating project")
			}
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}
