package controller

import (
	"net/http"

	"github.com/Itish41/portfolio-cms/apperror"
	"github.com/Itish41/portfolio-cms/models"
	"github.com/Itish41/portfolio-cms/query"
	services "github.com/Itish41/portfolio-cms/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// upload describes the optional image field of a resource.
type upload[PT any] struct {
	field  string
	folder string
	apply  func(item PT, url, filename string)
}

// ContentController serves list/get/create/update/delete for one portfolio
// resource.
type ContentController[T any, PT models.DocumentPtr[T]] struct {
	svc    *services.ContentService[T, PT]
	label  string // "Project"
	key    string // response key on writes
	plural string
	upload *upload[PT]
	filter func(c *gin.Context) query.Filter
}

func newContentController[T any, PT models.DocumentPtr[T]](svc *services.ContentService[T, PT], label, plural string) *ContentController[T, PT] {
	return &ContentController[T, PT]{svc: svc, label: label, key: svc.Name(), plural: plural}
}

func (cc *ContentController[T, PT]) withUpload(field, folder string, apply func(PT, string, string)) *ContentController[T, PT] {
	cc.upload = &upload[PT]{field: field, folder: folder, apply: apply}
	return cc
}

func (cc *ContentController[T, PT]) withFilter(f func(c *gin.Context) query.Filter) *ContentController[T, PT] {
	cc.filter = f
	return cc
}

// Register mounts the routes on g. admin guards the writes.
func (cc *ContentController[T, PT]) Register(g *gin.RouterGroup, admin ...gin.HandlerFunc) {
	g.GET("", cc.List)
	g.GET("/:id", cc.Get)
	g.POST("", chain(admin, cc.Create)...)
	g.PUT("/:id", chain(admin, cc.Update)...)
	g.DELETE("/:id", chain(admin, cc.Delete)...)
}

func (cc *ContentController[T, PT]) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	f := query.Where()
	if cc.filter != nil {
		f = cc.filter(c)
	}
	items, err := cc.svc.List(ctx, f)
	if err != nil {
		fail(c, err, "Error fetching "+cc.plural)
		return
	}
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}

func (cc *ContentController[T, PT]) Get(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := cc.svc.Get(ctx, c.Param("id"))
	if err != nil {
		fail(c, err, "Error fetching "+cc.key)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (cc *ContentController[T, PT]) Create(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := cc.svc.Create(ctx, cc.bind(c))
	if err != nil {
		fail(c, err, "Error creating "+cc.key)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": cc.label + " created successfully", cc.key: item})
}

func (cc *ContentController[T, PT]) Update(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := cc.svc.Update(ctx, c.Param("id"), cc.bind(c))
	if err != nil {
		fail(c, err, "Error updating "+cc.key)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": cc.label + " updated successfully", cc.key: item})
}

func (cc *ContentController[T, PT]) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := cc.svc.Delete(ctx, c.Param("id")); err != nil {
		fail(c, err, "Error deleting "+cc.key)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": cc.label + " deleted successfully"})
}

// bind decodes the request body over the record and stores an uploaded
// image when one is attached.
func (cc *ContentController[T, PT]) bind(c *gin.Context) func(PT) error {
	return func(item PT) error {
		if err := c.ShouldBind(item); err != nil {
			return badRequest(err)
		}
		if cc.upload == nil {
			return nil
		}
		return attachUpload(c, cc.svc.Media(), cc.upload.field, cc.upload.folder, func(url, filename string) {
			cc.upload.apply(item, url, filename)
		})
	}
}

// attachUpload saves the multipart file in field, if any, and hands its URL
// to apply.
func attachUpload(c *gin.Context, media services.MediaStore, field, folder string, apply func(url, filename string)) error {
	if c.ContentType() != binding.MIMEMultipartPOSTForm {
		return nil
	}
	file, err := c.FormFile(field)
	if err == http.ErrMissingFile {
		return nil
	}
	if err != nil {
		return apperror.Validation("invalid %s upload: %s", field, err.Error())
	}
	if media == nil {
		return apperror.InvalidOperation("uploads are not configured")
	}
	if err := services.ValidateImage(file); err != nil {
		return err
	}
	url, err := media.Save(c.Request.Context(), folder, file)
	if err != nil {
		return err
	}
	apply(url, file.Filename)
	return nil
}

func queryFlag(c *gin.Context, name string) bool {
	return c.Query(name) == "true"
}

// NewProjectController filters by ?category= (except "all") and ?featured=true.
func NewProjectController(svc *services.ContentService[models.Project, *models.Project]) *ContentController[models.Project, *models.Project] {
	return newContentController(svc, "Project", "projects").
		withUpload("image", "projects", func(p *models.Project, url, _ string) { p.Image = url }).
		withFilter(func(c *gin.Context) query.Filter {
			f := query.Where()
			if cat := c.Query("category"); cat != "" && cat != "all" {
				f = f.Eq("category", cat)
			}
			if queryFlag(c, "featured") {
				f = f.Eq("featured", true)
			}
			return f
		})
}

func NewSkillController(svc *services.ContentService[models.Skill, *models.Skill]) *ContentController[models.Skill, *models.Skill] {
	return newContentController(svc, "Skill", "skills").
		withUpload("iconFile", "skills", func(s *models.Skill, url, filename string) { s.UseImage(url, filename) })
}

// NewBlogController filters by ?published=true.
func NewBlogController(svc *services.ContentService[models.Blog, *models.Blog]) *ContentController[models.Blog, *models.Blog] {
	return newContentController(svc, "Blog", "blogs").
		withUpload("image", "blogs", func(b *models.Blog, url, _ string) { b.Image = url }).
		withFilter(func(c *gin.Context) query.Filter {
			if queryFlag(c, "published") {
				return query.Where().Eq("published", true)
			}
			return query.Where()
		})
}

func NewEducationController(svc *services.ContentService[models.Education, *models.Education]) *ContentController[models.Education, *models.Education] {
	return newContentController(svc, "Education", "education")
}

func NewExperienceController(svc *services.ContentService[models.Experience, *models.Experience]) *ContentController[models.Experience, *models.Experience] {
	return newContentController(svc, "Experience", "experience")
}

// NewTestimonialController filters by ?featured=true.
func NewTestimonialController(svc *services.ContentService[models.Testimonial, *models.Testimonial]) *ContentController[models.Testimonial, *models.Testimonial] {
	return newContentController(svc, "Testimonial", "testimonials").
		withUpload("avatar", "testimonials", func(t *models.Testimonial, url, _ string) { t.Avatar = url }).
		withFilter(func(c *gin.Context) query.Filter {
			if queryFlag(c, "featured") {
				return query.Where().Eq("featured", true)
			}
			return query.Where()
		})
}
