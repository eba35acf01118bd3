package controller

import (
	"net/http"

	"github.com/Itish41/portfolio-cms/middleware"
	services "github.com/Itish41/portfolio-cms/service"
	"github.com/gin-gonic/gin"
)

// TemplateController serves the formulation template catalogue under
// /api/standards/template.
type TemplateController struct {
	templates *services.TemplateService
}

func NewTemplateController(templates *services.TemplateService) *TemplateController {
	return &TemplateController{templates: templates}
}

func bindSearch(c *gin.Context) (services.SearchParams, bool) {
	var p services.SearchParams
	if err := c.ShouldBindQuery(&p); err != nil {
		failEnvelope(c, badRequest(err), "Invalid query")
		return p, false
	}
	return p, true
}

func (tc *TemplateController) ListDetails(c *gin.Context) {
	var p services.DetailListParams
	if err := c.ShouldBindQuery(&p); err != nil {
		failEnvelope(c, badRequest(err), "Invalid query")
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	page, err := tc.templates.ListDetails(ctx, p)
	if err != nil {
		failEnvelope(c, err, "Failed to fetch standard details")
		return
	}
	envelope(c, http.StatusOK, "Standard details fetched successfully", page)
}

func (tc *TemplateController) GetDetail(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	detail, err := tc.templates.GetDetail(ctx, c.Param("idStandardDetail"))
	if err != nil {
		failEnvelope(c, err, "Failed to fetch standard detail")
		return
	}
	envelope(c, http.StatusOK, "Standard detail fetched successfully", detail)
}

func (tc *TemplateController) CreateDetail(c *gin.Context) {
	var in services.StandardDetailInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failEnvelope(c, badRequest(err), "Invalid standard detail")
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	detail, err := tc.templates.CreateDetail(ctx, in)
	if err != nil {
		failEnvelope(c, err, "Failed to create standard detail")
		return
	}
	envelope(c, http.StatusCreated, "Standard detail created successfully", detail)
}

func (tc *TemplateController) UpdateDetail(c *gin.Context) {
	var patch services.StandardDetailPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		failEnvelope(c, badRequest(err), "Invalid standard detail")
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	detail, err := tc.templates.UpdateDetail(ctx, c.Param("idStandardDetail"), patch)
	if err != nil {
		failEnvelope(c, err, "Failed to update standard detail")
		return
	}
	envelope(c, http.StatusOK, "Standard detail updated successfully", detail)
}

func (tc *TemplateController) DeleteDetail(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := tc.templates.DeleteDetail(ctx, c.Param("idStandardDetail")); err != nil {
		failEnvelope(c, err, "Failed to delete standard detail")
		return
	}
	envelope(c, http.StatusOK, "Standard detail deleted successfully", nil)
}

func (tc *TemplateController) ListTypes(c *gin.Context) {
	p, ok := bindSearch(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	types, err := tc.templates.ListTypes(ctx, c.Param("idStandardDetail"), p)
	if err != nil {
		failEnvelope(c, err, "Failed to fetch standard detail types")
		return
	}
	envelope(c, http.StatusOK, "Standard detail types fetched successfully", types)
}

func (tc *TemplateController) CreateType(c *gin.Context) {
	var in services.DetailTypeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failEnvelope(c, badRequest(err), "Invalid standard detail type")
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	t, err := tc.templates.CreateType(ctx, c.Param("idStandardDetail"), in)
	if err != nil {
		failEnvelope(c, err, "Failed to create standard detail type")
		return
	}
	envelope(c, http.StatusCreated, "Standard detail type created successfully", t)
}

func (tc *TemplateController) UpdateType(c *gin.Context) {
	var patch services.DetailTypePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		failEnvelope(c, badRequest(err), "Invalid standard detail type")
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	t, err := tc.templates.UpdateType(ctx, c.Param("idStandardDetail"), c.Param("idStandardDetailType"), patch)
	if err != nil {
		failEnvelope(c, err, "Failed to update standard detail type")
		return
	}
	envelope(c, http.StatusOK, "Standard detail type updated successfully", t)
}

func (tc *TemplateController) DeleteType(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := tc.templates.DeleteType(ctx, c.Param("idStandardDetail"), c.Param("idStandardDetailType")); err != nil {
		failEnvelope(c, err, "Failed to delete standard detail type")
		return
	}
	envelope(c, http.StatusOK, "Standard detail type deleted successfully", nil)
}

func (tc *TemplateController) ListTemplates(c *gin.Context) {
	p, ok := bindSearch(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	rows, err := tc.templates.ListTemplates(ctx, c.Param("idStandardDetail"), p)
	if err != nil {
		failEnvelope(c, err, "Failed to fetch standard templates")
		return
	}
	envelope(c, http.StatusOK, "Standard templates fetched successfully", rows)
}

func (tc *TemplateController) CreateTemplate(c *gin.Context) {
	var in services.TemplateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failEnvelope(c, badRequest(err), "Invalid standard template")
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	tpl, err := tc.templates.CreateTemplate(ctx, c.Param("idStandardDetail"), in)
	if err != nil {
		failEnvelope(c, err, "Failed to create standard template")
		return
	}
	envelope(c, http.StatusCreated, "Standard template created successfully", tpl)
}

func (tc *TemplateController) UpdateTemplate(c *gin.Context) {
	var patch services.TemplatePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		failEnvelope(c, badRequest(err), "Invalid standard template")
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	tpl, err := tc.templates.UpdateTemplate(ctx, c.Param("idStandardDetail"), c.Param("idStandardTemplate"), patch)
	if err != nil {
		failEnvelope(c, err, "Failed to update standard template")
		return
	}
	envelope(c, http.StatusOK, "Standard template updated successfully", tpl)
}

func (tc *TemplateController) DeleteTemplate(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := tc.templates.DeleteTemplate(ctx, c.Param("idStandardDetail"), c.Param("idStandardTemplate")); err != nil {
		failEnvelope(c, err, "Failed to delete standard template")
		return
	}
	envelope(c, http.StatusOK, "Standard template deleted successfully", nil)
}

func (tc *TemplateController) Contents(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	contents, err := tc.templates.Contents(ctx)
	if err != nil {
		failEnvelope(c, err, "Failed to fetch formulation contents")
		return
	}
	envelope(c, http.StatusOK, "Formulation contents fetched successfully", contents)
}

// Register mounts the catalogue on the authenticated standards group. Reads
// are open to any signed-in user, writes need the admin role.
func (tc *TemplateController) Register(g *gin.RouterGroup) {
	admin := middleware.RequireRole()

	g.GET("/formulation/contents", tc.Contents)

	t := g.Group("/template")
	t.GET("", tc.ListDetails)
	t.POST("", admin, tc.CreateDetail)
	t.GET("/:idStandardDetail", tc.GetDetail)
	t.PATCH("/:idStandardDetail", admin, tc.UpdateDetail)
	t.DELETE("/:idStandardDetail", admin, tc.DeleteDetail)

	t.GET("/:idStandardDetail/type", tc.ListTypes)
	t.POST("/:idStandardDetail/type", admin, tc.CreateType)
	t.PATCH("/:idStandardDetail/type/:idStandardDetailType", admin, tc.UpdateType)
	t.DELETE("/:idStandardDetail/type/:idStandardDetailType", admin, tc.DeleteType)

	t.GET("/:idStandardDetail/list", tc.ListTemplates)
	t.POST("/:idStandardDetail/list", admin, tc.CreateTemplate)
	t.PATCH("/:idStandardDetail/list/:idStandardTemplate", admin, tc.UpdateTemplate)
	t.DELETE("/:idStandardDetail/list/:idStandardTemplate", admin, tc.DeleteTemplate)
}
