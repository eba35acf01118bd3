package controller

import (
	"net/http"

	"github.com/Itish41/portfolio-cms/middleware"
	"github.com/Itish41/portfolio-cms/models"
	services "github.com/Itish41/portfolio-cms/service"
	"github.com/gin-gonic/gin"
)

// StandardController serves the standards catalogue and the formulation
// approval workflow. Responses use the {success, message, data} envelope.
type StandardController struct {
	standards *services.StandardService
	approvals *services.ApprovalService
}

func NewStandardController(standards *services.StandardService, approvals *services.ApprovalService) *StandardController {
	return &StandardController{standards: standards, approvals: approvals}
}

func identity(c *gin.Context) models.Identity {
	id, _ := middleware.CurrentIdentity(c)
	return id
}

// memberIdentity limits the caller to assignments they belong to, whatever
// their role.
func memberIdentity(c *gin.Context) models.Identity {
	return identity(c).AsMember()
}

func bindList(c *gin.Context) (services.ListParams, bool) {
	var p services.ListParams
	if err := c.ShouldBindQuery(&p); err != nil {
		failEnvelope(c, badRequest(err), "Invalid query")
		return p, false
	}
	return p, true
}

func (sc *StandardController) ListStandards(c *gin.Context) {
	p, ok := bindList(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	page, err := sc.standards.List(ctx, p)
	if err != nil {
		failEnvelope(c, err, "Failed to fetch standards")
		return
	}
	envelope(c, http.StatusOK, "Standards fetched successfully", page)
}

func (sc *StandardController) GetStandard(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	std, err := sc.standards.Get(ctx, c.Param("idStandard"))
	if err != nil {
		failEnvelope(c, err, "Failed to fetch standard")
		return
	}
	envelope(c, http.StatusOK, "Standard fetched successfully", std)
}

func (sc *StandardController) CreateStandard(c *gin.Context) {
	var in services.StandardInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failEnvelope(c, badRequest(err), "Invalid standard")
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	std, err := sc.standards.Create(ctx, in)
	if err != nil {
		failEnvelope(c, err, "Failed to create standard")
		return
	}
	envelope(c, http.StatusCreated, "Standard created successfully", std)
}

func (sc *StandardController) UpdateStandard(c *gin.Context) {
	var patch services.StandardPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		failEnvelope(c, badRequest(err), "Invalid standard")
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	std, err := sc.standards.Update(ctx, c.Param("idStandard"), patch)
	if err != nil {
		failEnvelope(c, err, "Failed to update standard")
		return
	}
	envelope(c, http.StatusOK, "Standard updated successfully", std)
}

func (sc *StandardController) DeleteStandard(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := sc.standards.Delete(ctx, c.Param("idStandard")); err != nil {
		failEnvelope(c, err, "Failed to delete standard")
		return
	}
	envelope(c, http.StatusOK, "Standard deleted successfully", nil)
}

func (sc *StandardController) CreateAssignment(c *gin.Context) {
	var in services.AssignmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failEnvelope(c, badRequest(err), "Invalid assignment")
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	a, err := sc.approvals.CreateAssignment(ctx, identity(c), c.Param("idSchedule"), in)
	if err != nil {
		failEnvelope(c, err, "Failed to create assignment")
		return
	}
	envelope(c, http.StatusCreated, "Assignment created successfully", a)
}

func (sc *StandardController) ListAssignments(c *gin.Context) {
	p, ok := bindList(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	page, err := sc.approvals.ListAssignments(ctx, identity(c), c.Param("idSchedule"), p)
	if err != nil {
		failEnvelope(c, err, "Failed to fetch formulations")
		return
	}
	envelope(c, http.StatusOK, "Formulations fetched successfully", page)
}

// scoped picks the caller identity for a route: full role, or member-only.
type scoped func(c *gin.Context) models.Identity

func (sc *StandardController) getAssignment(as scoped) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		a, err := sc.approvals.GetAssignment(ctx, as(c), c.Param("id"))
		if err != nil {
			failEnvelope(c, err, "Failed to fetch formulation")
			return
		}
		envelope(c, http.StatusOK, "Formulation fetched successfully", a)
	}
}

func (sc *StandardController) createFormulation(as scoped) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.FormulationInput
		if err := c.ShouldBindJSON(&in); err != nil {
			failEnvelope(c, badRequest(err), "Invalid formulation")
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		a, err := sc.approvals.CreateFormulation(ctx, as(c), c.Param("id"), in)
		if err != nil {
			failEnvelope(c, err, "Failed to create formulation")
			return
		}
		envelope(c, http.StatusCreated, "Formulation created successfully", a)
	}
}

func (sc *StandardController) updateFormulation(as scoped) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.FormulationInput
		if err := c.ShouldBindJSON(&in); err != nil {
			failEnvelope(c, badRequest(err), "Invalid formulation")
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		a, err := sc.approvals.UpdateFormulation(ctx, as(c), c.Param("id"), in)
		if err != nil {
			failEnvelope(c, err, "Failed to update formulation")
			return
		}
		envelope(c, http.StatusOK, "Formulation updated successfully", a)
	}
}

func (sc *StandardController) submit(as scoped) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		req, err := sc.approvals.Submit(ctx, as(c), c.Param("id"))
		if err != nil {
			failEnvelope(c, err, "Failed to submit formulation")
			return
		}
		envelope(c, http.StatusOK, "Formulation submitted for approval", req)
	}
}

func (sc *StandardController) DeleteAssignment(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := sc.approvals.DeleteAssignment(ctx, identity(c), c.Param("id")); err != nil {
		failEnvelope(c, err, "Failed to delete formulation")
		return
	}
	envelope(c, http.StatusOK, "Formulation deleted successfully", nil)
}

func (sc *StandardController) ListApprovals(c *gin.Context) {
	p, ok := bindList(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	// shares the :id segment with the detail route; here it names a schedule
	page, err := sc.approvals.ListRequests(ctx, identity(c), c.Param("id"), p)
	if err != nil {
		failEnvelope(c, err, "Failed to fetch approval requests")
		return
	}
	envelope(c, http.StatusOK, "Approval requests fetched successfully", page)
}

func (sc *StandardController) Decide(c *gin.Context) {
	var d models.Decision
	if err := c.ShouldBindJSON(&d); err != nil {
		failEnvelope(c, badRequest(err), "Invalid decision")
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	req, err := sc.approvals.Decide(ctx, identity(c), c.Param("id"), d)
	if err != nil {
		failEnvelope(c, err, "Failed to decide approval request")
		return
	}
	envelope(c, http.StatusOK, "Approval request "+req.Status, req)
}

func (sc *StandardController) ApprovalDetail(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	detail, err := sc.approvals.GetApprovalDetail(ctx, identity(c), c.Param("id"))
	if err != nil {
		failEnvelope(c, err, "Failed to fetch approval detail")
		return
	}
	envelope(c, http.StatusOK, "Approval detail fetched successfully", detail)
}

// Register mounts the standards routes. g must already be authenticated.
func (sc *StandardController) Register(g *gin.RouterGroup) {
	admin := middleware.RequireRole()
	reviewer := middleware.RequireRole(models.RoleReviewer)

	g.GET("", sc.ListStandards)
	g.POST("", admin, sc.CreateStandard)
	g.GET("/:idStandard", sc.GetStandard)
	g.PATCH("/:idStandard", admin, sc.UpdateStandard)
	g.DELETE("/:idStandard", admin, sc.DeleteStandard)

	g.POST("/schedules/:idSchedule/assignments", admin, sc.CreateAssignment)

	f := g.Group("/formulation")
	f.GET("/lists/:idSchedule", sc.ListAssignments)
	f.GET("/members/:id", sc.getAssignment(memberIdentity))
	f.POST("/members/:id", sc.createFormulation(memberIdentity))
	f.PATCH("/members/:id", sc.updateFormulation(memberIdentity))
	f.POST("/members/:id/submission", sc.submit(memberIdentity))
	f.GET("/:id", sc.getAssignment(identity))
	f.POST("/:id", sc.createFormulation(identity))
	f.PATCH("/:id", sc.updateFormulation(identity))
	f.DELETE("/:id", admin, sc.DeleteAssignment)
	f.POST("/:id/submission", sc.submit(identity))

	a := g.Group("/approval/formulation")
	a.GET("/:id", reviewer, sc.ListApprovals)
	a.POST("/:id", reviewer, sc.Decide)
	a.GET("/:id/detail", sc.ApprovalDetail)
}
