package controller

import (
	"net/http"

	"github.com/Itish41/portfolio-cms/models"
	services "github.com/Itish41/portfolio-cms/service"
	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	svc *services.ProfileService
}

func NewProfileController(svc *services.ProfileService) *ProfileController {
	return &ProfileController{svc: svc}
}

func (pc *ProfileController) Get(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := pc.svc.Get(ctx)
	if err != nil {
		fail(c, err, "Error fetching profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Update accepts JSON or a multipart form with an optional avatar and the
// social links JSON-encoded in "social".
func (pc *ProfileController) Update(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := pc.svc.Update(ctx, func(p *models.Profile) error {
		if err := c.ShouldBind(p); err != nil {
			return badRequest(err)
		}
		return attachUpload(c, pc.svc.Media(), "avatar", "profile", func(url, _ string) { p.Avatar = url })
	})
	if err != nil {
		fail(c, err, "Error updating profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "profile": profile})
}
