package controller

import (
	"context"
	"net/http"

	"github.com/Itish41/portfolio-cms/models"
	services "github.com/Itish41/portfolio-cms/service"
	"github.com/gin-gonic/gin"
)

// ContactSender delivers contact form messages.
type ContactSender interface {
	SendContact(ctx context.Context, msg services.ContactMessage) error
}

// SiteController serves the read-mostly public endpoints: contact form,
// blog search and the combined resume.
type SiteController struct {
	mail   ContactSender
	search *services.SearchService
	resume *services.ResumeService
}

func NewSiteController(mail ContactSender, search *services.SearchService, resume *services.ResumeService) *SiteController {
	return &SiteController{mail: mail, search: search, resume: resume}
}

func (sc *SiteController) Contact(c *gin.Context) {
	var msg services.ContactMessage
	if err := c.ShouldBind(&msg); err != nil {
		failEnvelope(c, badRequest(err), "Invalid contact message")
		return
	}
	if err := msg.Validate(); err != nil {
		failEnvelope(c, err, "Invalid contact message")
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := sc.mail.SendContact(ctx, msg); err != nil {
		failEnvelope(c, err, "Failed to send message. Please try again later.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message sent successfully!"})
}

// SearchBlogs searches published posts.
func (sc *SiteController) SearchBlogs(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Query parameter 'q' is required"})
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	blogs, err := sc.search.Search(ctx, q, true)
	if err != nil {
		fail(c, err, "Error searching blogs")
		return
	}
	if blogs == nil {
		blogs = []models.Blog{}
	}
	c.JSON(http.StatusOK, blogs)
}

func (sc *SiteController) Resume(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	resume, err := sc.resume.Get(ctx)
	if err != nil {
		fail(c, err, "Error fetching resume")
		return
	}
	c.JSON(http.StatusOK, resume)
}
