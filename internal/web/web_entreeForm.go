package web

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-entrees/internal/models"
)

// EntreeSubmission is the body of POST /entrees
type EntreeSubmission struct {
	Name         string `form:"name" binding:"required"`
	Description  string `form:"description"`
	Price        string `form:"price" binding:"required"`
	EntreeTypeID int64  `form:"entreeTypeId" binding:"required"`
}

// Entree converts the submission into a validated entree
func (sub *EntreeSubmission) Entree() (*models.Entree, error) {
	return models.NewEntree(sub.Name, sub.Description, sub.Price, sub.EntreeTypeID)
}

// EntreeFormPageData represents data for the new entree form
type EntreeFormPageData struct {
	TemplateData
	EntreeTypes   []*models.EntreeType
	CSRFToken     string
	MaxNameLength int
}

// newEntreePage displays the form to create an entree
func (s *WebServer) newEntreePage(c *gin.Context) {
	entreeTypes, err := s.DB.GetEntreeTypes(c.Request.Context())
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Failed to load entree types", err.Error())
		return
	}

	// The token sets the session cookie, so it must exist before the body is written
	token := s.CSRF.Token(c)

	data := EntreeFormPageData{
		TemplateData:  s.getBaseTemplateData(c, "New entree"),
		EntreeTypes:   entreeTypes,
		CSRFToken:     token,
		MaxNameLength: models.MaxEntreeNameLength,
	}
	s.renderTemplate(c, http.StatusOK, "entree_new.html", data)
}

// csrfFailed answers requests whose form token is missing or invalid
func (s *WebServer) csrfFailed(c *gin.Context) {
	s.renderError(c, http.StatusForbidden, "Invalid form token", "csrf verification failed from "+c.ClientIP())
}

// createEntree processes the new entree form; the csrf guard has already checked the token
func (s *WebServer) createEntree(c *gin.Context) {
	var sub EntreeSubmission
	if err := c.ShouldBind(&sub); err != nil {
		s.renderError(c, http.StatusInternalServerError, "Invalid entree", err.Error())
		return
	}

	entree, err := sub.Entree()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Invalid entree", err.Error())
		return
	}

	if err := s.DB.CreateEntree(c.Request.Context(), entree); err != nil {
		s.renderError(c, http.StatusInternalServerError, "Failed to create entree", err.Error())
		return
	}

	log.Printf("[WEB]: Created entree id=%d name=%q", entree.ID, entree.Name)
	c.Redirect(http.StatusFound, "/")
}
