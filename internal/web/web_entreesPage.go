package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-entrees/internal/models"
	"github.com/jinzhu/inflection"
)

// EntreesPageData represents data for the entree listing
type EntreesPageData struct {
	TemplateData
	Entrees []*models.EntreeListing
	Caption string
}

// entreesPage lists every entree with its entree type and vegetarian flag
func (s *WebServer) entreesPage(c *gin.Context) {
	entrees, err := s.DB.GetEntreeListing(c.Request.Context())
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Failed to load entrees", err.Error())
		return
	}

	data := EntreesPageData{
		TemplateData: s.getBaseTemplateData(c, "Entrees"),
		Entrees:      entrees,
		Caption:      countCaption(len(entrees), "entree"),
	}
	s.renderTemplate(c, http.StatusOK, "entrees.html", data)
}

// countCaption returns "1 entree", "2 entrees" and so on
func countCaption(n int, noun string) string {
	if n != 1 {
		noun = inflection.Plural(noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}
