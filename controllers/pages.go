// controllers/pages.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shiatsu-backend/utils"
)

// Page is a static marketing page served as a JSON document.
type Page struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

var pages = []Page{
	{Slug: "home", Title: "Home", Content: "Professional shiatsu massage in a calm, welcoming practice. Book a session online or browse our gift vouchers."},
	{Slug: "shiatsu-massage", Title: "Shiatsu Massage", Content: "Shiatsu is a Japanese bodywork therapy using comfortable pressure along the body's meridians to ease tension and restore balance."},
	{Slug: "location", Title: "Location", Content: "The practice is easy to reach by public transport, with parking nearby. Directions are sent with your booking confirmation."},
	{Slug: "fees", Title: "Fees", Content: "Sessions from £35 for 30 minutes. Gift vouchers available. See the catalog for the full price list."},
	{Slug: "history", Title: "History of Shiatsu", Content: "Shiatsu developed in early twentieth-century Japan from traditional anma massage and was recognised as an independent therapy in 1964."},
	{Slug: "practitioner", Title: "Your Practitioner", Content: "A fully insured practitioner and member of the Shiatsu Society with over a decade of clinical experience."},
	{Slug: "links", Title: "Links", Content: "The Shiatsu Society: https://www.shiatsusociety.org"},
}

// GetPages lists the marketing pages
func GetPages(c *gin.Context) {
	c.JSON(http.StatusOK, pages)
}

// GetPage returns one marketing page by slug
func GetPage(c *gin.Context) {
	slug := c.Param("slug")
	for i := range pages {
		if pages[i].Slug == slug {
			c.JSON(http.StatusOK, pages[i])
			return
		}
	}
	utils.RespondWithError(c, http.StatusNotFound, "Page not found")
}
