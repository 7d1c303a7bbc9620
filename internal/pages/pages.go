// Package pages serves the static informational content of the dashboard:
// home, methodology and authors. The front-end renders it as-is.
package pages

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ici_dashboard/internal/httputil"
	"ici_dashboard/models"
)

// Section is one block of an informational page.
type Section struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Dimension describes one component index for the home page table.
type Dimension struct {
	Index       models.Index `json:"index"`
	Label       string       `json:"label"`
	Color       string       `json:"color"`
	Description string       `json:"description"`
}

// Page is a complete informational page.
type Page struct {
	Name       string      `json:"name"`
	Title      string      `json:"title"`
	Sections   []Section   `json:"sections"`
	Dimensions []Dimension `json:"dimensions,omitempty"`
}

var dimensions = []Dimension{
	{models.IndexSocioCultural, models.IndexSocioCultural.Label(), models.IndexSocioCultural.Color(),
		"Social cohesion, education, cultural factors"},
	{models.IndexMarketsBusiness, models.IndexMarketsBusiness.Label(), models.IndexMarketsBusiness.Color(),
		"Market efficiency, business environment"},
	{models.IndexEntrepreneurship, models.IndexEntrepreneurship.Label(), models.IndexEntrepreneurship.Color(),
		"Innovation capacity, startup ecosystem"},
	{models.IndexGovEfficiency, models.IndexGovEfficiency.Label(), models.IndexGovEfficiency.Color(),
		"Public sector effectiveness, regulatory quality"},
	{models.IndexLegalEnvironment, models.IndexLegalEnvironment.Label(), models.IndexLegalEnvironment.Color(),
		"Legal framework, property rights, judicial system"},
}

var catalog = map[string]Page{
	"home": {
		Name:  "home",
		Title: "Institutional Complexity Index Dashboard",
		Sections: []Section{
			{
				Title: "What is this Dashboard?",
				Body: "The Institutional Complexity Index (ICI) is a composite measure that evaluates " +
					"the quality and efficiency of institutional frameworks across countries. Explore " +
					"institutional quality metrics for 100+ countries, compare countries side-by-side, " +
					"analyze trends over time and download data for your own research.",
			},
		},
		Dimensions: dimensions,
	},
	"methodology": {
		Name:  "methodology",
		Title: "Methodology",
		Sections: []Section{
			{
				Title: "Index Construction",
				Body: "All index values range from 0 to 100, where higher values indicate better " +
					"institutional quality. The total index is calculated as the average of the five " +
					"component indices. Index values are computed by an external pipeline and loaded " +
					"into the dashboard as-is.",
			},
			{
				Title: "Rankings",
				Body: "Country rankings are recomputed per year from the published values using " +
					"competition ranking: countries with equal values share the best rank of the " +
					"tied group.",
			},
		},
	},
	"authors": {
		Name:  "authors",
		Title: "Authors",
		Sections: []Section{
			{
				Title: "Research Team",
				Body: "The Institutional Complexity Index is developed and maintained by the research " +
					"team of the Center for International Economics. For questions and collaboration " +
					"opportunities, use the contact form.",
			},
		},
	},
}

// Get serves one informational page by name.
func Get(c *gin.Context) {
	page, ok := catalog[c.Param("name")]
	if !ok {
		httputil.RespondError(c, http.StatusNotFound, "unknown page")
		return
	}
	c.JSON(http.StatusOK, page)
}

// SetupRoutes registers the informational page endpoint.
func SetupRoutes(r *gin.RouterGroup) {
	r.GET("/pages/:name", Get)
}
