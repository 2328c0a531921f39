package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practicelog/internal/models/response_models"
)

func TestRenderCSV(t *testing.T) {
	body, err := RenderCSV(samplePractices()[:2])
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "practices_csv", body)
}

func TestRenderCSVEmptyHasHeader(t *testing.T) {
	body, err := RenderCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "Date,Duration,Focus Areas,Note,Reflection\n", string(body))
}

func TestRenderReport(t *testing.T) {
	body, err := RenderReport("Ava <B>", samplePractices(), thursday)
	require.NoError(t, err)
	html := string(body)

	assert.Contains(t, html, "<title>Practice Report - Ava &lt;B&gt;</title>")
	assert.Contains(t, html, "generated Thu, Apr 10 2025")
	assert.Contains(t, html, "<strong>4</strong>practices")
	assert.Contains(t, html, "<strong>155</strong>minutes")
	assert.Contains(t, html, "<strong>38</strong>avg minutes")
	assert.Contains(t, html, "<td>Hitting, Fielding</td>")
	assert.Contains(t, html, "Worked on, &#34;load&#34;")
	assert.NotContains(t, html, "most recent of")
}

func TestRenderReportTruncates(t *testing.T) {
	var practices []response_models.Practice
	for i := 0; i < ReportRowLimit+5; i++ {
		practices = append(practices, response_models.Practice{
			ID:         fmt.Sprint(i),
			Date:       "2025-04-01",
			Duration:   10,
			FocusAreas: []string{"conditioning"},
		})
	}
	body, err := RenderReport("Ava", practices, thursday)
	require.NoError(t, err)
	html := string(body)

	assert.Equal(t, ReportRowLimit, strings.Count(html, "<td>Conditioning</td>"))
	assert.Contains(t, html, "Showing the 50 most recent of 55 practices.")
	assert.Contains(t, html, "<strong>550</strong>minutes")
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "ava-jones-practices-2025-04-10.csv", fileName(" Ava Jones ", thursday, "csv"))
	assert.Equal(t, "athlete-practices-2025-04-10.html", fileName("", thursday, "html"))
}
