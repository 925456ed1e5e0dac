// Package placeholder maps chart types to the static assets served in
// place of rendered charts. Nothing here is computed per record.
package placeholder

import "github.com/rube11/Mo-Data-builder-project/internal/model"

// Static asset paths for each chart type.
const (
	BarChart  = "/bargraph.jpeg"
	LineChart = "/linegraph.jpg"
	PieChart  = "/piechart.jpeg"

	// ReportDocument is the fixed downloadable "generated report".
	ReportDocument = "/Generatedreport.pdf"
)

var chartPlaceholders = map[model.ChartType]string{
	model.ChartBar:  BarChart,
	model.ChartLine: LineChart,
	model.ChartPie:  PieChart,
}

// Resolve returns the placeholder image for a chart type. Unknown values
// fall back to the bar chart placeholder so the mapping is total; callers
// validate the enum before persisting, so the fallback only ever shows for
// dirty legacy rows.
func Resolve(chartType model.ChartType) string {
	if path, ok := chartPlaceholders[chartType]; ok {
		return path
	}
	return BarChart
}

// Charts returns a copy of the full chart-type placeholder map.
func Charts() map[model.ChartType]string {
	m := make(map[model.ChartType]string, len(chartPlaceholders))
	for k, v := range chartPlaceholders {
		m[k] = v
	}
	return m
}
