package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"timerange": timeRange,
}).ParseFS(templateFS, "templates/*.html"))

const (
	tplBookingRequest = "booking_request.html"
	tplAdminNotice    = "admin_notice.html"
	tplApproved       = "booking_approved.html"
	tplRejected       = "booking_rejected.html"
)

type templateData struct {
	Name          string
	Email         string
	EquipmentName string
	StartTime     time.Time
	EndTime       time.Time
	Purpose       string
	Reason        string
	Location      *time.Location
}

func render(name string, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// timeRange prints "2025-03-10 09:00 - 10:00", or the full end date when the
// range crosses midnight.
func timeRange(start, end time.Time, loc *time.Location) string {
	if loc != nil {
		start, end = start.In(loc), end.In(loc)
	}
	endLayout := "15:04"
	if start.YearDay() != end.YearDay() || start.Year() != end.Year() {
		endLayout = "2006-01-02 15:04"
	}
	return start.Format("2006-01-02 15:04") + " - " + end.Format(endLayout)
}
