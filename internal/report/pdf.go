package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Data is everything a project report is built from.
type Data struct {
	ProjectID        int64
	Title            string
	OrganizationName string
	Description      string
	Priority         string
	CreatedAt        time.Time
	Deadline         time.Time

	TotalTasks      int
	CompletedTasks  int
	InProgressTasks int
	TodoTasks       int
	ProgressPercent float64
}

// Filename returns the attachment filename for the generated PDF.
func (d Data) Filename(now time.Time) string {
	title := d.Title
	if title == "" {
		title = "Untitled"
	}
	return fmt.Sprintf("Project_Report_%s_%s.pdf", title, now.Format("20060102"))
}

// Build renders the report PDF: overview, executive summary with progress
// bar, timeline analysis and insights.
func Build(data Data, now time.Time) ([]byte, error) {
	timeline := ComputeTimeline(data.CreatedAt, data.Deadline, now, data.ProgressPercent)

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Title block
	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 12, "Project Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 139)
	pdf.CellFormat(0, 10, orDefault(data.Title, "Untitled Project"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "I", 11)
	pdf.SetTextColor(47, 79, 79)
	pdf.CellFormat(0, 8, "Generated on "+now.Format("January 2, 2006"), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)
	drawRule(pdf)

	// Project overview
	sectionHeading(pdf, "Project Overview")
	overviewRow(pdf, "Organization:", orDefault(data.OrganizationName, "Not specified"))
	overviewRow(pdf, "Description:", orDefault(data.Description, "No description provided"))
	overviewRow(pdf, "Created On:", formatDate(data.CreatedAt))
	overviewRow(pdf, "Deadline:", formatDate(data.Deadline))
	overviewRow(pdf, "Priority:", orDefault(data.Priority, "Medium"))
	pdf.Ln(8)

	// Executive summary
	sectionHeading(pdf, "Executive Summary")
	summary := fmt.Sprintf("This project has %d defined tasks, of which %d are completed (%.1f%% completion rate). The project is currently %s.",
		data.TotalTasks, data.CompletedTasks, data.ProgressPercent, timeline.Status)
	if timeline.Known {
		if timeline.DaysRemaining > 0 {
			summary += fmt.Sprintf(" There are %d days remaining until the deadline.", timeline.DaysRemaining)
		} else {
			summary += " The project deadline has passed."
		}
	}
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, summary, "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	setStatusColor(pdf, timeline.Status)
	pdf.CellFormat(0, 8, "Project Status: "+timeline.Status, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(2)

	drawProgressBar(pdf, data.ProgressPercent)
	pdf.Ln(6)

	statsRow(pdf, "Completed Tasks:", data.CompletedTasks, data.TotalTasks, false)
	statsRow(pdf, "In Progress Tasks:", data.InProgressTasks, data.TotalTasks, false)
	statsRow(pdf, "Todo Tasks:", data.TodoTasks, data.TotalTasks, false)
	statsRow(pdf, "Total Tasks:", data.TotalTasks, data.TotalTasks, true)
	pdf.Ln(8)
	drawRule(pdf)

	// Timeline analysis
	sectionHeading(pdf, "Timeline Analysis")
	if timeline.Known {
		statsRow(pdf, "Days Elapsed:", timeline.DaysElapsed, timeline.TotalDuration, false)
		statsRow(pdf, "Days Remaining:", timeline.DaysRemaining, timeline.TotalDuration, false)
		statsRow(pdf, "Total Duration:", timeline.TotalDuration, timeline.TotalDuration, true)
		pdf.Ln(4)

		pdf.SetFont("Helvetica", "", 11)
		if timeline.ExpectedProgress > 0 && data.ProgressPercent > 0 {
			pdf.CellFormat(0, 6, fmt.Sprintf("Expected Progress (Time-Based): %.1f%%", timeline.ExpectedProgress), "", 1, "L", false, 0, "")
			pdf.CellFormat(0, 6, fmt.Sprintf("Actual Progress: %.1f%%", data.ProgressPercent), "", 1, "L", false, 0, "")

			if delta, ok := timeline.CompletionDelta(data.ProgressPercent); ok {
				pdf.Ln(2)
				pdf.SetFont("Helvetica", "B", 11)
				if delta > 0 {
					pdf.MultiCell(0, 6, fmt.Sprintf("Estimated Completion: Project may require approximately %d additional days beyond the deadline.", delta), "", "L", false)
				} else {
					pdf.MultiCell(0, 6, fmt.Sprintf("Estimated Completion: Project is on track to complete %d days before the deadline.", -delta), "", "L", false)
				}
			}
		}
	} else {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, "Timeline information is not available. Please set a project deadline.", "", "L", false)
	}
	pdf.Ln(8)
	drawRule(pdf)

	// Insights
	sectionHeading(pdf, "Insights & Recommendations")
	pdf.SetFont("Helvetica", "", 11)
	insights := Insights(data, timeline)
	if len(insights) == 0 {
		pdf.MultiCell(0, 6, "No specific insights available for this project.", "", "L", false)
	}
	for _, insight := range insights {
		pdf.MultiCell(0, 6, "- "+insight, "", "L", false)
		pdf.Ln(1)
	}

	// Footer
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 5, "Report generated on: "+now.Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Report ID: PRJ-%d-%d", data.ProjectID, now.Unix()), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionHeading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 15)
	pdf.SetTextColor(0, 0, 139)
	pdf.CellFormat(0, 10, text, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(1)
}

func overviewRow(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(176, 196, 222)
	pdf.CellFormat(40, 8, label, "1", 0, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	_, y := pdf.GetXY()
	pdf.MultiCell(140, 8, value, "1", "L", false)
	if pdf.GetY() < y+8 {
		pdf.SetY(y + 8)
	}
}

func statsRow(pdf *fpdf.Fpdf, label string, count, total int, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	percent := "0%"
	if total > 0 {
		percent = fmt.Sprintf("%.1f%%", float64(count)/float64(total)*100)
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(176, 196, 222)
	pdf.CellFormat(50, 7, label, "1", 0, "L", true, 0, "")
	pdf.SetFont("Helvetica", style, 10)
	pdf.CellFormat(35, 7, fmt.Sprintf("%d", count), "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 7, percent, "1", 1, "C", false, 0, "")
}

func drawProgressBar(pdf *fpdf.Fpdf, percent float64) {
	const barWidth = 170.0
	const barHeight = 9.0
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	x, y := pdf.GetXY()
	pdf.SetFillColor(211, 211, 211)
	pdf.Rect(x, y, barWidth, barHeight, "F")
	pdf.SetFillColor(0, 128, 0)
	pdf.Rect(x, y, barWidth*percent/100, barHeight, "F")
	pdf.SetDrawColor(0, 0, 0)
	pdf.Rect(x, y, barWidth, barHeight, "D")

	pdf.SetFont("Helvetica", "B", 10)
	if percent > 50 {
		pdf.SetTextColor(255, 255, 255)
	}
	pdf.CellFormat(barWidth, barHeight, fmt.Sprintf("%.1f%% Complete", percent), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func setStatusColor(pdf *fpdf.Fpdf, status string) {
	switch status {
	case StatusBehind, StatusOverdue:
		pdf.SetTextColor(178, 34, 34)
	case StatusAhead, StatusComplete:
		pdf.SetTextColor(0, 100, 0)
	default:
		pdf.SetTextColor(184, 134, 11)
	}
}

func drawRule(pdf *fpdf.Fpdf) {
	x, y := pdf.GetXY()
	pdf.SetDrawColor(160, 160, 160)
	pdf.Line(x, y, x+185, y)
	pdf.SetDrawColor(0, 0, 0)
	pdf.Ln(4)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "Not specified"
	}
	return t.Format("January 2, 2006")
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
