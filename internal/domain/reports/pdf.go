package reports

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// RenderEmployeeReportPDF produces a downloadable one-page summary of an
// employee's evaluation history and period averages.
func RenderEmployeeReportPDF(report EmployeeReport, periods []PeriodScore) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Performance Report")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", report.EmployeeName))
	pdf.Ln(7)
	if report.JobTitle != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Job title: %s", report.JobTitle))
		pdf.Ln(7)
	}
	if report.Department != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Department: %s", report.Department))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Evaluations on record: %d", report.TotalEvaluations))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Average score by period")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 12)
	for _, bucket := range periods {
		pdf.Cell(0, 7, fmt.Sprintf("%-10s %.2f", bucket.Period, bucket.AvgScore))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Submitted totals")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Peer evaluations: %s", formatScores(report.PeerScores)))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Self assessments: %s", formatScores(report.SelfScores)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatScores(scores []float64) string {
	if len(scores) == 0 {
		return "none"
	}
	out := ""
	for i, score := range scores {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%.2f", score)
	}
	return out
}
