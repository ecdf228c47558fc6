// Package export renders research reports into shareable formats.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/prsolans/agreement-mapper/internal/model"
)

// Workbook renders a report as an XLSX workbook with Summary, Priorities,
// Opportunities, and Matrix sheets.
func Workbook(report *model.Report) ([]byte, error) {
	if report == nil {
		return nil, eris.New("export: nil report")
	}

	f := xlsx.NewFile()

	if err := addSummarySheet(f, report); err != nil {
		return nil, err
	}
	if err := addPrioritiesSheet(f, report); err != nil {
		return nil, err
	}
	if err := addOpportunitiesSheet(f, report); err != nil {
		return nil, err
	}
	if err := addMatrixSheet(f, report); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "export: write workbook")
	}
	return buf.Bytes(), nil
}

func addSummarySheet(f *xlsx.File, report *model.Report) error {
	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}

	ps := report.PortfolioSummary
	rows := [][]string{
		{"Company", report.Meta.CompanyName},
		{"Industry", report.CompanyProfile.Industry},
		{"Annual Revenue", report.CompanyProfile.Scale.AnnualRevenue},
		{"Analysis Date", report.Meta.AnalysisDate},
		{"Research Status", report.Meta.ResearchStatus},
		{},
		{"Total Opportunities", fmt.Sprintf("%d", ps.TotalOpportunities)},
		{"Total Annual Value", ps.TotalAnnualValue},
		{"Total Implementation Cost", ps.TotalImplementationCost},
		{"Portfolio ROI", ps.PortfolioROI},
		{"Portfolio Payback", ps.PortfolioPayback},
	}
	if report.ExecutiveSummary != nil {
		rows = append(rows, []string{}, []string{"Executive Summary", report.ExecutiveSummary.Overview})
		for _, finding := range report.ExecutiveSummary.KeyFindings {
			rows = append(rows, []string{"Key Finding", finding})
		}
	}

	writeRows(sheet, rows)
	return nil
}

func addPrioritiesSheet(f *xlsx.File, report *model.Report) error {
	sheet, err := f.AddSheet("Priorities")
	if err != nil {
		return eris.Wrap(err, "export: add priorities sheet")
	}

	rows := [][]string{{"Priority", "Description", "Urgency", "Executive Owner", "Verified Quotes", "Mapped Capability"}}

	mappingByID := make(map[string]model.PriorityMapping, len(report.PriorityMappings))
	for _, m := range report.PriorityMappings {
		mappingByID[m.PriorityID] = m
	}

	for _, pr := range report.StrategicPriorities {
		verified := 0
		for _, q := range pr.ExecutiveQuotes {
			if q.Verified {
				verified++
			}
		}
		rows = append(rows, []string{
			pr.PriorityName,
			pr.PriorityDescription,
			pr.Urgency,
			pr.ExecutiveOwner,
			fmt.Sprintf("%d/%d", verified, len(pr.ExecutiveQuotes)),
			mappingByID[pr.PriorityID].CapabilityName,
		})
	}

	writeRows(sheet, rows)
	return nil
}

func addOpportunitiesSheet(f *xlsx.File, report *model.Report) error {
	sheet, err := f.AddSheet("Opportunities")
	if err != nil {
		return eris.Wrap(err, "export: add opportunities sheet")
	}

	rows := [][]string{{
		"ID", "Title", "Function", "Priority", "Annual Value",
		"Implementation Cost", "ROI", "Payback", "Recommended Products",
	}}
	for _, opp := range report.OptimizationOpportunities {
		products := make([]string, 0, len(opp.RecommendedProducts))
		for _, rec := range opp.RecommendedProducts {
			products = append(products, rec.ProductName)
		}
		rows = append(rows, []string{
			opp.OpportunityID,
			opp.Title,
			opp.BusinessFunction,
			opp.Implementation.Priority,
			opp.ValueQuantification.TotalAnnualValue,
			opp.ValueQuantification.ImplementationCost,
			opp.ValueQuantification.ROIPercentage,
			opp.ValueQuantification.PaybackPeriod,
			strings.Join(products, ", "),
		})
	}

	writeRows(sheet, rows)
	return nil
}

func addMatrixSheet(f *xlsx.File, report *model.Report) error {
	sheet, err := f.AddSheet("Matrix")
	if err != nil {
		return eris.Wrap(err, "export: add matrix sheet")
	}

	rows := [][]string{{"Agreement Type", "Volume (1-10)", "Complexity (1-10)", "Classification", "Owner", "Annual Volume"}}
	for _, entry := range report.AgreementMatrix.AgreementTypes {
		rows = append(rows, []string{
			entry.Type,
			fmt.Sprintf("%d", entry.Volume),
			fmt.Sprintf("%d", entry.Complexity),
			entry.Classification,
			entry.BusinessUnit,
			entry.EstimatedAnnualVolume,
		})
	}

	writeRows(sheet, rows)
	return nil
}

func writeRows(sheet *xlsx.Sheet, rows [][]string) {
	for _, cells := range rows {
		row := sheet.AddRow()
		for _, value := range cells {
			row.AddCell().SetString(value)
		}
	}
}
