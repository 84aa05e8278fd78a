package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pedrocostajr/crm-phoenix/models"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Cabeçalhos fixos do contrato de exportação de leads
var exportHeaders = []string{
	"ID", "Nome", "Empresa", "Email", "Telefone", "Status",
	"Valor", "Origem", "Responsável", "Observações", "Data Criação",
}

// LeadReport representa os dados tabulares da exportação
type LeadReport struct {
	Headers []string            `json:"headers"`
	Rows    []map[string]string `json:"rows"`
}

// BuildLeadReport monta a tabela de exportação, uma linha por lead, com o
// status renderizado pelo rótulo canônico
func BuildLeadReport(leads []models.Lead) *LeadReport {
	rows := make([]map[string]string, len(leads))

	for i, lead := range leads {
		rows[i] = map[string]string{
			"ID":           lead.ID,
			"Nome":         lead.Name,
			"Empresa":      lead.Company,
			"Email":        lead.Email,
			"Telefone":     lead.Phone,
			"Status":       string(lead.Status),
			"Valor":        lead.EstimatedValue.StringFixed(2),
			"Origem":       lead.Origin,
			"Responsável":  lead.Responsible,
			"Observações":  lead.Observations,
			"Data Criação": lead.CreatedAt.Format("02/01/2006 15:04"),
		}
	}

	return &LeadReport{Headers: exportHeaders, Rows: rows}
}

// WriteReport serializa o relatório no formato pedido
func WriteReport(report *LeadReport, format string, w io.Writer) error {
	switch format {
	case "csv":
		return writeCSVReport(report, w)
	case "xlsx":
		return writeExcelReport(report, w)
	case "pdf":
		return writePDFReport(report, w)
	case "json":
		return writeJSONReport(report, w)
	default:
		return fmt.Errorf("formato não suportado: %s", format)
	}
}

// writeCSVReport gera o relatório em CSV
func writeCSVReport(report *LeadReport, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(report.Headers); err != nil {
		return err
	}

	for _, row := range report.Rows {
		record := make([]string, len(report.Headers))
		for i, header := range report.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}

// writeExcelReport gera o relatório em XLSX
func writeExcelReport(report *LeadReport, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Leads"
	f.SetSheetName("Sheet1", sheetName)

	for i, header := range report.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIdx, row := range report.Rows {
		for colIdx, header := range report.Headers {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, row[header])
		}
	}

	endCell, _ := excelize.CoordinatesToCellName(len(report.Headers), len(report.Rows)+1)
	f.AutoFilter(sheetName, "A1:"+endCell, []excelize.AutoFilterOptions{})

	return f.Write(w)
}

// writePDFReport gera o relatório em PDF (versão tabular simplificada)
func writePDFReport(report *LeadReport, w io.Writer) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)

	pdf.Cell(40, 10, tr("Relatório de Leads"))
	pdf.Ln(15)

	pdf.SetFont("Arial", "B", 7)
	for _, header := range report.Headers {
		pdf.Cell(25, 8, tr(header))
	}
	pdf.Ln(8)

	// Limita a quantidade de linhas no PDF
	pdf.SetFont("Arial", "", 7)
	maxRows := 200
	for i, row := range report.Rows {
		if i >= maxRows {
			pdf.Cell(25, 8, tr(fmt.Sprintf("... e mais %d registros", len(report.Rows)-maxRows)))
			break
		}
		for _, header := range report.Headers {
			pdf.Cell(25, 8, tr(fmt.Sprintf("%.18s", row[header])))
		}
		pdf.Ln(6)
	}

	return pdf.Output(w)
}

// writeJSONReport gera o relatório em JSON
func writeJSONReport(report *LeadReport, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(map[string]interface{}{
		"headers":      report.Headers,
		"data":         report.Rows,
		"generated_at": time.Now(),
	})
}
