package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/pedrocostajr/crm-phoenix/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ErrNothingToImport indica que nenhuma linha da planilha produziu um lead
var ErrNothingToImport = errors.New("nenhum lead válido encontrado na planilha")

// ErrImportFailed indica falha total do lote: nenhuma gravação teve sucesso
var ErrImportFailed = errors.New("falha ao gravar todos os leads do lote")

// ImportRow é uma linha de planilha indexada pelos cabeçalhos originais
type ImportRow map[string]string

// ImportResult resume o desfecho de um lote de importação
type ImportResult struct {
	Imported int `json:"imported"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
}

// Aliases de cabeçalho aceitos na importação, em ordem de prioridade.
// A comparação ignora caixa e espaços nas bordas.
var (
	nameAliases         = []string{"Nome", "Name", "Lead"}
	companyAliases      = []string{"Empresa", "Company"}
	emailAliases        = []string{"Email", "E-mail"}
	phoneAliases        = []string{"Telefone", "Phone", "Celular"}
	statusAliases       = []string{"Status"}
	valueAliases        = []string{"Valor", "Valor Estimado", "Value", "EstimatedValue"}
	originAliases       = []string{"Origem", "Origin"}
	responsibleAliases  = []string{"Responsável", "Responsavel", "Responsible"}
	observationsAliases = []string{"Observações", "Observacoes", "Obs", "Notes"}
)

// ParseSpreadsheet lê uma planilha (.xlsx via excelize, .csv) e devolve as
// linhas indexadas pelos cabeçalhos da primeira linha. O formato binário
// legado .xls não é legível pelo excelize e é recusado com instrução de
// conversão.
func ParseSpreadsheet(filename string, r io.Reader) ([]ImportRow, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return parseExcel(r)
	case ".xls":
		return nil, fmt.Errorf("o formato .xls legado não é suportado; salve a planilha como .xlsx ou .csv")
	case ".csv":
		return parseCSV(r)
	default:
		return nil, fmt.Errorf("formato de arquivo não suportado: %s", filepath.Ext(filename))
	}
}

func parseExcel(r io.Reader) ([]ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("não foi possível abrir a planilha: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("a planilha não contém abas")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("não foi possível ler a aba %q: %w", sheets[0], err)
	}

	return rowsToImportRows(rows), nil
}

func parseCSV(r io.Reader) ([]ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("não foi possível ler o CSV: %w", err)
	}

	return rowsToImportRows(records), nil
}

func rowsToImportRows(rows [][]string) []ImportRow {
	if len(rows) < 2 {
		return nil
	}

	headers := rows[0]
	imported := make([]ImportRow, 0, len(rows)-1)

	for _, row := range rows[1:] {
		item := make(ImportRow, len(headers))
		for i, header := range headers {
			if i < len(row) {
				item[header] = row[i]
			}
		}
		imported = append(imported, item)
	}

	return imported
}

// fieldByAlias devolve o primeiro valor não vazio entre os aliases de
// cabeçalho, ignorando caixa e espaços
func fieldByAlias(row ImportRow, aliases []string) string {
	for _, alias := range aliases {
		for header, value := range row {
			if strings.EqualFold(strings.TrimSpace(header), alias) && strings.TrimSpace(value) != "" {
				return strings.TrimSpace(value)
			}
		}
	}
	return ""
}

// parseEstimatedValue interpreta valores monetários em formato pt-BR
// ("R$ 1.234,56") ou simples ("1234.56"). Entrada não numérica vira 0.
func parseEstimatedValue(raw string) decimal.Decimal {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "R$")
	cleaned = strings.ReplaceAll(cleaned, " ", "")

	if strings.Contains(cleaned, ",") {
		// Formato brasileiro: ponto separa milhar, vírgula separa decimal
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil || value.IsNegative() {
		return decimal.Zero
	}
	return value
}

// ReconcileRows converte linhas de planilha em leads válidos. Linhas sem um
// campo de nome reconhecível são descartadas silenciosamente e contadas em
// skipped; elas não são tratadas como falha. Cada lead recebe um id novo:
// reimportar a mesma planilha sempre cria registros novos.
func ReconcileRows(rows []ImportRow) (leads []models.Lead, skipped int) {
	for _, row := range rows {
		name := fieldByAlias(row, nameAliases)
		if name == "" {
			skipped++
			continue
		}

		origin := fieldByAlias(row, originAliases)
		if origin == "" {
			origin = "Import"
		}

		leads = append(leads, models.Lead{
			ID:             uuid.New().String(),
			Name:           name,
			Company:        fieldByAlias(row, companyAliases),
			Email:          fieldByAlias(row, emailAliases),
			Phone:          fieldByAlias(row, phoneAliases),
			Status:         models.NormalizeLeadStatus(fieldByAlias(row, statusAliases)),
			EstimatedValue: parseEstimatedValue(fieldByAlias(row, valueAliases)),
			Origin:         origin,
			Responsible:    fieldByAlias(row, responsibleAliases),
			Observations:   fieldByAlias(row, observationsAliases),
			Interactions:   []models.Interaction{},
		})
	}

	return leads, skipped
}

// ImportLeads grava o lote: dispara todas as gravações de uma vez, espera
// todas e classifica o resultado. Falhas parciais não desfazem as gravações
// que tiveram sucesso; não há transação cobrindo o lote.
func ImportLeads(db *gorm.DB, leads []models.Lead, skipped int) (ImportResult, error) {
	result := ImportResult{Skipped: skipped}

	if len(leads) == 0 {
		return result, ErrNothingToImport
	}

	var failed int64
	var wg sync.WaitGroup

	for i := range leads {
		wg.Add(1)
		go func(lead models.Lead) {
			defer wg.Done()
			if err := db.Create(&lead).Error; err != nil {
				atomic.AddInt64(&failed, 1)
			}
		}(leads[i])
	}

	wg.Wait()

	result.Failed = int(failed)
	result.Imported = len(leads) - result.Failed

	// Falha total sugere problema sistêmico (permissão/conectividade) e é
	// escalada como erro fatal do lote, não como ruído por linha
	if result.Imported == 0 {
		return result, ErrImportFailed
	}

	return result, nil
}
