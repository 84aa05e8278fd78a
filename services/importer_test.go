package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/pedrocostajr/crm-phoenix/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB cria uma base de dados de teste em memória
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Uma conexão só: o lote concorrente precisa enxergar o mesmo banco
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.User{}, &models.Lead{}, &models.Interaction{})
	require.NoError(t, err)

	return db
}

// TestParseSpreadsheet testa a leitura de planilhas CSV
func TestParseSpreadsheet(t *testing.T) {
	t.Run("CSV com cabeçalho vira linhas indexadas", func(t *testing.T) {
		csvData := "Nome,Empresa,Status\nMaria,Acme,ganho\nJoão,Beta,perdido\n"

		rows, err := ParseSpreadsheet("leads.csv", strings.NewReader(csvData))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Maria", rows[0]["Nome"])
		assert.Equal(t, "Beta", rows[1]["Empresa"])
	})

	t.Run("Linhas mais curtas que o cabeçalho não quebram a leitura", func(t *testing.T) {
		csvData := "Nome,Empresa,Email\nSó Nome\n"

		rows, err := ParseSpreadsheet("leads.csv", strings.NewReader(csvData))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Só Nome", rows[0]["Nome"])
		assert.Equal(t, "", rows[0]["Empresa"])
	})

	t.Run("Extensão desconhecida é rejeitada", func(t *testing.T) {
		_, err := ParseSpreadsheet("leads.pdf", strings.NewReader("x"))
		assert.Error(t, err)
	})

	t.Run("Formato .xls legado é recusado com instrução de conversão", func(t *testing.T) {
		_, err := ParseSpreadsheet("leads.xls", strings.NewReader("x"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ".xls legado não é suportado")
	})
}

// TestFieldByAlias testa a resolução de cabeçalhos por alias
func TestFieldByAlias(t *testing.T) {
	t.Run("Aliases são comparados sem diferenciar caixa", func(t *testing.T) {
		row := ImportRow{"NOME": "Maria", "email": "maria@acme.com"}

		assert.Equal(t, "Maria", fieldByAlias(row, nameAliases))
		assert.Equal(t, "maria@acme.com", fieldByAlias(row, emailAliases))
	})

	t.Run("Alias de maior prioridade vence quando preenchido", func(t *testing.T) {
		row := ImportRow{"Nome": "Canônico", "Name": "Alternativo"}
		assert.Equal(t, "Canônico", fieldByAlias(row, nameAliases))
	})

	t.Run("Alias vazio cede para o próximo", func(t *testing.T) {
		row := ImportRow{"Nome": "  ", "Name": "Alternativo"}
		assert.Equal(t, "Alternativo", fieldByAlias(row, nameAliases))
	})
}

// TestParseEstimatedValue testa a interpretação de valores monetários
func TestParseEstimatedValue(t *testing.T) {
	cases := map[string]string{
		"R$ 1.234,56": "1234.56",
		"1234.56":     "1234.56",
		"1500":        "1500",
		"2.500,00":    "2500",
		"abc":         "0",
		"":            "0",
		"-100":        "0",
	}

	for raw, expected := range cases {
		want, _ := decimal.NewFromString(expected)
		got := parseEstimatedValue(raw)
		assert.True(t, want.Equal(got), "entrada %q: esperado %s, obtido %s", raw, want, got)
	}
}

// TestReconcileRows testa a conversão de linhas de planilha em leads
func TestReconcileRows(t *testing.T) {
	t.Run("Linha sem nome é descartada e contada, status desconhecido degrada", func(t *testing.T) {
		rows := []ImportRow{
			{"Nome": "A", "Status": "ganho"},
			{"Nome": "B", "Status": "xyz"},
			{"Empresa": "Sem Nome Ltda", "Status": "ganho"},
		}

		leads, skipped := ReconcileRows(rows)

		require.Len(t, leads, 2)
		assert.Equal(t, 1, skipped)
		assert.Equal(t, models.StatusGanho, leads[0].Status)
		assert.Equal(t, models.StatusNovoLead, leads[1].Status)
	})

	t.Run("Cada lead recebe um id novo", func(t *testing.T) {
		rows := []ImportRow{
			{"Nome": "A"},
			{"Nome": "A"},
		}

		leads, _ := ReconcileRows(rows)

		require.Len(t, leads, 2)
		assert.NotEmpty(t, leads[0].ID)
		assert.NotEqual(t, leads[0].ID, leads[1].ID)
	})

	t.Run("Origem vazia vira Import", func(t *testing.T) {
		leads, _ := ReconcileRows([]ImportRow{{"Nome": "A"}})
		require.Len(t, leads, 1)
		assert.Equal(t, "Import", leads[0].Origin)

		leads, _ = ReconcileRows([]ImportRow{{"Nome": "B", "Origem": "Indicação"}})
		require.Len(t, leads, 1)
		assert.Equal(t, "Indicação", leads[0].Origin)
	})
}

// TestImportLeads testa a gravação do lote e a classificação do desfecho
func TestImportLeads(t *testing.T) {
	t.Run("Lote completo é gravado com sucesso", func(t *testing.T) {
		db := setupTestDB(t)
		leads, skipped := ReconcileRows([]ImportRow{
			{"Nome": "A", "Status": "ganho"},
			{"Nome": "B"},
			{"Nome": "C", "Valor": "R$ 1.000,00"},
		})

		result, err := ImportLeads(db, leads, skipped)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Imported)
		assert.Equal(t, 0, result.Failed)
		assert.Equal(t, 0, result.Skipped)

		var count int64
		db.Model(&models.Lead{}).Count(&count)
		assert.Equal(t, int64(3), count)
	})

	t.Run("Nada para importar é erro próprio", func(t *testing.T) {
		db := setupTestDB(t)
		leads, skipped := ReconcileRows([]ImportRow{
			{"Empresa": "Sem Nome 1"},
			{"Empresa": "Sem Nome 2"},
		})

		result, err := ImportLeads(db, leads, skipped)
		assert.True(t, errors.Is(err, ErrNothingToImport))
		assert.Equal(t, 2, result.Skipped)
		assert.Equal(t, 0, result.Imported)
	})

	t.Run("Falha parcial não desfaz as gravações boas", func(t *testing.T) {
		db := setupTestDB(t)

		// Lead pré-existente para forçar conflito de chave primária
		require.NoError(t, db.Create(&models.Lead{ID: "duplicado", Name: "Original"}).Error)

		leads := []models.Lead{
			{ID: "duplicado", Name: "Conflito"},
			{ID: "novo-001", Name: "Novo"},
		}

		result, err := ImportLeads(db, leads, 0)
		require.NoError(t, err, "falha parcial não é erro do lote")
		assert.Equal(t, 1, result.Imported)
		assert.Equal(t, 1, result.Failed)

		var count int64
		db.Model(&models.Lead{}).Count(&count)
		assert.Equal(t, int64(2), count)
	})

	t.Run("Falha total do lote vira erro fatal", func(t *testing.T) {
		db := setupTestDB(t)
		require.NoError(t, db.Migrator().DropTable(&models.Lead{}))

		leads := []models.Lead{
			{ID: "x1", Name: "A"},
			{ID: "x2", Name: "B"},
		}

		result, err := ImportLeads(db, leads, 0)
		assert.True(t, errors.Is(err, ErrImportFailed))
		assert.Equal(t, 0, result.Imported)
		assert.Equal(t, 2, result.Failed)
	})
}
