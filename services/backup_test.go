package services

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pedrocostajr/crm-phoenix/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBackupRoundTrip testa exportar e restaurar um snapshot completo,
// campo a campo
func TestBackupRoundTrip(t *testing.T) {
	source := setupTestDB(t)

	lead := models.Lead{
		Name:           "Maria Souza",
		Company:        "Souza Ltda",
		Email:          "maria@souza.com.br",
		Phone:          "(11) 98888-7777",
		Status:         models.StatusGanho,
		EstimatedValue: decimal.NewFromFloat(3200.75),
		Origin:         "Indicação",
		Responsible:    "Pedro Costa",
		Observations:   "Cliente estratégico",
	}
	require.NoError(t, source.Create(&lead).Error)

	interaction := models.Interaction{
		LeadID:      lead.ID,
		Type:        models.InteractionReuniao,
		Date:        "2026-08-20",
		Description: "Reunião de fechamento",
	}
	require.NoError(t, source.Create(&interaction).Error)

	user := models.User{
		Name:     "Pedro Costa",
		Email:    "pedro@leadsign.com.br",
		Role:     "Vendedor",
		Password: "$2a$10$hasharmazenado",
	}
	require.NoError(t, source.Create(&user).Error)

	snapshot, err := BuildBackup(source)
	require.NoError(t, err)
	require.Len(t, snapshot.Leads, 1)
	require.Len(t, snapshot.Users, 1)
	require.Len(t, snapshot.Leads[0].Interactions, 1)
	assert.False(t, snapshot.Timestamp.IsZero())

	// O snapshot carrega os campos que o JSON da API esconde
	assert.Equal(t, "$2a$10$hasharmazenado", snapshot.Users[0].Password)
	assert.False(t, snapshot.Leads[0].Interactions[0].CreatedAt.IsZero())
	assert.Equal(t, lead.ID, snapshot.Leads[0].Interactions[0].LeadID)

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(snapshot))

	// Restaura em uma base vazia
	target := setupTestDB(t)
	require.NoError(t, RestoreBackup(target, &buf))

	var restored models.Lead
	require.NoError(t, target.First(&restored, "id = ?", lead.ID).Error)
	assert.Equal(t, lead.Name, restored.Name)
	assert.Equal(t, lead.Status, restored.Status)
	assert.True(t, lead.EstimatedValue.Equal(restored.EstimatedValue))
	assert.Equal(t, lead.Observations, restored.Observations)

	var restoredInteraction models.Interaction
	require.NoError(t, target.First(&restoredInteraction, "id = ?", interaction.ID).Error)
	assert.Equal(t, lead.ID, restoredInteraction.LeadID)
	assert.Equal(t, models.InteractionReuniao, restoredInteraction.Type)
	assert.WithinDuration(t, interaction.CreatedAt, restoredInteraction.CreatedAt, time.Second,
		"a data de criação da interação sobrevive ao backup")

	var restoredUser models.User
	require.NoError(t, target.First(&restoredUser, "id = ?", user.ID).Error)
	assert.Equal(t, user.Email, restoredUser.Email)
	assert.Equal(t, "$2a$10$hasharmazenado", restoredUser.Password,
		"o hash de senha sobrevive ao backup")
}

// TestRestoreBackup testa o merge e a rejeição de documento malformado
func TestRestoreBackup(t *testing.T) {
	t.Run("Restauração é merge e não remove registros existentes", func(t *testing.T) {
		db := setupTestDB(t)

		existing := models.Lead{ID: "fica-001", Name: "Já Existia"}
		require.NoError(t, db.Create(&existing).Error)

		snapshot := BackupSnapshot{
			Leads: []LeadBackup{{ID: "vem-001", Name: "Vem do Backup", Status: models.StatusNovoLead}},
		}
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(snapshot))

		require.NoError(t, RestoreBackup(db, &buf))

		var count int64
		db.Model(&models.Lead{}).Count(&count)
		assert.Equal(t, int64(2), count)
	})

	t.Run("Upsert sobrescreve o registro com mesmo id", func(t *testing.T) {
		db := setupTestDB(t)

		require.NoError(t, db.Create(&models.Lead{ID: "lead-x", Name: "Antigo"}).Error)

		snapshot := BackupSnapshot{
			Leads: []LeadBackup{{ID: "lead-x", Name: "Atualizado", Status: models.StatusGanho}},
		}
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(snapshot))

		require.NoError(t, RestoreBackup(db, &buf))

		var loaded models.Lead
		require.NoError(t, db.First(&loaded, "id = ?", "lead-x").Error)
		assert.Equal(t, "Atualizado", loaded.Name)
		assert.Equal(t, models.StatusGanho, loaded.Status)
	})

	t.Run("Restaurar sobre a base viva não apaga o hash de senha", func(t *testing.T) {
		db := setupTestDB(t)

		user := models.User{
			Name:     "Com Hash",
			Email:    "hash@leadsign.com.br",
			Password: "$2a$10$hashoriginal",
		}
		require.NoError(t, db.Create(&user).Error)

		snapshot, err := BuildBackup(db)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(snapshot))
		require.NoError(t, RestoreBackup(db, &buf))

		var loaded models.User
		require.NoError(t, db.First(&loaded, "id = ?", user.ID).Error)
		assert.Equal(t, "$2a$10$hashoriginal", loaded.Password)
	})

	t.Run("Documento malformado é recusado sem gravar nada", func(t *testing.T) {
		db := setupTestDB(t)

		err := RestoreBackup(db, strings.NewReader("{isso não é json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "arquivo de backup inválido")

		var count int64
		db.Model(&models.Lead{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})
}
