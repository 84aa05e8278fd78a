package services

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pedrocostajr/crm-phoenix/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// O backup não reaproveita o JSON dos modelos da API: lá a senha e as datas
// internas ficam de fora por segurança, aqui elas precisam sobreviver à
// viagem. Os tipos abaixo carregam todos os campos persistidos.

// InteractionBackup é a forma serializada de uma interação no backup
type InteractionBackup struct {
	ID          string                 `json:"id"`
	LeadID      string                 `json:"leadId"`
	CreatedAt   time.Time              `json:"createdAt"`
	Type        models.InteractionType `json:"type"`
	Date        string                 `json:"date"`
	Description string                 `json:"description"`
}

// LeadBackup é a forma serializada de um lead no backup
type LeadBackup struct {
	ID             string              `json:"id"`
	CreatedAt      time.Time           `json:"createdAt"`
	Name           string              `json:"name"`
	Company        string              `json:"company"`
	Email          string              `json:"email"`
	Phone          string              `json:"phone"`
	Status         models.LeadStatus   `json:"status"`
	EstimatedValue decimal.Decimal     `json:"estimatedValue"`
	Origin         string              `json:"origin"`
	Responsible    string              `json:"responsible"`
	Observations   string              `json:"observations"`
	Interactions   []InteractionBackup `json:"interactions"`
}

// UserBackup é a forma serializada de um usuário no backup, hash de senha
// incluído
type UserBackup struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	Role     string            `json:"role"`
	Phone    string            `json:"phone"`
	Status   models.UserStatus `json:"status"`
	IsAdmin  bool              `json:"isAdmin"`
	Password string            `json:"password,omitempty"`
}

// BackupSnapshot é o documento de backup do conjunto completo de dados
type BackupSnapshot struct {
	Leads     []LeadBackup `json:"leads"`
	Users     []UserBackup `json:"users"`
	Timestamp time.Time    `json:"timestamp"`
}

func leadToBackup(lead models.Lead) LeadBackup {
	interactions := make([]InteractionBackup, len(lead.Interactions))
	for i, interaction := range lead.Interactions {
		interactions[i] = InteractionBackup{
			ID:          interaction.ID,
			LeadID:      interaction.LeadID,
			CreatedAt:   interaction.CreatedAt,
			Type:        interaction.Type,
			Date:        interaction.Date,
			Description: interaction.Description,
		}
	}

	return LeadBackup{
		ID:             lead.ID,
		CreatedAt:      lead.CreatedAt,
		Name:           lead.Name,
		Company:        lead.Company,
		Email:          lead.Email,
		Phone:          lead.Phone,
		Status:         lead.Status,
		EstimatedValue: lead.EstimatedValue,
		Origin:         lead.Origin,
		Responsible:    lead.Responsible,
		Observations:   lead.Observations,
		Interactions:   interactions,
	}
}

// BuildBackup monta o snapshot com todos os leads (interações incluídas) e
// usuários
func BuildBackup(db *gorm.DB) (*BackupSnapshot, error) {
	var leads []models.Lead
	if err := db.Preload("Interactions", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at ASC, id ASC")
	}).Order("created_at DESC").Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("não foi possível carregar os leads: %w", err)
	}

	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("não foi possível carregar os usuários: %w", err)
	}

	snapshot := &BackupSnapshot{
		Leads:     make([]LeadBackup, len(leads)),
		Users:     make([]UserBackup, len(users)),
		Timestamp: time.Now(),
	}

	for i, lead := range leads {
		snapshot.Leads[i] = leadToBackup(lead)
	}

	for i, user := range users {
		snapshot.Users[i] = UserBackup{
			ID:       user.ID,
			Name:     user.Name,
			Email:    user.Email,
			Role:     user.Role,
			Phone:    user.Phone,
			Status:   user.Status,
			IsAdmin:  user.IsAdmin,
			Password: user.Password,
		}
	}

	return snapshot, nil
}

// RestoreBackup lê o documento de backup e grava cada registro por upsert.
// A importação é um merge: registros ausentes no arquivo não são removidos.
// Documento malformado é reportado como falha única, sem recuperação parcial.
func RestoreBackup(db *gorm.DB, r io.Reader) error {
	var snapshot BackupSnapshot
	if err := json.NewDecoder(r).Decode(&snapshot); err != nil {
		return fmt.Errorf("arquivo de backup inválido: %w", err)
	}

	for _, entry := range snapshot.Leads {
		lead := models.Lead{
			ID:             entry.ID,
			CreatedAt:      entry.CreatedAt,
			Name:           entry.Name,
			Company:        entry.Company,
			Email:          entry.Email,
			Phone:          entry.Phone,
			Status:         entry.Status,
			EstimatedValue: entry.EstimatedValue,
			Origin:         entry.Origin,
			Responsible:    entry.Responsible,
			Observations:   entry.Observations,
		}
		if err := db.Save(&lead).Error; err != nil {
			return fmt.Errorf("não foi possível restaurar o lead %s: %w", entry.ID, err)
		}

		for _, item := range entry.Interactions {
			interaction := models.Interaction{
				ID:          item.ID,
				LeadID:      entry.ID,
				CreatedAt:   item.CreatedAt,
				Type:        item.Type,
				Date:        item.Date,
				Description: item.Description,
			}
			if err := db.Save(&interaction).Error; err != nil {
				return fmt.Errorf("não foi possível restaurar a interação %s: %w", item.ID, err)
			}
		}
	}

	for _, entry := range snapshot.Users {
		user := models.User{
			ID:       entry.ID,
			Name:     entry.Name,
			Email:    entry.Email,
			Role:     entry.Role,
			Phone:    entry.Phone,
			Status:   entry.Status,
			IsAdmin:  entry.IsAdmin,
			Password: entry.Password,
		}
		if err := db.Save(&user).Error; err != nil {
			return fmt.Errorf("não foi possível restaurar o usuário %s: %w", entry.ID, err)
		}
	}

	return nil
}
