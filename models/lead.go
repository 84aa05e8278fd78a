package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InteractionType representa o tipo de contato registrado na timeline
type InteractionType string

const (
	InteractionLigacao  InteractionType = "Ligação"
	InteractionEmail    InteractionType = "Email"
	InteractionReuniao  InteractionType = "Reunião"
	InteractionWhatsApp InteractionType = "WhatsApp"
	InteractionOutro    InteractionType = "Outro"
)

// AllInteractionTypes lista os tipos de contato aceitos na timeline
var AllInteractionTypes = []InteractionType{
	InteractionLigacao,
	InteractionEmail,
	InteractionReuniao,
	InteractionWhatsApp,
	InteractionOutro,
}

// IsValidInteractionType verifica se o valor pertence ao conjunto fechado
func IsValidInteractionType(t InteractionType) bool {
	for _, interactionType := range AllInteractionTypes {
		if t == interactionType {
			return true
		}
	}
	return false
}

// Lead representa um cliente em potencial acompanhado pelo pipeline.
// A exclusão é física: o sistema não trabalha com soft-delete.
type Lead struct {
	ID        string    `json:"id" gorm:"primarykey;type:varchar(36)"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	// Dados de contato
	Name    string `json:"name" gorm:"not null;index"`
	Company string `json:"company"`
	Email   string `json:"email" gorm:"index"`
	Phone   string `json:"phone"`

	// Pipeline
	Status         LeadStatus      `json:"status" gorm:"type:varchar(32);not null;default:'Novo Lead';index"`
	EstimatedValue decimal.Decimal `json:"estimatedValue" gorm:"type:decimal(15,2);default:0"`
	Origin         string          `json:"origin"`
	Responsible    string          `json:"responsible"` // nome de exibição do usuário, sem FK
	Observations   string          `json:"observations" gorm:"type:text"`

	// Timeline de contatos, ordem de inserção preservada
	Interactions []Interaction `json:"interactions" gorm:"constraint:OnDelete:CASCADE"`
}

// TableName define o nome da tabela para o modelo Lead
func (Lead) TableName() string {
	return "leads"
}

// BeforeCreate atribui o identificador opaco na criação
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// Interaction representa um contato registrado, pertencente a exatamente um
// lead e com ciclo de vida preso ao dele
type Interaction struct {
	ID        string    `json:"id" gorm:"primarykey;type:varchar(36)"`
	LeadID    string    `json:"-" gorm:"type:varchar(36);not null;index"`
	CreatedAt time.Time `json:"-"`

	Type        InteractionType `json:"type" gorm:"type:varchar(16);not null"`
	Date        string          `json:"date"`
	Description string          `json:"description" gorm:"type:text"`
}

// TableName define o nome da tabela para o modelo Interaction
func (Interaction) TableName() string {
	return "interacoes"
}

// BeforeCreate atribui o identificador opaco na criação
func (i *Interaction) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
