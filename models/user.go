package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserStatus indica se o usuário pode acessar o sistema
type UserStatus string

const (
	UserAtivo   UserStatus = "Ativo"
	UserInativo UserStatus = "Inativo"
)

// User representa um membro da equipe e principal de autenticação
type User struct {
	ID        string    `json:"id" gorm:"primarykey;type:varchar(36)"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Name   string     `json:"name" gorm:"not null"`
	Email  string     `json:"email" gorm:"uniqueIndex;not null"`
	Role   string     `json:"role"`
	Phone  string     `json:"phone"`
	Status UserStatus `json:"status" gorm:"type:varchar(16);default:'Ativo'"`

	// Administradores vêm da lista de bootstrap e nunca são removíveis pela API
	IsAdmin bool `json:"isAdmin" gorm:"default:false"`

	// Hash bcrypt; a senha nunca é retornada em JSON
	Password string `json:"-"`
}

// TableName define o nome da tabela para o modelo User
func (User) TableName() string {
	return "usuarios"
}

// BeforeCreate atribui o identificador opaco na criação
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// BootstrapAdmins é a lista fixa de administradores criados na primeira
// execução, quando a tabela de usuários está vazia
var BootstrapAdmins = []User{
	{
		ID:      "admin1",
		Name:    "Administrador Leadsign",
		Email:   "contato@leadsign.com.br",
		Role:    "CEO",
		Status:  UserAtivo,
		IsAdmin: true,
	},
	{
		ID:      "admin2",
		Name:    "Moisés Rodrigues",
		Email:   "contatomoisesrodrigues@gmail.com",
		Role:    "Manager",
		Status:  UserAtivo,
		IsAdmin: true,
	},
}

// IsBootstrapAdminEmail verifica se o e-mail pertence a um administrador de
// bootstrap (comparação sem distinção de caixa)
func IsBootstrapAdminEmail(email string) bool {
	for _, admin := range BootstrapAdmins {
		if strings.EqualFold(admin.Email, email) {
			return true
		}
	}
	return false
}
