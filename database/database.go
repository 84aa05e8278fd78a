package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/pedrocostajr/crm-phoenix/config"
	"github.com/pedrocostajr/crm-phoenix/models"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// CreateDatabaseIfNotExists cria o banco de dados caso ele não exista
func CreateDatabaseIfNotExists() error {
	dbCfg := config.Get().Database

	// Conecta ao PostgreSQL sem apontar para o banco da aplicação
	adminDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=%s",
		dbCfg.Host, dbCfg.Port, dbCfg.User, dbCfg.Password, dbCfg.SSLMode)

	db, err := sql.Open("postgres", adminDSN)
	if err != nil {
		return fmt.Errorf("não foi possível conectar ao PostgreSQL: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("não foi possível verificar a conexão com o PostgreSQL: %w", err)
	}

	var exists bool
	query := "SELECT EXISTS(SELECT datname FROM pg_catalog.pg_database WHERE datname = $1);"
	if err := db.QueryRow(query, dbCfg.Name).Scan(&exists); err != nil {
		return fmt.Errorf("erro ao verificar a existência do banco de dados: %w", err)
	}

	if exists {
		log.Printf("✅ Banco de dados '%s' já existe", dbCfg.Name)
		return nil
	}

	if _, err := db.Exec(fmt.Sprintf("CREATE DATABASE %s;", dbCfg.Name)); err != nil {
		return fmt.Errorf("não foi possível criar o banco de dados '%s': %w", dbCfg.Name, err)
	}

	log.Printf("✅ Banco de dados '%s' criado com sucesso", dbCfg.Name)
	return nil
}

// ConnectDatabase inicializa a conexão com o PostgreSQL
func ConnectDatabase() error {
	dbCfg := config.Get().Database

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host, dbCfg.Port, dbCfg.User, dbCfg.Password, dbCfg.Name, dbCfg.SSLMode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("não foi possível conectar ao banco de dados: %w", err)
	}

	log.Println("✅ Conectado ao PostgreSQL com sucesso")

	if err := autoMigrate(); err != nil {
		return fmt.Errorf("erro na automigração: %w", err)
	}

	if err := SeedAdminUsers(DB); err != nil {
		return fmt.Errorf("erro ao semear administradores: %w", err)
	}

	return nil
}

// GetDB retorna a instância do banco de dados
func GetDB() *gorm.DB {
	return DB
}

// autoMigrate executa a automigração de todos os modelos
func autoMigrate() error {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Lead{},
		&models.Interaction{},
	)
	if err != nil {
		return err
	}

	log.Println("✅ Automigração dos modelos executada com sucesso")
	return nil
}

// SeedAdminUsers cria os administradores de bootstrap na primeira execução,
// quando a tabela de usuários está vazia
func SeedAdminUsers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, admin := range models.BootstrapAdmins {
		if err := db.Create(&admin).Error; err != nil {
			return fmt.Errorf("não foi possível criar o administrador %s: %w", admin.Email, err)
		}
	}

	log.Printf("✅ %d administradores de bootstrap criados", len(models.BootstrapAdmins))
	return nil
}
