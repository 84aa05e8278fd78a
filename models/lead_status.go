package models

import "strings"

// LeadStatus representa uma etapa fechada do pipeline de vendas
type LeadStatus string

const (
	StatusNovoLead        LeadStatus = "Novo Lead"
	StatusEmContato       LeadStatus = "Em Contato"
	StatusPropostaEnviada LeadStatus = "Proposta Enviada"
	StatusNegociacao      LeadStatus = "Negociação"
	StatusGanho           LeadStatus = "Ganho"
	StatusPerdido         LeadStatus = "Perdido"
)

// AllLeadStatuses lista todas as etapas válidas do pipeline
var AllLeadStatuses = []LeadStatus{
	StatusNovoLead,
	StatusEmContato,
	StatusPropostaEnviada,
	StatusNegociacao,
	StatusGanho,
	StatusPerdido,
}

// KanbanColumns define as cinco etapas abertas exibidas no quadro kanban.
// "Perdido" continua sendo um status válido, mas não tem coluna.
var KanbanColumns = []LeadStatus{
	StatusNovoLead,
	StatusEmContato,
	StatusPropostaEnviada,
	StatusNegociacao,
	StatusGanho,
}

// statusVariants mapeia as grafias conhecidas de planilhas importadas para o
// status canônico: variantes com underscore/espaço e com/sem acento.
var statusVariants = map[string]LeadStatus{
	"novo lead":         StatusNovoLead,
	"novo_lead":         StatusNovoLead,
	"em contato":        StatusEmContato,
	"em_contato":        StatusEmContato,
	"proposta enviada":  StatusPropostaEnviada,
	"proposta_enviada":  StatusPropostaEnviada,
	"negociação":       StatusNegociacao,
	"negociacao":       StatusNegociacao,
	"ganho":            StatusGanho,
	"perdido":          StatusPerdido,
}

// NormalizeLeadStatus converte uma string arbitrária vinda de planilha para
// um status canônico. É uma função total: entrada não reconhecida degrada
// para "Novo Lead" em vez de abortar a importação.
func NormalizeLeadStatus(raw string) LeadStatus {
	if status, ok := statusVariants[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return status
	}

	// A string original (sem normalização de caixa) ainda pode ser o próprio
	// rótulo canônico
	for _, status := range AllLeadStatuses {
		if raw == string(status) {
			return status
		}
	}

	return StatusNovoLead
}

// IsValidLeadStatus verifica se o valor pertence ao conjunto fechado
func IsValidLeadStatus(s LeadStatus) bool {
	for _, status := range AllLeadStatuses {
		if s == status {
			return true
		}
	}
	return false
}
