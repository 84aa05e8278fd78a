package services

import (
	"github.com/pedrocostajr/crm-phoenix/models"

	"github.com/shopspring/decimal"
)

// StatusCount representa a contagem de leads de um status presente na coleção
type StatusCount struct {
	Name  models.LeadStatus `json:"name"`
	Value int               `json:"value"`
}

// PipelineStats são os agregados do dashboard, derivados da coleção de leads
type PipelineStats struct {
	TotalLeads     int             `json:"totalLeads"`
	WonLeadsCount  int             `json:"wonLeadsCount"`
	TotalValue     decimal.Decimal `json:"totalValue"`
	ConversionRate float64         `json:"conversionRate"`
	StatusData     []StatusCount   `json:"statusData"`
}

// KanbanColumn agrupa os leads de uma etapa aberta do pipeline
type KanbanColumn struct {
	Status models.LeadStatus `json:"status"`
	Leads  []models.Lead     `json:"leads"`
	Count  int               `json:"count"`
	Value  decimal.Decimal   `json:"value"`
}

// ComputePipelineStats calcula as estatísticas do pipeline a partir da
// coleção atual de leads. Função pura, recalculada a cada chamada: nenhum
// agregado é armazenado entre mutações.
func ComputePipelineStats(leads []models.Lead) PipelineStats {
	stats := PipelineStats{
		TotalValue: decimal.Zero,
		StatusData: []StatusCount{},
	}

	stats.TotalLeads = len(leads)

	// StatusData só contém os status presentes na coleção, na ordem da
	// primeira ocorrência; etapas vazias não aparecem nos gráficos
	counts := make(map[models.LeadStatus]int)
	var order []models.LeadStatus

	for _, lead := range leads {
		if _, seen := counts[lead.Status]; !seen {
			order = append(order, lead.Status)
		}
		counts[lead.Status]++

		if lead.Status == models.StatusGanho {
			stats.WonLeadsCount++
			stats.TotalValue = stats.TotalValue.Add(lead.EstimatedValue)
		}
	}

	for _, status := range order {
		stats.StatusData = append(stats.StatusData, StatusCount{Name: status, Value: counts[status]})
	}

	// Proteção contra divisão por zero: coleção vazia converte em 0
	if stats.TotalLeads > 0 {
		stats.ConversionRate = float64(stats.WonLeadsCount) / float64(stats.TotalLeads) * 100
	}

	return stats
}

// BuildKanban agrupa os leads nas cinco colunas abertas do quadro, com a
// soma de valor estimado por coluna. "Perdido" fica fora do quadro. Colunas
// vazias são mantidas: o quadro sempre mostra as cinco etapas.
func BuildKanban(leads []models.Lead) []KanbanColumn {
	columns := make([]KanbanColumn, 0, len(models.KanbanColumns))

	for _, status := range models.KanbanColumns {
		column := KanbanColumn{
			Status: status,
			Leads:  []models.Lead{},
			Value:  decimal.Zero,
		}
		for _, lead := range leads {
			if lead.Status == status {
				column.Leads = append(column.Leads, lead)
				column.Value = column.Value.Add(lead.EstimatedValue)
			}
		}
		column.Count = len(column.Leads)
		columns = append(columns, column)
	}

	return columns
}
