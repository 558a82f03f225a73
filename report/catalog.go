package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ptLabels = map[string]string{
	"Balance":                "Banca",
	"Balance at month start": "Banca no início do mês",
	"Month P&L":              "Resultado do mês",
	"Month variation":        "Variação no mês",
	"Hit rate":               "Taxa de acerto",
	"Operations this month":  "Operações no mês",
	"Average amount":         "Valor médio",
	"Current streak":         "Sequência atual",
	"Best win streak":        "Maior sequência de WIN",
	"Last operation":         "Última operação",
	"Strategy":               "Estratégia",
	"Operations":             "Operações",
	"Net P&L":                "Resultado",
}

func init() {
	for key, msg := range ptLabels {
		_ = message.SetString(language.BrazilianPortuguese, key, msg)
		_ = message.SetString(language.Portuguese, key, msg)
	}
}
