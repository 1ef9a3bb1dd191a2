package openai

import (
	"fmt"

	"github.com/contare/payslip-reconciler/internal/llm"
)

const systemPrompt = "Você extrai eventos (verbas) de um recibo de pagamento brasileiro. " +
	"Não invente valores; se não tiver certeza, omita o evento. " +
	"Responda SOMENTE com JSON."

func buildUserPrompt(req llm.ExtractRequest) string {
	hint := ""
	if req.Period != "" {
		hint = fmt.Sprintf("Competência do documento: %s.\n", req.Period)
	}
	return hint +
		"Do texto a seguir, extraia a lista de eventos com as chaves:\n" +
		"codigo (string), descricao (string), referencia (string|null), " +
		"vencimentos (number|null), descontos (number|null).\n" +
		"Converta moeda PT-BR: 1.518,00 -> 1518.00. " +
		"Preencha apenas uma das colunas por evento (a outra null).\n" +
		"Retorne SOMENTE JSON no formato {\"eventos\":[...]}.\n\n" +
		"TEXTO:\n" + req.BlockText +
		"\n\nReturn ONLY JSON that matches the provided schema."
}
