package llm

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contare/payslip-reconciler/constants"
)

const goodDoc = `{"eventos":[
	{"codigo":"8781","descricao":"SALARIO CONTRATUAL","referencia":"30,00","vencimentos":1518.00,"descontos":null},
	{"codigo":"981","descricao":"ADIANTAMENTO","referencia":null,"vencimentos":null,"descontos":500.00}
]}`

func TestValidateEvents(t *testing.T) {
	assert.NoError(t, ValidateEvents([]byte(goodDoc)))
	assert.Error(t, ValidateEvents([]byte(`{"eventos":[{"codigo":"1"}]}`)))
	assert.Error(t, ValidateEvents([]byte(`{"itens":[]}`)))
}

func TestDecodeEvents(t *testing.T) {
	events, err := DecodeEvents([]byte(goodDoc))
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "8781", events[0].Code)
	assert.Equal(t, constants.Earning, events[0].Kind)
	assert.True(t, events[0].Amount.Equal(decimal.RequireFromString("1518")))
	assert.Equal(t, "30,00", events[0].Reference)

	assert.Equal(t, constants.Deduction, events[1].Kind)
	assert.True(t, events[1].Amount.Equal(decimal.RequireFromString("-500")))
}

func TestSanitizeEventsJSON(t *testing.T) {
	raw := "```json\n" + `{"eventos":[{"codigo":8781,"descricao":"SALARIO","referencia":"","vencimentos":"1.518,00","descontos":""}]}` + "\n```"
	cleaned, touched, err := SanitizeEventsJSON([]byte(raw))
	require.NoError(t, err)
	assert.NotEmpty(t, touched)

	require.NoError(t, ValidateEvents(cleaned))
	events, err := DecodeEvents(cleaned)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "8781", events[0].Code)
	assert.True(t, events[0].Amount.Equal(decimal.RequireFromString("1518")))
}

func TestSanitizeMoneyKeepsDecimalText(t *testing.T) {
	// Wide enough that a float64 detour would round the cents away.
	raw := `{"eventos":[{"codigo":"1","descricao":"AJUSTE","referencia":null,"vencimentos":"12.345.678.901.234.567,89","descontos":null}]}`
	cleaned, touched, err := SanitizeEventsJSON([]byte(raw))
	require.NoError(t, err)
	assert.NotEmpty(t, touched)
	assert.Contains(t, string(cleaned), "12345678901234567.89")

	events, err := DecodeEvents(cleaned)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Amount.Equal(decimal.RequireFromString("12345678901234567.89")))
}

func TestNoopFindsNothing(t *testing.T) {
	events, raw, err := Noop{}.ExtractEvents(context.Background(), ExtractRequest{BlockText: "x"})
	assert.NoError(t, err)
	assert.Nil(t, events)
	assert.Nil(t, raw)
}
