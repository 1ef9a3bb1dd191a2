package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contare/payslip-reconciler/constants"
	"github.com/contare/payslip-reconciler/internal/entity"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "08772485671", Normalize("087.724.856-71"))
	assert.Equal(t, "08772485671", Normalize("08772485671"))
	assert.Equal(t, "", Normalize("CPF pendente"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "087.724.856-71", Format("08772485671"))
	assert.Equal(t, "087.724.856-71", Format("087.724.856-71"))
	// not 11 digits: unchanged
	assert.Equal(t, "1234", Format("1234"))
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, cpf := range []string{"087.724.856-71", "529.982.247-25", "11144477735"} {
		n := Normalize(cpf)
		assert.Equal(t, n, Normalize(Format(Normalize(cpf))))
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		cpf  string
		want bool
	}{
		{"529.982.247-25", true},
		{"111.444.777-35", true},
		{"529.982.247-26", false}, // wrong second verifier
		{"111.111.111-11", false}, // repeated digits
		{"000.000.000-00", false},
		{"1234567890", false}, // 10 digits
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Valid(tt.cpf), "cpf %q", tt.cpf)
	}
}

func TestResolve(t *testing.T) {
	b := &entity.EmployeeBlock{RawText: "Empr.: 001 Contare\n" +
		"19 ALANA DE OLIVEIRA ROSA 529.982.247-25 411030 1 1\n" +
		"ANALISTA CONTABIL PIS\nDepto: 12\n"}
	Resolve(b)
	require.Equal(t, constants.TaxIDResolved, b.TaxIDStatus)
	assert.Equal(t, "52998224725", b.TaxID)
	assert.Equal(t, "Alana de Oliveira Rosa", b.Name)
	assert.Equal(t, "Analista Contabil", b.Role)
	assert.Equal(t, "12", b.Department)
}

func TestResolveInvalidChecksumIsKept(t *testing.T) {
	b := &entity.EmployeeBlock{RawText: "MARIA SOUZA 529.982.247-26\n"}
	Resolve(b)
	assert.Equal(t, constants.TaxIDInvalid, b.TaxIDStatus)
	assert.Equal(t, "52998224726", b.TaxID)
}

func TestResolveUnresolved(t *testing.T) {
	b := &entity.EmployeeBlock{RawText: "pagina sem identificacao\n"}
	Resolve(b)
	assert.Equal(t, constants.TaxIDUnresolved, b.TaxIDStatus)
	assert.Empty(t, b.TaxID)
}
