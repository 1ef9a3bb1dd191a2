// Package identity extracts and validates the employee identity carried
// inside a payslip block: the CPF (11-digit national tax ID) and, best
// effort, the employee's name, role and department.
package identity

import (
	"regexp"
	"strings"

	"github.com/contare/payslip-reconciler/constants"
	"github.com/contare/payslip-reconciler/internal/entity"
)

var (
	// Punctuated form first; a bare 11-digit run is accepted only when it is
	// labelled, so PIS numbers and registration codes don't shadow the CPF.
	cpfPunctRe  = regexp.MustCompile(`\b(\d{3}\.\d{3}\.\d{3}-\d{2})\b`)
	cpfLabelRe  = regexp.MustCompile(`(?i)\bCPF\s*[:\-]?\s*(\d{3}\.?\d{3}\.?\d{3}-?\d{2})\b`)
	nonDigitRe  = regexp.MustCompile(`\D`)
	spacesRe    = regexp.MustCompile(`\s+`)
	numericRe   = regexp.MustCompile(`^\d+$`)
	roleLineRe  = regexp.MustCompile(`(?m)^\s*([A-ZÁÉÍÓÚÂÊÔÃÕÇ][A-ZÁÉÍÓÚÂÊÔÃÕÇ\s]{6,})\s+PIS\b`)
	deptLabelRe = regexp.MustCompile(`(?i)\bDepto\.?\s*[:\-]?\s*(\d+)`)
)

// Normalize strips everything but digits from a CPF candidate.
func Normalize(cpf string) string {
	return nonDigitRe.ReplaceAllString(cpf, "")
}

// Format renders a normalized CPF in the punctuated 000.000.000-00 form.
// Inputs that are not 11 digits come back unchanged.
func Format(cpf string) string {
	d := Normalize(cpf)
	if len(d) != 11 {
		return cpf
	}
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
}

// Valid reports whether the normalized CPF passes the national checksum.
// Repeated-digit sequences (000..., 111...) are formally well-shaped but
// always rejected.
func Valid(cpf string) bool {
	d := Normalize(cpf)
	if len(d) != 11 {
		return false
	}
	same := true
	for i := 1; i < 11; i++ {
		if d[i] != d[0] {
			same = false
			break
		}
	}
	if same {
		return false
	}
	return checkDigit(d, 9) == int(d[9]-'0') && checkDigit(d, 10) == int(d[10]-'0')
}

// checkDigit computes the verifier at position pos (9 or 10) over d[:pos]
// with weights pos+1 down to 2.
func checkDigit(d string, pos int) int {
	sum := 0
	for i := 0; i < pos; i++ {
		sum += int(d[i]-'0') * (pos + 1 - i)
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

// Resolve fills the identity fields of a block from its raw text. A CPF that
// fails the checksum is kept and marked INVALID so the employee still shows
// up in the verification dataset; only a missing candidate yields UNRESOLVED.
func Resolve(block *entity.EmployeeBlock) {
	raw := block.RawText

	cand := ""
	if m := cpfPunctRe.FindStringSubmatch(raw); m != nil {
		cand = m[1]
	} else if m := cpfLabelRe.FindStringSubmatch(raw); m != nil {
		cand = m[1]
	}
	if cand == "" {
		block.TaxIDStatus = constants.TaxIDUnresolved
		return
	}

	block.TaxID = Normalize(cand)
	if Valid(block.TaxID) {
		block.TaxIDStatus = constants.TaxIDResolved
	} else {
		block.TaxIDStatus = constants.TaxIDInvalid
	}

	block.Name = nameOnCPFLine(raw, cand)
	if m := roleLineRe.FindStringSubmatch(raw); m != nil {
		block.Role = titleCase(spacesRe.ReplaceAllString(m[1], " "))
	}
	if m := deptLabelRe.FindStringSubmatch(raw); m != nil {
		block.Department = m[1]
	}
}

// nameOnCPFLine reads the tokens preceding the CPF on its own line. Leading
// numeric tokens are registration codes, not name parts.
func nameOnCPFLine(raw, cpf string) string {
	for _, ln := range strings.Split(raw, "\n") {
		if !strings.Contains(ln, cpf) {
			continue
		}
		line := strings.TrimSpace(spacesRe.ReplaceAllString(ln, " "))
		parts := strings.Split(line, " ")
		i := -1
		for j, p := range parts {
			if p == cpf {
				i = j
				break
			}
		}
		if i < 0 {
			return ""
		}
		before := parts[:i]
		for len(before) > 0 && numericRe.MatchString(before[0]) {
			before = before[1:]
		}
		if len(before) == 0 {
			return ""
		}
		return titleCase(strings.Join(before, " "))
	}
	return ""
}

// titleCase upper-cases word initials the way the payslip prints names in
// all caps. Short connectives (de, da, dos) stay lower.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		switch w {
		case "de", "da", "do", "das", "dos", "e":
			if i > 0 {
				continue
			}
		}
		r := []rune(w)
		if len(r) > 0 {
			words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
		}
	}
	return strings.Join(words, " ")
}
