package constants

// MatchStatus is the canonical reconciliation outcome for one employee.
type MatchStatus string

// Stable values (written verbatim into the verification dataset).
const (
	Matched              MatchStatus = "MATCHED"                // joined by CPF, supplement computed
	UnmatchedInPayroll   MatchStatus = "UNMATCHED_IN_PAYROLL"   // on the payslip, absent from the roster
	UnmatchedInReference MatchStatus = "UNMATCHED_IN_REFERENCE" // on the roster, absent from the payslip
	ZeroDifference       MatchStatus = "ZERO_DIFFERENCE"        // joined, difference below the payable threshold
)
