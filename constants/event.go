package constants

// EventKind classifies one payslip line item.
type EventKind string

const (
	Earning       EventKind = "EARNING"
	Deduction     EventKind = "DEDUCTION"
	Informational EventKind = "INFORMATIONAL"
)

// TaxIDStatus describes how far identity resolution got for a block.
type TaxIDStatus string

const (
	TaxIDResolved   TaxIDStatus = "RESOLVED"   // 11 digits, checksum ok
	TaxIDInvalid    TaxIDStatus = "INVALID"    // present but failed the checksum
	TaxIDUnresolved TaxIDStatus = "UNRESOLVED" // no candidate found in the block
)
