package domain

type TradeType string

const (
	TradeTypePermanent TradeType = "permanent"
	TradeTypeTemporary TradeType = "temporary"
)

const MaxLoanDurationDays = 365

// TradeTerms is either PermanentTerms or TemporaryTerms. Only the fields that
// matter for a mode exist on its variant.
type TradeTerms interface {
	Type() TradeType
	isTradeTerms()
}

type PermanentTerms struct{}

func (PermanentTerms) Type() TradeType { return TradeTypePermanent }
func (PermanentTerms) isTradeTerms()   {}

type TemporaryTerms struct {
	DurationDays int
}

func (TemporaryTerms) Type() TradeType { return TradeTypeTemporary }
func (TemporaryTerms) isTradeTerms()   {}

// TermsFromColumns rebuilds the variant from its flattened storage form.
func TermsFromColumns(t TradeType, durationDays *int) (TradeTerms, error) {
	switch t {
	case TradeTypePermanent:
		return PermanentTerms{}, nil
	case TradeTypeTemporary:
		if durationDays == nil {
			return nil, Validation("temporary terms require a loan duration")
		}
		return TemporaryTerms{DurationDays: *durationDays}, nil
	default:
		return nil, Validation("unknown trade type %q", t)
	}
}

// TermsColumns flattens terms into (type, duration) for storage.
func TermsColumns(terms TradeTerms) (TradeType, *int) {
	if tmp, ok := terms.(TemporaryTerms); ok {
		d := tmp.DurationDays
		return TradeTypeTemporary, &d
	}
	return TradeTypePermanent, nil
}

// ValidateTerms checks terms supplied by a client.
func ValidateTerms(terms TradeTerms) error {
	switch t := terms.(type) {
	case PermanentTerms:
		return nil
	case TemporaryTerms:
		if t.DurationDays < 1 || t.DurationDays > MaxLoanDurationDays {
			return Validation("loan duration must be between 1 and %d days", MaxLoanDurationDays)
		}
		return nil
	default:
		return Validation("trade preference is required")
	}
}

// SameMode reports whether two terms describe the same trade mode. Loan
// length does not have to match; the receiver item's length wins.
func SameMode(a, b TradeTerms) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Type() == b.Type()
}
