// Package domain contains the VAT model and the price container
// abstraction every priceable line item is viewed through.
package domain

// VatStatus classifies whether and how value-added tax applies to a
// price. The exempt variants mark reverse-charge / tax-exempt cases that
// must still be reported separately even though no VAT is charged.
type VatStatus string

const (
	VatNone           VatStatus = "NONE"
	VatIncluded       VatStatus = "INCLUDED"
	VatNotIncluded    VatStatus = "NOT_INCLUDED"
	VatIncludedExempt VatStatus = "INCLUDED_EXEMPT"
	VatNoneExempt     VatStatus = "NONE_EXEMPT"
)

// Exempt reports whether the status marks a reverse-charge / tax-exempt
// case.
func (v VatStatus) Exempt() bool {
	return v == VatIncludedExempt || v == VatNoneExempt
}

// Included reports whether the source price already embeds VAT.
func (v VatStatus) Included() bool {
	return v == VatIncluded || v == VatIncludedExempt
}

// SortWeight orders statuses for summary grouping. Exempt variants carry
// the highest weights so they sort first when a reservation mixes
// statuses across categories.
func (v VatStatus) SortWeight() int {
	switch v {
	case VatNoneExempt:
		return 4
	case VatIncludedExempt:
		return 3
	case VatNotIncluded:
		return 2
	case VatIncluded:
		return 1
	default:
		return 0
	}
}

// Valid reports whether the value is one of the known statuses.
func (v VatStatus) Valid() bool {
	switch v {
	case VatNone, VatIncluded, VatNotIncluded, VatIncludedExempt, VatNoneExempt:
		return true
	default:
		return false
	}
}
