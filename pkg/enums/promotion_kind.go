package enums

import "fmt"

// PromotionKind tags the discount mechanisms the composer understands.
type PromotionKind string

const (
	PromotionKindVoucher     PromotionKind = "voucher"
	PromotionKindBogo        PromotionKind = "bogo"
	PromotionKindBxGy        PromotionKind = "bxgy"
	PromotionKindSpendXSaveY PromotionKind = "spend_x_save_y"
	PromotionKindLoyalty     PromotionKind = "loyalty"
)

var validPromotionKinds = []PromotionKind{
	PromotionKindVoucher,
	PromotionKindBogo,
	PromotionKindBxGy,
	PromotionKindSpendXSaveY,
	PromotionKindLoyalty,
}

// String implements fmt.Stringer.
func (p PromotionKind) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PromotionKind.
func (p PromotionKind) IsValid() bool {
	for _, candidate := range validPromotionKinds {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePromotionKind converts raw input into a PromotionKind.
func ParsePromotionKind(value string) (PromotionKind, error) {
	for _, candidate := range validPromotionKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promotion kind %q", value)
}
