package enums

import "fmt"

// RewardEntryKind tags a row in the user reward ledger.
type RewardEntryKind string

const (
	RewardEntryKindGrant      RewardEntryKind = "grant"
	RewardEntryKindRedemption RewardEntryKind = "redemption"
	RewardEntryKindReversal   RewardEntryKind = "reversal"
)

var validRewardEntryKinds = []RewardEntryKind{
	RewardEntryKindGrant,
	RewardEntryKindRedemption,
	RewardEntryKindReversal,
}

// String implements fmt.Stringer.
func (r RewardEntryKind) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RewardEntryKind.
func (r RewardEntryKind) IsValid() bool {
	for _, candidate := range validRewardEntryKinds {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRewardEntryKind converts raw input into a RewardEntryKind.
func ParseRewardEntryKind(value string) (RewardEntryKind, error) {
	for _, candidate := range validRewardEntryKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reward entry kind %q", value)
}
