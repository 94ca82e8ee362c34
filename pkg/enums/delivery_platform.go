package enums

import "fmt"

// DeliveryPlatform identifies the third-party courier network used.
type DeliveryPlatform string

const (
	DeliveryPlatformUber     DeliveryPlatform = "uber"
	DeliveryPlatformDoorDash DeliveryPlatform = "doordash"
	DeliveryPlatformRaider   DeliveryPlatform = "raider"
	DeliveryPlatformNA       DeliveryPlatform = "na"
)

var validDeliveryPlatforms = []DeliveryPlatform{
	DeliveryPlatformUber,
	DeliveryPlatformDoorDash,
	DeliveryPlatformRaider,
	DeliveryPlatformNA,
}

// String implements fmt.Stringer.
func (d DeliveryPlatform) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryPlatform.
func (d DeliveryPlatform) IsValid() bool {
	for _, candidate := range validDeliveryPlatforms {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryPlatform converts raw input into a DeliveryPlatform.
func ParseDeliveryPlatform(value string) (DeliveryPlatform, error) {
	for _, candidate := range validDeliveryPlatforms {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery platform %q", value)
}
