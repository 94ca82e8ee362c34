package enums

import "fmt"

// OrderMethod describes how the customer receives the order.
type OrderMethod string

const (
	OrderMethodPickup             OrderMethod = "pickup"
	OrderMethodDelivery           OrderMethod = "delivery"
	OrderMethodRestaurantDelivery OrderMethod = "restaurant_delivery"
	OrderMethodLocalDeal          OrderMethod = "local_deal"
)

var validOrderMethods = []OrderMethod{
	OrderMethodPickup,
	OrderMethodDelivery,
	OrderMethodRestaurantDelivery,
	OrderMethodLocalDeal,
}

// String implements fmt.Stringer.
func (o OrderMethod) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderMethod.
func (o OrderMethod) IsValid() bool {
	for _, candidate := range validOrderMethods {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsDelivery reports whether the method requires a courier.
func (o OrderMethod) IsDelivery() bool {
	return o == OrderMethodDelivery || o == OrderMethodRestaurantDelivery
}

// ParseOrderMethod converts raw input into an OrderMethod.
func ParseOrderMethod(value string) (OrderMethod, error) {
	for _, candidate := range validOrderMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order method %q", value)
}
