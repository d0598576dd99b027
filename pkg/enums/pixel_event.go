package enums

import "fmt"

// PixelEventName identifies the first-party pixel event kinds we ingest.
type PixelEventName string

const (
	PixelEventPurchase       PixelEventName = "Purchase"
	PixelEventAddToCart      PixelEventName = "AddToCart"
	PixelEventInitiateCheck  PixelEventName = "InitiateCheckout"
	PixelEventPageView       PixelEventName = "PageView"
	PixelEventViewContent    PixelEventName = "ViewContent"
	PixelEventAddPaymentInfo PixelEventName = "AddPaymentInfo"
)

var validPixelEventNames = []PixelEventName{
	PixelEventPurchase,
	PixelEventAddToCart,
	PixelEventInitiateCheck,
	PixelEventPageView,
	PixelEventViewContent,
	PixelEventAddPaymentInfo,
}

// String implements fmt.Stringer.
func (n PixelEventName) String() string {
	return string(n)
}

// IsValid reports whether the value is a known PixelEventName.
func (n PixelEventName) IsValid() bool {
	for _, candidate := range validPixelEventNames {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParsePixelEventName converts raw input into a PixelEventName.
func ParsePixelEventName(value string) (PixelEventName, error) {
	for _, candidate := range validPixelEventNames {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pixel event name %q", value)
}
