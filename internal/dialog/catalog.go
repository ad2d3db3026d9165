package dialog

import (
	"fmt"
	"strings"
)

// Reason catalogs are static ordered lists selected by 1-based index.
// The index-to-reason mapping is positional; changing a catalog while a
// conversation is mid-flow is undefined behavior, so these are fixed at
// compile time.

var refundReasons = []string{
	"Received a damaged or defective product",
	"Product did not match the description",
	"Wrong item delivered",
	"Delivery was delayed",
	"Changed my mind / no longer needed the product",
}

var exchangeReasons = []string{
	"Size does not fit",
	"Wrong color or variant received",
	"Product damaged",
	"Want a different model",
	"Received incorrect item",
}

// RefundReasons returns a copy of the refund reason catalog.
func RefundReasons() []string {
	return append([]string(nil), refundReasons...)
}

// ExchangeReasons returns a copy of the exchange reason catalog.
func ExchangeReasons() []string {
	return append([]string(nil), exchangeReasons...)
}

// reasonsFor returns the catalog for a flow, or nil if the flow has no
// reason catalog (tracking, none).
func reasonsFor(flow Flow) []string {
	switch flow {
	case FlowRefund:
		return refundReasons
	case FlowExchange:
		return exchangeReasons
	}
	return nil
}

// formatReasons renders a catalog as the numbered list presented to the
// user.
func formatReasons(header string, reasons []string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	for i, r := range reasons {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r)
	}
	return b.String()
}
