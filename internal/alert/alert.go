package alert

// NotAvailable is the sentinel value carried by every canonical field whose
// source record did not provide a usable value. Downstream code relies on
// fields never being empty: they either hold real feed data or this sentinel.
const NotAvailable = "N/A"

// Alert is the normalized, field-complete representation of one feed item.
// It is created once during normalization and never mutated afterwards.
type Alert struct {
	// ID is the feed's identifier for this alert, stringified
	ID string `json:"id"`

	// Title is the raw alert headline as delivered by the feed
	Title string `json:"title"`

	// Details is the raw alert body, possibly containing feed markup
	Details string `json:"details"`

	// ValidFrom is the raw start-of-validity date text
	ValidFrom string `json:"validFrom"`

	// ValidUntil is the raw end-of-validity date text
	ValidUntil string `json:"validUntil"`

	// Area is the raw polygon text describing the affected area
	Area string `json:"area"`

	// Sender is the issuing authority named by the feed
	Sender string `json:"sender"`
}
