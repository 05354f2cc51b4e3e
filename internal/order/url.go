package order

import "net/url"

// HandoffURL builds the link that opens the store's WhatsApp chat with the
// order message prefilled, e.g. https://wa.me/27720494067?text=...
func HandoffURL(endpoint, recipient, message string) string {
	u := url.URL{
		Scheme:   "https",
		Host:     endpoint,
		Path:     "/" + recipient,
		RawQuery: url.Values{"text": {message}}.Encode(),
	}
	return u.String()
}
