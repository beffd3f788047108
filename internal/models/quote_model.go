package models

import "time"

// QuoteStatus is the lifecycle status of a quote request. Any value may follow any other.
type QuoteStatus string

const (
	QuoteStatusPending   QuoteStatus = "pending"
	QuoteStatusContacted QuoteStatus = "contacted"
	QuoteStatusClosed    QuoteStatus = "closed"
)

// Valid reports whether s is one of the known statuses.
func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteStatusPending, QuoteStatusContacted, QuoteStatusClosed:
		return true
	}
	return false
}

// QuoteRequest is a customer-submitted service inquiry.
type QuoteRequest struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Email            string      `json:"email,omitempty"`
	Phone            string      `json:"phone,omitempty"`
	Company          string      `json:"company,omitempty"`
	Service          string      `json:"service,omitempty"`
	Message          string      `json:"message,omitempty"`
	Status           QuoteStatus `json:"status"`
	CreatedAt        time.Time   `json:"createdAt"`
	UserID           string      `json:"userId,omitempty"`
	IsRegisteredUser bool        `json:"isRegisteredUser"`
}

// QuoteListing is the dashboard grouping of quote requests: closed ones apart from the rest.
// Both slices keep the createdAt descending order of the listing they came from.
type QuoteListing struct {
	Active []*QuoteRequest `json:"active"`
	Closed []*QuoteRequest `json:"closed"`
}
