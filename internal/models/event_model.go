package models

// QuoteSubmittedEvent is published after a quote request has been persisted.
type QuoteSubmittedEvent struct {
	Type             string `json:"type"`
	QuoteID          string `json:"quoteId"`
	Name             string `json:"name"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	Company          string `json:"company,omitempty"`
	Service          string `json:"service,omitempty"`
	Message          string `json:"message,omitempty"`
	IsRegisteredUser bool   `json:"isRegisteredUser"`
}

// EventTypeQuoteSubmitted is the Type of QuoteSubmittedEvent.
const EventTypeQuoteSubmitted = "quote.submitted"
