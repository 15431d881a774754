package domain

// CardStatus is the issuer-side state of a card.
type CardStatus string

const (
	CardActive    CardStatus = "ACTIVE"
	CardInactive  CardStatus = "INACTIVE"
	CardCancelled CardStatus = "CANCELLED"
)

// Card is the resolved view of a network card reference.
type Card struct {
	ID           string     `json:"cardID"`
	CardRef      string     `json:"cardRef"`
	BusinessID   string     `json:"businessID"`
	AllocationID *string    `json:"allocationID,omitempty"`
	AccountID    string     `json:"accountID"`
	Status       CardStatus `json:"status"`
	LastFour     string     `json:"lastFour"`
}
