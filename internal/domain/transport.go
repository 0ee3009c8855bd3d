package domain

// TransportRoute is keyed by its (From, To) pair.
type TransportRoute struct {
	From       string   `json:"from"`
	To         string   `json:"to"`
	Mode       string   `json:"mode"`
	Line       string   `json:"line"`
	Color      string   `json:"color"`
	Duration   string   `json:"duration"`
	Frequency  string   `json:"frequency"`
	TicketType string   `json:"ticket_type"`
	Stops      []string `json:"stops"`
}
