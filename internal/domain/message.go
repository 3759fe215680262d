package domain

import "time"

// Roles válidos para el campo Sender de un mensaje.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Message es el registro inmutable de un mensaje dentro de una sesión.
// El orden dentro de una sesión lo define Timestamp ascendente.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Session   string    `json:"session"`
}

// ValidSender indica si el rol pertenece al enum {user, bot}.
func ValidSender(sender string) bool {
	return sender == SenderUser || sender == SenderBot
}
