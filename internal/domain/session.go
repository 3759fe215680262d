package domain

// Session existe solo como entidad declarada: ningún flujo la escribe ni
// la lee. Las sesiones reales son el conjunto de valores distintos de
// Message.Session.
type Session struct {
	SessionID string `json:"sessionId"`
	Title     string `json:"title"`
}
