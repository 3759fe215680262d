package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"ai-chatbot/internal/domain"
)

// ErrorBubbleText es la burbuja fija que reemplaza la respuesta del bot
// cuando el servidor falla. El fallo nunca se descarta en silencio.
const ErrorBubbleText = "⚠️ Error getting response from server."

// SessionController mantiene el estado transitorio de la conversación y lo
// reconcilia con el historial persistido en el servidor. El espejo local no
// está garantizado a coincidir con el almacén: el mensaje del usuario se
// agrega de forma optimista antes de la confirmación.
type SessionController struct {
	mu             sync.Mutex
	api            ChatAPI
	logger         *zap.Logger
	messages       []domain.Message
	currentSession string
	sessionList    []string
	pending        bool
	now            func() time.Time
}

func NewSessionController(api ChatAPI, logger *zap.Logger) *SessionController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionController{
		api:    api,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Send agrega el mensaje del usuario de forma optimista, llama al backend y
// agrega la respuesta del bot o la burbuja de error. Texto en blanco es un
// no-op. pending se limpia siempre, con o sin error.
func (sc *SessionController) Send(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	sc.mu.Lock()
	session := sc.currentSession
	sc.messages = append(sc.messages, domain.Message{
		Sender:    domain.SenderUser,
		Text:      text,
		Timestamp: sc.now(),
		Session:   session,
	})
	sc.pending = true
	sc.mu.Unlock()

	reply, err := sc.api.Send(ctx, text, session)

	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.pending = false

	if err != nil {
		sc.logger.Warn("send failed", zap.Error(err), zap.String("session", session))
		sc.messages = append(sc.messages, domain.Message{
			Sender:    domain.SenderBot,
			Text:      ErrorBubbleText,
			Timestamp: sc.now(),
			Session:   session,
		})
		return
	}

	sc.messages = append(sc.messages, domain.Message{
		Sender:    domain.SenderBot,
		Text:      reply,
		Timestamp: sc.now(),
		Session:   session,
	})
}

// StartNewSession vacía la vista y fija un identificador nuevo que combina
// la fecha con un timestamp de alta resolución, único dentro del proceso.
func (sc *SessionController) StartNewSession() string {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	id := fmt.Sprintf("%s-%d", sc.now().Format("2006-01-02"), sc.now().UnixNano())
	sc.messages = nil
	sc.currentSession = id
	return id
}

// ClearLocalView vacía la vista local sin tocar el servidor.
func (sc *SessionController) ClearLocalView() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.messages = nil
	sc.currentSession = ""
}

// LoadSessionList refresca la lista de sesiones. Si el servidor falla se
// conserva la lista anterior: stale pero disponible.
func (sc *SessionController) LoadSessionList(ctx context.Context) {
	sessions, err := sc.api.Sessions(ctx)
	if err != nil {
		sc.logger.Warn("load sessions failed", zap.Error(err))
		return
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.sessionList = sessions
}

// OpenSession reemplaza la vista local con el historial persistido de la
// sesión indicada.
func (sc *SessionController) OpenSession(ctx context.Context, id string) error {
	messages, err := sc.api.History(ctx, id)
	if err != nil {
		sc.logger.Warn("open session failed", zap.Error(err), zap.String("session", id))
		return err
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.messages = messages
	sc.currentSession = id
	return nil
}

// PurgeAllHistory pide el borrado total al servidor y, solo tras la
// confirmación, limpia el estado local. No es optimista: es irreversible.
func (sc *SessionController) PurgeAllHistory(ctx context.Context) error {
	if err := sc.api.ClearAll(ctx); err != nil {
		sc.logger.Warn("purge history failed", zap.Error(err))
		return err
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.messages = nil
	sc.currentSession = ""
	sc.sessionList = nil
	return nil
}

// Messages devuelve una copia de la vista local.
func (sc *SessionController) Messages() []domain.Message {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	out := make([]domain.Message, len(sc.messages))
	copy(out, sc.messages)
	return out
}

// CurrentSession devuelve el identificador de sesión activo ("" si ninguno).
func (sc *SessionController) CurrentSession() string {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.currentSession
}

// SessionList devuelve la última lista de sesiones conocida.
func (sc *SessionController) SessionList() []string {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	out := make([]string, len(sc.sessionList))
	copy(out, sc.sessionList)
	return out
}

// Pending indica si hay una petición de chat en vuelo.
func (sc *SessionController) Pending() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.pending
}
