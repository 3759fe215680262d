package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ai-chatbot/internal/client"
	"ai-chatbot/internal/domain"
)

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}

	logger := zap.NewExample()
	defer logger.Sync()

	api := client.NewAPIClient(baseURL, nil)
	controller := client.NewSessionController(api, logger)

	fmt.Println("===== AI Chatbot =====")
	fmt.Println("Comandos: /new, /sessions, /open <n>, /clear, /purge, /exit")

	for {
		prompt := controller.CurrentSession()
		if prompt == "" {
			prompt = "sin sesion"
		}
		fmt.Printf("[%s] Tu > ", prompt)

		text, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "/") {
			if done := runCommand(ctx, reader, controller, text); done {
				return
			}
			continue
		}

		controller.Send(ctx, text)
		printLast(controller)
	}
}

func runCommand(ctx context.Context, reader *bufio.Reader, controller *client.SessionController, text string) bool {
	fields := strings.Fields(text)
	switch fields[0] {
	case "/new":
		id := controller.StartNewSession()
		fmt.Printf("Nueva sesion: %s\n", id)
	case "/sessions":
		controller.LoadSessionList(ctx)
		sessions := controller.SessionList()
		if len(sessions) == 0 {
			fmt.Println("No hay sesiones guardadas.")
			return false
		}
		for i, s := range sessions {
			fmt.Printf("[%d] %s\n", i+1, s)
		}
	case "/open":
		if len(fields) < 2 {
			fmt.Println("Uso: /open <numero>")
			return false
		}
		sessions := controller.SessionList()
		idx, err := strconv.Atoi(fields[1])
		if err != nil || idx < 1 || idx > len(sessions) {
			fmt.Println("Seleccion invalida. Corre /sessions primero.")
			return false
		}
		if err := controller.OpenSession(ctx, sessions[idx-1]); err != nil {
			fmt.Printf("Error abriendo sesion: %v\n", err)
			return false
		}
		for _, msg := range controller.Messages() {
			printBubble(msg)
		}
	case "/clear":
		controller.ClearLocalView()
		fmt.Println("Vista local limpia (el historial del servidor sigue intacto).")
	case "/purge":
		fmt.Print("Esto borra TODO el historial del servidor. Confirma [s/N]: ")
		confirm, _ := reader.ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(confirm), "s") {
			fmt.Println("Cancelado.")
			return false
		}
		if err := controller.PurgeAllHistory(ctx); err != nil {
			fmt.Printf("Error borrando historial: %v\n", err)
			return false
		}
		fmt.Println("Historial borrado.")
	case "/exit":
		fmt.Println("Saliendo...")
		return true
	default:
		fmt.Println("Comando desconocido.")
	}
	return false
}

func printLast(controller *client.SessionController) {
	messages := controller.Messages()
	if len(messages) == 0 {
		return
	}
	printBubble(messages[len(messages)-1])
}

func printBubble(msg domain.Message) {
	label := "Bot"
	if msg.Sender == domain.SenderUser {
		label = "Tu"
	}
	fmt.Printf("%s > %s\n", label, msg.Text)
}
