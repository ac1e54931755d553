package websocket

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	authPrefix = "AUTH:"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Authenticator maps a bearer token to an account id.
type Authenticator func(token string) (primitive.ObjectID, bool)

// HandleWebSocket upgrades the request. userID may be zero; the client can
// then authenticate later by sending "AUTH:<token>".
func HandleWebSocket(c echo.Context, hub *Hub, userID primitive.ObjectID, auth Authenticator) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		UserID:        userID,
		Conn:          conn,
		Authenticated: !userID.IsZero(),
	}
	if !hub.enqueue(hub.register, client) {
		return conn.Close()
	}

	if client.Authenticated {
		_ = client.send(Message{
			Type:    TypeConnected,
			Message: "Conexão estabelecida",
			UserID:  userID.Hex(),
		})
	} else {
		_ = client.send(Message{
			Type:         TypeConnected,
			Message:      "Conexão estabelecida. Autentique-se para receber notificações.",
			RequiresAuth: true,
		})
	}

	done := make(chan struct{})
	go keepAlive(client, done)
	go func() {
		defer func() {
			close(done)
			if !hub.enqueue(hub.unregister, client) {
				conn.Close()
			}
		}()

		conn.SetReadLimit(4096)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})

		for {
			messageType, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if messageType != websocket.TextMessage {
				continue
			}
			text := string(message)
			if !strings.HasPrefix(text, authPrefix) {
				continue
			}
			id, ok := auth(strings.TrimSpace(strings.TrimPrefix(text, authPrefix)))
			if !ok {
				_ = client.send(Message{Type: TypeAuthResponse, Message: "Token inválido", RequiresAuth: true})
				continue
			}
			hub.AuthenticateClient(client, id)
			_ = client.send(Message{Type: TypeAuthResponse, Message: "Autenticado", UserID: id.Hex()})
		}
	}()

	return nil
}

func keepAlive(client *Client, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			client.writeMu.Lock()
			err := client.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second))
			client.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
