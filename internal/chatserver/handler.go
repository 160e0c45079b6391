package chatserver

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/vaninafuentes/EcoBot/internal/logger"
)

// maxLineBytes bounds a single client line.
const maxLineBytes = 64 * 1024

// quitKeywords close the session when received as a whole line.
var quitKeywords = map[string]bool{
	"salir": true,
	"exit":  true,
	"quit":  true,
}

// handleConn owns one client connection from accept to teardown. It
// registers the session, runs the read/reply loop and always deregisters
// on the way out, whether the client disconnected, a transport error
// occurred or the admin console killed the session.
func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()

	remoteAddr := conn.RemoteAddr().String()
	id, number, handle := s.registry.Register(remoteAddr, func() {
		// Closing from the controlling side forces the blocked read
		// below to fail, which is the normal disconnect path.
		_ = conn.Close()
	})
	s.histories.Create(id)

	logger.Info("[Sesión %d] Nueva conexión desde %s (sid=%s)", number, remoteAddr, id)

	// The reply context ends when the session is killed or the server
	// stops, so an in-flight model call can be abandoned cooperatively.
	replyCtx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-handle.Done():
		case <-replyCtx.Done():
		}
		cancel()
	}()

	defer func() {
		cancel()
		_ = conn.Close()
		s.histories.Drop(id)
		s.registry.Deregister(id)
		logger.Info("[Sesión %d] Conexión cerrada %s (sid=%s)", number, remoteAddr, id)
	}()

	welcome := fmt.Sprintf(
		"Bienvenido a EcoBot 👋\nTu session_id es: %s\nEscribí tu pregunta de economía o 'salir' para desconectarte.\n\n> ", id)
	if _, err := conn.Write([]byte(welcome)); err != nil {
		logger.Warn("[Sesión %d] No pude enviar la bienvenida: %v", number, err)
		return
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	for scanner.Scan() {
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			if _, err := conn.Write([]byte("> ")); err != nil {
				return
			}
			continue
		}

		if quitKeywords[strings.ToLower(message)] {
			_, _ = conn.Write([]byte("👋 Cerrando sesión. Gracias por usar EcoBot.\n"))
			return
		}

		s.registry.Touch(id)

		history := s.histories.History(id)
		answer, err := s.replier.Reply(replyCtx, history, message)
		if err != nil {
			// A failed reply is not fatal to the session.
			logger.Warn("[Sesión %d] Fallo del reply: %v", number, err)
			answer = fmt.Sprintf("Ocurrió un error interno en el bot: %v", err)
		}

		s.histories.AppendTurn(id, message, answer)

		response := fmt.Sprintf("\nEcoBot: %s\n\n> ", answer)
		if _, err := conn.Write([]byte(response)); err != nil {
			logger.Debug("[Sesión %d] Error de escritura: %v", number, err)
			return
		}
	}

	// Read ended: clean EOF, transport error, or our own socket closed
	// by an admin kill. All of them take the same teardown path.
	select {
	case <-handle.Done():
		logger.Info("[Sesión %d] Cerrada desde la consola admin", number)
	default:
		if err := scanner.Err(); err != nil {
			logger.Debug("[Sesión %d] Error de lectura: %v", number, err)
		}
	}
}
