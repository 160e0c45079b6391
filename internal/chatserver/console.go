package chatserver

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// Console is the in-process admin command loop. It only ever reads the
// registry and requests kills; it receives its registry explicitly and
// never touches histories.
type Console struct {
	registry *Registry
	in       io.Reader
	out      io.Writer
}

// NewConsole builds a console over the given reader/writer pair. In the
// server binary these are the process stdin/stdout.
func NewConsole(registry *Registry, in io.Reader, out io.Writer) *Console {
	return &Console{registry: registry, in: in, out: out}
}

// Run processes commands until `exit` or EOF. Leaving the console never
// affects the listener or any live session.
func (c *Console) Run() {
	fmt.Fprintln(c.out, "Consola admin lista. Comandos: list, kill <session_id>, exit")

	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, "(admin)> ")
		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "list":
			c.list()
		case "kill":
			if len(fields) != 2 {
				fmt.Fprintln(c.out, "Uso: kill <session_id>")
				continue
			}
			c.kill(fields[1])
		case "exit", "quit":
			fmt.Fprintln(c.out, "Saliendo consola admin (el server sigue corriendo)...")
			return
		default:
			fmt.Fprintln(c.out, "Comandos disponibles: list, kill <session_id>, exit")
		}
	}
}

func (c *Console) list() {
	records := c.registry.List()
	if len(records) == 0 {
		fmt.Fprintln(c.out, "No hay conexiones activas.")
		return
	}

	for _, rec := range records {
		fmt.Fprintf(c.out, "Sesión %d (%s) | %s | handler=%s | started=%s | last_seen=%s\n",
			rec.Number,
			rec.ID,
			rec.RemoteAddr,
			rec.Tag,
			rec.StartedAt.Format(time.RFC3339),
			rec.LastSeen.Format(time.RFC3339),
		)
	}
}

func (c *Console) kill(id string) {
	if c.registry.Kill(id) {
		fmt.Fprintf(c.out, "Sesión %s cerrada desde admin.\n", id)
		return
	}
	fmt.Fprintln(c.out, "No existe esa sesión o ya está cerrada.")
}
