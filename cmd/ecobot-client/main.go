package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/vaninafuentes/EcoBot/internal/botclient"
	"github.com/vaninafuentes/EcoBot/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	host := pflag.String("host", "localhost", "server host")
	port := pflag.Int("port", config.DefaultSocketPort, "server port")
	pflag.Parse()

	addr := fmt.Sprintf("%s:%d", *host, *port)
	client, err := botclient.Dial(context.Background(), addr)
	if err != nil {
		return err
	}
	defer client.Close()

	return client.Run(os.Stdin, os.Stdout)
}
