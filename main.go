package main

import (
	"flag"
	"log"

	"github.com/notebooker/backend/cmd"
)

// apiVersion is overridden at build time with -ldflags "-X main.apiVersion=...".
var apiVersion = "dev"

func main() {
	shouldRunMigrations := flag.Bool("migrations", false, "Run the database migrations")
	shouldRunServer := flag.Bool("server", false, "Run the HTTP API server")
	shouldRunWorker := flag.Bool("worker", false, "Run the report execution worker")
	flag.Parse()

	if *shouldRunMigrations {
		if err := cmd.RunMigrations(); err != nil {
			log.Fatal(err)
		}
	}
	if *shouldRunServer {
		if err := cmd.RunServer(apiVersion); err != nil {
			log.Fatal(err)
		}
	}
	if *shouldRunWorker {
		if err := cmd.RunWorker(apiVersion); err != nil {
			log.Fatal(err)
		}
	}
}
