package main

import (
	"github.com/schemeseva/scheme-service/config"
	"github.com/schemeseva/scheme-service/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
