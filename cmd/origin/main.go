package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/hamed0406/downloadcheck/internal/config"
	"github.com/hamed0406/downloadcheck/internal/httpapi"
	"github.com/hamed0406/downloadcheck/internal/logging"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	srv := httpapi.NewServer(logger, cfg.DownloadsDir, cfg.AllowedOrigins)

	logger.Info("origin_listen",
		zap.String("addr", cfg.Addr),
		zap.String("downloads_dir", cfg.DownloadsDir),
	)
	if err := http.ListenAndServe(cfg.Addr, srv.Router()); err != nil {
		log.Fatal(err)
	}
}
