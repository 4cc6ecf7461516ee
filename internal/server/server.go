package server

import (
	"parttracker/internal/client"
	"parttracker/internal/database"
	"parttracker/internal/scraper"
)

type Server struct {
	DB      database.Database
	Client  client.Client
	Scraper scraper.Scraper
	Logger  logger
}

type logger interface {
	Debug(v ...any)
	Info(v ...any)
	Warn(v ...any)
	Error(v ...any)
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}
