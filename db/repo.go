package db

import (
	"gorm.io/gorm"

	"prom_seating_console/logger"
)

type Repo struct {
	DB  *gorm.DB
	log *logger.Logger
}

func NewRepo(gdb *gorm.DB, log *logger.Logger) *Repo {
	if log == nil {
		log = logger.Discard()
	}
	return &Repo{DB: gdb, log: log}
}
