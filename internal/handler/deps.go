package handler

import (
	"batepapo/internal/app/chat"
	"batepapo/internal/configs"
)

type AppDeps struct {
	Service *chat.Service
	Config  *configs.AppConfig
}
