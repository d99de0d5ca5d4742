package handler

import (
	"peerchat/internal/app/chat"
	"peerchat/internal/app/push"
	"peerchat/internal/app/storage"
	"peerchat/internal/app/store"
	"peerchat/internal/configs"
)

// AppDeps bundles the collaborators the HTTP layer hands to individual handlers.
type AppDeps struct {
	Config     *configs.AppConfig
	Store      store.Directory
	Registry   *chat.Registry
	Resolver   *chat.Resolver
	Dispatcher push.Dispatcher
	Storage    storage.Service
}
