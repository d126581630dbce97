package internal

import (
	"strings"
	"time"

	"anonchat/domain"
)

type Config struct {
	LogLevel        string        `env:"LOG_LEVEL,required=true"`
	Host            string        `env:"HOST,required=true"`
	Port            int           `env:"PORT,required=true"`
	BufferSize      int           `env:"BUFFER_SIZE,required=true"`
	EventBufferSize int           `env:"EVENT_BUFFER_SIZE,required=true"`
	NotifyBuffer    int           `env:"NOTIFY_BUFFER_SIZE,required=true"`
	NotifyTick      time.Duration `env:"NOTIFY_TICK,required=true"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,required=true"`
	ChatCapacity    int           `env:"CHAT_CAPACITY,required=true"`
	AdminIDs        string        `env:"ADMIN_IDS"`
	ModeratorIDs    string        `env:"MODERATOR_IDS"`
}

// Identities splits a comma-separated identity list from the environment.
func Identities(raw string) []domain.Identity {
	var ids []domain.Identity
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, domain.Identity(part))
		}
	}
	return ids
}
