package service

import (
	"strings"

	"github.com/cwrk-planet/roomcast/internal/domain"
)

// KeyRing is the set of api keys allowed to call the coordinator.
type KeyRing map[string]struct{}

func NewKeyRing(keys ...string) KeyRing {
	kr := make(KeyRing, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			kr[k] = struct{}{}
		}
	}
	return kr
}

func (kr KeyRing) Authorize(key string) error {
	if key == "" {
		return domain.ErrUnauthorized
	}
	if _, ok := kr[key]; !ok {
		return domain.ErrUnauthorized
	}
	return nil
}
