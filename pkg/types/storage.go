package types

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("not found")

// PreferenceStore persists per-user screen preferences. Load returns
// ErrNotFound when nothing is stored under the key.
type PreferenceStore interface {
	Load(ctx context.Context, key string) (Preferences, error)
	Save(ctx context.Context, key string, prefs Preferences) error
}

const preferenceKeyPrefix = "ui_settings:"

func PreferenceKey(user, screen string) string {
	return preferenceKeyPrefix + user + ":" + screen
}

// ParsePreferenceKey splits a key made by PreferenceKey. Screen names never
// contain a colon, user names may.
func ParsePreferenceKey(key string) (user, screen string, ok bool) {
	rest, ok := strings.CutPrefix(key, preferenceKeyPrefix)
	if !ok {
		return "", "", false
	}
	idx := strings.LastIndex(rest, ":")
	if idx == -1 {
		return "", "", false
	}
	return rest[:idx], rest[idx+1:], true
}
