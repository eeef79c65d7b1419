package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// Store persists debug dumps of restaurant documents.
type Store interface {
	Put(ctx context.Context, key string, body []byte) (location string, err error)
}

// DumpKeys names the three files written for one fetch of a restaurant.
type DumpKeys struct {
	Data       string
	Simplified string
	Converted  string
}

// KeysFor returns the dump keys for a restaurant fetch, e.g.
// snapshots/Curry_Delights/<id>_data.json.
func KeysFor(restaurantName, id string) DumpKeys {
	dir := path.Join("snapshots", dumpName(restaurantName))
	base := path.Join(dir, id)
	return DumpKeys{
		Data:       base + "_data.json",
		Simplified: base + "_simplified.json",
		Converted:  base + "_converted.json",
	}
}

func dumpName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Unknown_Restaurant"
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r == '/' || r == '\\' || r == '.' || r < 0x20:
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validKey(key string) error {
	clean := path.Clean(key)
	if key == "" || strings.HasPrefix(clean, "..") || strings.HasPrefix(clean, "/") {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}
