package endpoint

import (
	"fmt"
	"sort"
	"strings"
)

// NotFoundError reports an unresolvable endpoint key. Available carries the
// full list of configured keys so the caller (including the model) can
// self-correct; the list is part of the user-visible error contract.
type NotFoundError struct {
	Key       string
	Available []string
}

func (e *NotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("webhook endpoint %q is not configured and no endpoints are defined", e.Key)
	}
	return fmt.Sprintf("webhook endpoint %q is not configured. Available endpoints: %s",
		e.Key, strings.Join(e.Available, ", "))
}

// Resolve maps a caller-supplied key to a stored configuration. Lookup order:
// exact match, normalized match (underscores to hyphens, lowercase), then a
// case-insensitive scan comparing both forms. Returns the stored key that
// matched alongside the config.
func Resolve(rawKey string, store Store) (Config, string, error) {
	all, err := store.GetAll()
	if err != nil {
		return Config{}, "", fmt.Errorf("endpoint resolve: %w", err)
	}

	if cfg, ok := all[rawKey]; ok {
		return cfg, rawKey, nil
	}

	norm := NormalizeKey(rawKey)
	if cfg, ok := all[norm]; ok {
		return cfg, norm, nil
	}

	for k, cfg := range all {
		if strings.EqualFold(k, rawKey) || strings.EqualFold(k, norm) {
			return cfg, k, nil
		}
	}

	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return Config{}, "", &NotFoundError{Key: rawKey, Available: keys}
}
