package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
)

// Key identifies the inputs a result was computed from.
type Key struct {
	Content string
	Config  string
}

// ContentHash hashes file content.
func ContentHash(src string) string {
	sum := sha256.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}

// ConfigHash hashes everything besides file content that changes results:
// the tool version, the dispatched rule IDs and the lint configuration.
// Map keys are marshaled sorted, so equal configurations hash equally.
func ConfigHash(version string, rules []string, cfg any) (string, error) {
	rules = slices.Sorted(slices.Values(rules))
	data, err := json.Marshal(struct {
		Version string
		Rules   []string
		Config  any
	}{version, rules, cfg})
	if err != nil {
		return "", fmt.Errorf("hash config: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
