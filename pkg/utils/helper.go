package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ParseID parses a positive integer path identifier
func ParseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

func ParseSessionToken(token string) (uuid.UUID, error) {
	return uuid.Parse(token)
}
