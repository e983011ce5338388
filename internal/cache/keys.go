package cache

import "strings"

const (
	GlobalKeyPrefix = "trainhub"
)

// Key namespaces used by the services.
const (
	ServiceQuiz = "quiz"
	ServiceAuth = "auth"

	TypeSession = "session"
	TypeRevoked = "revoked"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// QuizSessionKey is where a quiz session snapshot is stored.
func QuizSessionKey(sessionID string) string {
	return GenerateCacheKey(ServiceQuiz, TypeSession, sessionID)
}

// RevokedTokenKey marks a signed-out token id.
func RevokedTokenKey(tokenID string) string {
	return GenerateCacheKey(ServiceAuth, TypeRevoked, tokenID)
}
