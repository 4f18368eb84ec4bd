package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by entity type so different kinds never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// RecipeUUID returns the catalog identifier for a recipe slug.
func RecipeUUID(slug string) uuid.UUID {
	return UUID("go-recipemd:recipe:" + strings.ToLower(strings.TrimSpace(slug)))
}

// LocaleRecipeUUID scopes a recipe identifier to a locale so translated
// copies of the same slug get distinct rows.
func LocaleRecipeUUID(locale, slug string) uuid.UUID {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		return RecipeUUID(slug)
	}
	return UUID("go-recipemd:recipe:" + locale + ":" + strings.ToLower(strings.TrimSpace(slug)))
}
