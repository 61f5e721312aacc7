package masking

import "strings"

const maskToken = "****"

// personalKeys are metadata keys whose values identify a person.
var personalKeys = map[string]struct{}{
	"email":    {},
	"phone":    {},
	"whatsapp": {},
	"cpfcnpj":  {},
	"plate":    {},
	"password": {},
}

// MaskSecret redacts a value while keeping the last four characters.
func MaskSecret(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) <= 4 {
		return maskToken
	}
	return maskToken + trimmed[len(trimmed)-4:]
}

// MaskPersonal returns a copy of input with personal values redacted.
// Keys outside the personal set pass through untouched.
func MaskPersonal(input map[string]any) map[string]any {
	if len(input) == 0 {
		return nil
	}

	masked := make(map[string]any, len(input))
	for key, value := range input {
		trimmedKey := strings.TrimSpace(key)
		if trimmedKey == "" {
			continue
		}
		masked[trimmedKey] = maskValue(trimmedKey, value)
	}
	return masked
}

func maskValue(key string, value any) any {
	switch cast := value.(type) {
	case map[string]any:
		return MaskPersonal(cast)
	case string:
		if isPersonal(key) {
			return MaskSecret(cast)
		}
		return cast
	default:
		return value
	}
}

func isPersonal(key string) bool {
	_, ok := personalKeys[strings.ToLower(key)]
	return ok
}
