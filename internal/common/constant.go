package common

// DefaultAppName prefixes the logical names used in secure storage.
const DefaultAppName = "securepass"

// KeyName returns the logical name of the vault encryption key.
func KeyName(app string) string { return app + ".encryption.key" }

// PayloadName returns the logical name of the encrypted pass collection.
func PayloadName(app string) string { return app + ".pass.payload" }

// PasscodeName holds the enrolled device passcode as salt || verifier.
func PasscodeName(app string) string { return app + ".passcode" }
