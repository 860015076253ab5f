package auth

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const (
	serviceName   = "whisperdesk"
	openaiAccount = "openai-api-key"
	openaiEnvVar  = "OPENAI_API_KEY"
)

// GetKey retrieves the OpenAI API key. The keychain wins over the
// environment. If allowEnv is false, environment variables are ignored.
func GetKey(allowEnv bool) (string, string) {
	key, err := keyring.Get(serviceName, openaiAccount)
	if err == nil && key != "" {
		return strings.TrimSpace(key), "Keychain"
	}

	if allowEnv {
		key = os.Getenv(openaiEnvVar)
		if key != "" {
			return strings.TrimSpace(key), "Environment Variable"
		}
	}

	return "", ""
}

// SaveKey saves the API key to the OS Keychain.
func SaveKey(key string) error {
	return keyring.Set(serviceName, openaiAccount, strings.TrimSpace(key))
}

// DeleteKey removes the API key from the OS Keychain.
func DeleteKey() error {
	return keyring.Delete(serviceName, openaiAccount)
}

// GetStatus returns whether a key exists in the keychain.
func GetStatus() bool {
	key, err := keyring.Get(serviceName, openaiAccount)
	return err == nil && key != ""
}

// PromptForAPIKey securely prompts the user for their API key.
func PromptForAPIKey(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println() // Add newline after password input
	return strings.TrimSpace(string(bytePassword)), nil
}

// GetEnvKey retrieves the key from environment variables only.
func GetEnvKey() (string, bool) {
	key := strings.TrimSpace(os.Getenv(openaiEnvVar))
	if key == "" {
		return "", false
	}
	return key, true
}
