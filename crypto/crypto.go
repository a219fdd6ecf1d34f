package crypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/goccy/go-json"
	"github.com/siphondata/siphon/constants"
	"github.com/spf13/viper"
)

var (
	kmsClient *kms.Client
	localKey  []byte
	useKMS    bool
	disabled  bool
	once      sync.Once
)

// Init resolves the decryption mode from ENCRYPTION_KEY: a KMS ARN uses
// AWS KMS, any other non-empty value derives a local AES-GCM key, an
// empty value disables decryption entirely.
func Init() error {
	var initErr error

	once.Do(func() {
		key := viper.GetString(constants.EncryptionKey)
		if strings.TrimSpace(key) == "" {
			disabled = true
			return
		}

		if strings.HasPrefix(key, "arn:aws:kms:") {
			cfg, err := config.LoadDefaultConfig(context.Background())
			if err != nil {
				initErr = fmt.Errorf("failed to load AWS config: %s", err)
				return
			}
			kmsClient = kms.NewFromConfig(cfg)
			useKMS = true
			return
		}

		hash := sha256.Sum256([]byte(key))
		localKey = hash[:]
	})

	return initErr
}

func Decrypt(cipherData []byte) (string, error) {
	if err := Init(); err != nil {
		return "", fmt.Errorf("decryption failed: %s", err)
	}

	if disabled {
		return string(cipherData), nil
	}

	if useKMS {
		out, err := kmsClient.Decrypt(context.Background(), &kms.DecryptInput{
			CiphertextBlob: cipherData,
		})
		if err != nil {
			return "", fmt.Errorf("decryption failed: %s", err)
		}
		return string(out.Plaintext), nil
	}

	block, err := aes.NewCipher(localKey)
	if err != nil {
		return "", err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonceSize := aead.NonceSize()
	if len(cipherData) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := cipherData[:nonceSize], cipherData[nonceSize:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %s", err)
	}

	return string(plaintext), nil
}

// DecryptConfig turns an encrypted source-config payload back into its
// JSON form. Plain configs pass through untouched when decryption is
// disabled.
func DecryptConfig(encryptedConfig string) (string, error) {
	if err := Init(); err != nil {
		return "", err
	}
	if disabled {
		return encryptedConfig, nil
	}

	var unquoted string
	if err := json.Unmarshal([]byte(encryptedConfig), &unquoted); err != nil {
		// already unquoted
		unquoted = encryptedConfig
	}

	encryptedData, err := base64.URLEncoding.DecodeString(unquoted)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64 data: %s", err)
	}

	decrypted, err := Decrypt(encryptedData)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt data: %s", err)
	}

	return decrypted, nil
}
