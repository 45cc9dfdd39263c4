package app

import (
	"context"
	"errors"
	"fmt"

	cryptoDomain "github.com/allisson/promptguard/internal/crypto/domain"
	cryptoService "github.com/allisson/promptguard/internal/crypto/service"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = c.initKMSService()
	})
	return c.kmsService
}

// MasterKeyChain returns the master key chain used to derive per-user audit keys.
func (c *Container) MasterKeyChain() (*cryptoDomain.MasterKeyChain, error) {
	var err error
	c.masterKeyChainInit.Do(func() {
		c.masterKeyChain, err = c.initMasterKeyChain()
		if err != nil {
			c.initErrors["masterKeyChain"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterKeyChain"]; exists {
		return nil, storedErr
	}
	return c.masterKeyChain, nil
}

// MessageCipher returns the cipher that encrypts original inquiry messages.
func (c *Container) MessageCipher() (cryptoService.MessageCipher, error) {
	var err error
	c.messageCipherInit.Do(func() {
		c.messageCipher, err = c.initMessageCipher()
		if err != nil {
			c.initErrors["messageCipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["messageCipher"]; exists {
		return nil, storedErr
	}
	return c.messageCipher, nil
}

// initKMSService creates the KMS service for unwrapping master keys.
func (c *Container) initKMSService() cryptoService.KMSService {
	return cryptoService.NewKMSService()
}

// initMasterKeyChain loads the master key chain from environment variables.
//
// When MASTER_KEYS is not set and the service is not running in production, a
// deterministic development chain is synthesized so the service can start
// without real key material. Production startup without real keys fails.
func (c *Container) initMasterKeyChain() (*cryptoDomain.MasterKeyChain, error) {
	logger := c.Logger()

	var decrypter cryptoDomain.KMSDecrypter
	if c.config.KMSKeyURI != "" {
		keeper, err := c.KMSService().OpenKeeper(context.Background(), c.config.KMSKeyURI)
		if err != nil {
			return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
		}
		decrypter = keeper
	}

	masterKeyChain, err := cryptoDomain.LoadMasterKeyChainFromEnv(context.Background(), decrypter)
	if err != nil {
		if errors.Is(err, cryptoDomain.ErrMasterKeysNotSet) && !c.config.IsProduction() {
			logger.Warn("MASTER_KEYS not set, using deterministic development keys; " +
				"never run this configuration in production")
			return cryptoDomain.NewDevMasterKeyChain(1), nil
		}
		return nil, fmt.Errorf("failed to load master key chain: %w", err)
	}
	return masterKeyChain, nil
}

// initMessageCipher creates the message cipher using the master key chain.
func (c *Container) initMessageCipher() (cryptoService.MessageCipher, error) {
	masterKeyChain, err := c.MasterKeyChain()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key chain for message cipher: %w", err)
	}
	return cryptoService.NewMessageCipher(masterKeyChain), nil
}
