package app

import (
	"fmt"

	cryptoService "github.com/cipherapi/cipherapi/internal/crypto/service"
)

// AEADManager returns the AEAD cipher factory.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KMSService returns the KMS service instance.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// MasterKeySource returns the master key source. When a KMS key URI is
// configured the master key is decrypted through the KMS keeper, otherwise it
// is read directly from the environment.
func (c *Container) MasterKeySource() cryptoService.MasterKeySource {
	c.masterKeySourceInit.Do(func() {
		if c.config.KMSKeyURI != "" {
			c.masterKeySource = cryptoService.NewKMSMasterKeySource(c.KMSService(), c.config.KMSKeyURI)
			return
		}
		c.masterKeySource = cryptoService.NewEnvMasterKeySource()
	})
	return c.masterKeySource
}

// KeyWrapper returns the key wrapping service instance.
func (c *Container) KeyWrapper() (cryptoService.KeyWrapper, error) {
	var err error
	c.keyWrapperInit.Do(func() {
		c.keyWrapper, err = c.initKeyWrapper()
		if err != nil {
			c.initErrors["keyWrapper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyWrapper"]; exists {
		return nil, storedErr
	}
	return c.keyWrapper, nil
}

// initKeyWrapper creates the key wrapping service.
func (c *Container) initKeyWrapper() (cryptoService.KeyWrapper, error) {
	source := c.MasterKeySource()
	if source == nil {
		return nil, fmt.Errorf("failed to create master key source for key wrapper")
	}
	return cryptoService.NewKeyWrapService(source, c.AEADManager()), nil
}
