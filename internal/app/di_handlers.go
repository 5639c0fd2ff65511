package app

import (
	"fmt"

	hashingHTTP "github.com/cipherapi/cipherapi/internal/hashing/http"
	historyHTTP "github.com/cipherapi/cipherapi/internal/history/http"
	identityHTTP "github.com/cipherapi/cipherapi/internal/identity/http"
	keysHTTP "github.com/cipherapi/cipherapi/internal/keys/http"
	payloadHTTP "github.com/cipherapi/cipherapi/internal/payload/http"
)

// HashHandler returns the hashing HTTP handler instance.
func (c *Container) HashHandler() (*hashingHTTP.HashHandler, error) {
	c.hashHandlerInit.Do(func() {
		c.hashHandler = hashingHTTP.NewHashHandler(c.HashService(), c.Logger())
	})
	return c.hashHandler, nil
}

// PayloadHandler returns the payload encryption HTTP handler instance.
func (c *Container) PayloadHandler() (*payloadHTTP.PayloadHandler, error) {
	var err error
	c.payloadHandlerInit.Do(func() {
		c.payloadHandler, err = c.initPayloadHandler()
		if err != nil {
			c.initErrors["payloadHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["payloadHandler"]; exists {
		return nil, storedErr
	}
	return c.payloadHandler, nil
}

// KeyHandler returns the key lifecycle HTTP handler instance.
func (c *Container) KeyHandler() (*keysHTTP.KeyHandler, error) {
	var err error
	c.keyHandlerInit.Do(func() {
		c.keyHandler, err = c.initKeyHandler()
		if err != nil {
			c.initErrors["keyHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyHandler"]; exists {
		return nil, storedErr
	}
	return c.keyHandler, nil
}

// OperationHandler returns the operation history HTTP handler instance.
func (c *Container) OperationHandler() (*historyHTTP.OperationHandler, error) {
	var err error
	c.operationHandlerInit.Do(func() {
		c.operationHandler, err = c.initOperationHandler()
		if err != nil {
			c.initErrors["operationHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["operationHandler"]; exists {
		return nil, storedErr
	}
	return c.operationHandler, nil
}

// IdentityHandler returns the identity introspection HTTP handler instance.
func (c *Container) IdentityHandler() (*identityHTTP.IdentityHandler, error) {
	var err error
	c.identityHandlerInit.Do(func() {
		c.identityHandler, err = c.initIdentityHandler()
		if err != nil {
			c.initErrors["identityHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["identityHandler"]; exists {
		return nil, storedErr
	}
	return c.identityHandler, nil
}

// initPayloadHandler creates the payload HTTP handler.
func (c *Container) initPayloadHandler() (*payloadHTTP.PayloadHandler, error) {
	payloadUC, err := c.PayloadUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get payload use case for payload handler: %w", err)
	}
	return payloadHTTP.NewPayloadHandler(payloadUC, c.Logger()), nil
}

// initKeyHandler creates the key HTTP handler.
func (c *Container) initKeyHandler() (*keysHTTP.KeyHandler, error) {
	keyUC, err := c.KeyUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get key use case for key handler: %w", err)
	}
	return keysHTTP.NewKeyHandler(keyUC, c.Logger()), nil
}

// initOperationHandler creates the operation HTTP handler.
func (c *Container) initOperationHandler() (*historyHTTP.OperationHandler, error) {
	operationUC, err := c.OperationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get operation use case for operation handler: %w", err)
	}
	return historyHTTP.NewOperationHandler(operationUC, c.Logger()), nil
}

// initIdentityHandler creates the identity HTTP handler.
func (c *Container) initIdentityHandler() (*identityHTTP.IdentityHandler, error) {
	whoAmIUC, err := c.WhoAmIUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get whoami use case for identity handler: %w", err)
	}
	return identityHTTP.NewIdentityHandler(whoAmIUC, c.Logger()), nil
}
