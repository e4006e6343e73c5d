// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
)

// DefaultRPCTimeout bounds a single node call when the caller sets no
// timeout.
const DefaultRPCTimeout = 30 * time.Second

// RPCClientConfig describes the connection to a zcashd compatible node.
type RPCClientConfig struct {
	// Host is the host:port of the node RPC server.
	Host string

	User string
	Pass string

	// Timeout bounds every call on top of the caller's context.  Zero
	// selects DefaultRPCTimeout.
	Timeout time.Duration
}

// RPCClient talks JSON-RPC over HTTP POST to a zcashd compatible node.  It
// fetches raw transactions and asks the node wallet to trial decrypt them.
type RPCClient struct {
	client  *rpcclient.Client
	timeout time.Duration
}

// NewRPCClient creates a client for the node described by cfg.  No
// connection is made until the first call.
func NewRPCClient(cfg *RPCClientConfig) (*RPCClient, error) {
	client, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:                cfg.Host,
		User:                cfg.User,
		Pass:                cfg.Pass,
		DisableConnectOnNew: true,
		DisableTLS:          true,
		HTTPPostMode:        true,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("creating RPC client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultRPCTimeout
	}

	return &RPCClient{
		client:  client,
		timeout: timeout,
	}, nil
}

// Stop shuts the client down and waits for outstanding requests to finish.
func (c *RPCClient) Stop() {
	c.client.Shutdown()
	c.client.WaitForShutdown()
}

// call issues method with params and unmarshals the result into result.  The
// call is abandoned when ctx is done or the client timeout expires.
func (c *RPCClient) call(ctx context.Context, result interface{},
	method string, params ...interface{}) error {

	rawParams := make([]json.RawMessage, 0, len(params))
	for _, p := range params {
		b, err := json.Marshal(p)
		if err != nil {
			return err
		}
		rawParams = append(rawParams, b)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	log.Tracef("Calling %s with %d params", method, len(params))

	future := c.client.RawRequestAsync(method, rawParams)

	type reply struct {
		raw json.RawMessage
		err error
	}
	done := make(chan reply, 1)
	go func() {
		raw, err := future.Receive()
		done <- reply{raw, err}
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", method, ctx.Err())

	case r := <-done:
		if r.err != nil {
			return fmt.Errorf("%s: %w", method, MapRPCErr(r.err))
		}
		if err := json.Unmarshal(r.raw, result); err != nil {
			return fmt.Errorf("%s: %w: %v", method,
				ErrMalformedResponse, err)
		}
		return nil
	}
}
