// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"
)

const (
	testUser = "auditor"
	testPass = "hunter2"

	testTxID = "5d8ce3a0c4a2b3e1f2a0c4d5e6f708192a3b4c5d6e7f8091a2b3c4d5e6f70819"
)

// nodeHandler answers one RPC method.
type nodeHandler func(params []json.RawMessage) (interface{},
	*btcjson.RPCError)

// fakeNode is a minimal JSON-RPC server standing in for zcashd.
type fakeNode struct {
	t *testing.T

	mu       sync.Mutex
	handlers map[string]nodeHandler
	calls    map[string][]json.RawMessage
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, pass, ok := r.BasicAuth()
	if !ok || user != testUser || pass != testPass {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req struct {
		ID     json.RawMessage   `json:"id"`
		Method string            `json:"method"`
		Params []json.RawMessage `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	handler, ok := n.handlers[req.Method]
	n.calls[req.Method] = req.Params
	n.mu.Unlock()

	var (
		result interface{}
		rpcErr *btcjson.RPCError
	)
	if ok {
		result, rpcErr = handler(req.Params)
	} else {
		rpcErr = btcjson.NewRPCError(btcjson.ErrRPCMethodNotFound.Code,
			"Method not found")
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]interface{}{
		"id":     req.ID,
		"result": result,
		"error":  rpcErr,
	})
	require.NoError(n.t, err)
}

// lastParams returns the params of the last call to method.
func (n *fakeNode) lastParams(method string) []json.RawMessage {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.calls[method]
}

// newTestClient starts a fake node with handlers and returns a client
// connected to it.
func newTestClient(t *testing.T, timeout time.Duration,
	handlers map[string]nodeHandler) (*RPCClient, *fakeNode) {

	t.Helper()

	node := &fakeNode{
		t:        t,
		handlers: handlers,
		calls:    make(map[string][]json.RawMessage),
	}
	server := httptest.NewServer(node)
	t.Cleanup(server.Close)

	client, err := NewRPCClient(&RPCClientConfig{
		Host:    strings.TrimPrefix(server.URL, "http://"),
		User:    testUser,
		Pass:    testPass,
		Timeout: timeout,
	})
	require.NoError(t, err)
	t.Cleanup(client.Stop)

	return client, node
}

// TestFetchTransaction checks the mapping of getrawtransaction replies.
func TestFetchTransaction(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		reply  map[string]interface{}
		height fn.Option[uint32]
	}{
		{
			name: "mined",
			reply: map[string]interface{}{
				"hex":    "0500008001",
				"height": 2_976_650,
			},
			height: fn.Some(uint32(2_976_650)),
		},
		{
			name: "mempool without height",
			reply: map[string]interface{}{
				"hex": "0500008001",
			},
			height: fn.None[uint32](),
		},
		{
			name: "mempool with negative height",
			reply: map[string]interface{}{
				"hex":    "0500008001",
				"height": -1,
			},
			height: fn.None[uint32](),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Arrange: a node that knows the transaction.
			client, node := newTestClient(t, 0, map[string]nodeHandler{
				"getrawtransaction": func(
					[]json.RawMessage) (interface{},
					*btcjson.RPCError) {

					return tc.reply, nil
				},
			})

			// Act: fetch it.
			tx, err := client.FetchTransaction(
				context.Background(), testTxID,
			)

			// Assert: bytes and height come back and the verbose
			// form was requested.
			require.NoError(t, err)
			require.Equal(t, []byte{0x05, 0x00, 0x00, 0x80, 0x01},
				tx.Bytes)
			require.Equal(t, tc.height, tx.Height)

			params := node.lastParams("getrawtransaction")
			require.Len(t, params, 2)
			require.JSONEq(t, `"`+testTxID+`"`, string(params[0]))
			require.JSONEq(t, `1`, string(params[1]))
		})
	}
}

// TestFetchTransactionErrors checks the failure modes of FetchTransaction.
func TestFetchTransactionErrors(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, 0, map[string]nodeHandler{
		"getrawtransaction": func(params []json.RawMessage) (
			interface{}, *btcjson.RPCError) {

			var txid string
			require.NoError(t, json.Unmarshal(params[0], &txid))
			if txid == testTxID {
				return map[string]interface{}{"hex": "zz"}, nil
			}
			return nil, btcjson.NewRPCError(
				btcjson.ErrRPCInvalidAddressOrKey,
				"No such mempool or blockchain transaction",
			)
		},
	})
	ctx := context.Background()

	_, err := client.FetchTransaction(ctx, strings.Repeat("0", 64))
	require.ErrorIs(t, err, ErrTxNotFound)

	_, err = client.FetchTransaction(ctx, testTxID)
	require.ErrorIs(t, err, ErrMalformedResponse)

	_, err = client.FetchTransaction(ctx, "not-a-txid")
	require.Error(t, err)
}

// TestCallTimeout checks that a stalled node call is abandoned once the
// client timeout expires.
func TestCallTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	client, _ := newTestClient(t, 50*time.Millisecond,
		map[string]nodeHandler{
			"getrawtransaction": func([]json.RawMessage) (
				interface{}, *btcjson.RPCError) {

				<-release
				return nil, nil
			},
		},
	)
	t.Cleanup(func() { close(release) })

	_, err := client.FetchTransaction(context.Background(), testTxID)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
