package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"

	"mediabridge/internal/convert"
)

// DialTimeout bounds how long Dial waits for the socket.
const DialTimeout = 2 * time.Second

// Client is a connection to the daemon's IPC socket. It is safe for
// concurrent use; calls are multiplexed by net/rpc.
type Client struct {
	rpc *rpc.Client
}

// Dial connects to the IPC server at path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, DialTimeout)
	if err != nil {
		return nil, err
	}
	return &Client{rpc: rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.rpc.Close()
}

func call[Resp any](c *Client, method string, req any) (*Resp, error) {
	resp := new(Resp)
	if err := c.rpc.Call(ServiceName+"."+method, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Convert runs a conversion in the daemon and waits for it to finish.
func (c *Client) Convert(req convert.Request) (*ConvertResponse, error) {
	return call[ConvertResponse](c, "Convert", ConvertRequest{Request: req})
}

// Formats returns the supported format table.
func (c *Client) Formats() (*FormatsResponse, error) {
	return call[FormatsResponse](c, "Formats", FormatsRequest{})
}

// EncoderCheck probes the encoder from the daemon's point of view.
func (c *Client) EncoderCheck() (*EncoderCheckResponse, error) {
	return call[EncoderCheckResponse](c, "EncoderCheck", EncoderCheckRequest{})
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	return call[StatusResponse](c, "Status", StatusRequest{})
}

// Shutdown asks the daemon process to exit.
func (c *Client) Shutdown() (*ShutdownResponse, error) {
	return call[ShutdownResponse](c, "Shutdown", ShutdownRequest{})
}
