package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// The pricing service's RPC surface is a single unary method taking the
// flattened unit list. The service speaks a JSON payload encoding, so the
// call goes through Invoke with a JSON codec instead of generated stubs.
const processFruitsMethod = "/CartService/ProcessFruits"

type processFruitsRequest struct {
	Items []string `json:"items"`
}

// GRPCClient talks to the pricing service over gRPC.
type GRPCClient struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

func NewGRPCClient(addr string, timeout time.Duration) (*GRPCClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to pricing service: %w", err)
	}
	return &GRPCClient{conn: conn, timeout: timeout}, nil
}

func (c *GRPCClient) Price(ctx context.Context, items []string) (*Bill, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := processFruitsRequest{Items: items}
	var bill Bill
	err := c.conn.Invoke(ctx, processFruitsMethod, &req, &bill, grpc.ForceCodec(jsonCodec{}))
	if err != nil {
		return nil, fmt.Errorf("pricing rpc failed: %w", err)
	}
	return &bill, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return "json"
}
