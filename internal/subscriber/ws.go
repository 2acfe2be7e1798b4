package subscriber

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
)

// WSFeed subscribes to program logs over the Solana websocket API.
type WSFeed struct {
	url     string
	program solana.PublicKey
}

func NewWSFeed(url string, program solana.PublicKey) *WSFeed {
	return &WSFeed{url: url, program: program}
}

func (f *WSFeed) Subscribe(ctx context.Context) (Subscription, error) {
	client, err := ws.Connect(ctx, f.url)
	if err != nil {
		return nil, err
	}

	sub, err := client.LogsSubscribeMentions(f.program, rpc.CommitmentConfirmed)
	if err != nil {
		client.Close()
		return nil, err
	}

	return &wsSubscription{client: client, sub: sub}, nil
}

type wsSubscription struct {
	client *ws.Client
	sub    *ws.LogSubscription
}

func (s *wsSubscription) Recv(ctx context.Context) (*Event, error) {
	result, err := s.sub.Recv(ctx)
	if err != nil {
		return nil, err
	}
	return &Event{
		Signature: result.Value.Signature.String(),
		Logs:      result.Value.Logs,
		Err:       result.Value.Err,
	}, nil
}

func (s *wsSubscription) Unsubscribe() {
	s.sub.Unsubscribe()
	s.client.Close()
}
