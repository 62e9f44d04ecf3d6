package gocommand

import (
	"context"
	"testing"

	"github.com/goliatone/go-command"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
	oauthcommand "github.com/goliatone/go-oauth-store/command"
	oauthquery "github.com/goliatone/go-oauth-store/query"
)

type invalidMessage struct{}

func (invalidMessage) Type() string { return "" }

type dispatchMessage struct {
	ID string
}

func (dispatchMessage) Type() string { return "oauthstore.test.dispatch" }

type lookupMessage struct {
	ClientID string
}

func (lookupMessage) Type() string { return "oauthstore.test.lookup" }

type queueMessage struct{}

func (queueMessage) Type() string { return "oauthstore.test.queue" }

func TestValidateMessageContract(t *testing.T) {
	if err := ValidateMessageContract(oauthcommand.PruneMessage{}); err != nil {
		t.Fatalf("expected prune message to be valid, got %v", err)
	}
	if err := ValidateMessageContract(invalidMessage{}); err == nil {
		t.Fatalf("expected empty type to fail contract validation")
	}
	if err := ValidateMessageContract(oauthcommand.PruneMessage{Target: "scopes"}); err == nil {
		t.Fatalf("expected Validate() failure to bubble")
	}
	if err := ValidateMessageContract(oauthquery.FindTokenMessage{}); err == nil {
		t.Fatalf("expected blank reference id to fail validation")
	}
}

func TestRegistryAndDispatchWiring(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	executed := 0

	cmd := command.CommandFunc[dispatchMessage](func(_ context.Context, msg dispatchMessage) error {
		if msg.ID != "m1" {
			t.Fatalf("unexpected message id %q", msg.ID)
		}
		executed++
		return nil
	})
	sub, err := RegisterAndSubscribe(adapter, cmd)
	if err != nil {
		t.Fatalf("register and subscribe: %v", err)
	}
	defer sub.Unsubscribe()

	qry := command.QueryFunc[lookupMessage, string](func(_ context.Context, msg lookupMessage) (string, error) {
		return "app-for-" + msg.ClientID, nil
	})
	querySub, err := RegisterAndSubscribeQuery(adapter, qry)
	if err != nil {
		t.Fatalf("register and subscribe query: %v", err)
	}
	defer querySub.Unsubscribe()

	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}
	if err := Dispatch(context.Background(), dispatchMessage{ID: "m1"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if executed != 1 {
		t.Fatalf("expected command execution count=1, got %d", executed)
	}
	got, err := Query[lookupMessage, string](context.Background(), lookupMessage{ClientID: "svc"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if got != "app-for-svc" {
		t.Fatalf("unexpected query result %q", got)
	}
}

func TestQueueResolverHookWiring(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	queueRegistry := jobqueuecommand.NewRegistry()

	cmd := command.CommandFunc[queueMessage](func(context.Context, queueMessage) error { return nil })

	if err := adapter.AddQueueResolver("queue", queueRegistry); err != nil {
		t.Fatalf("add queue resolver: %v", err)
	}
	if err := adapter.Register(cmd); err != nil {
		t.Fatalf("register command: %v", err)
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}
	if _, ok := queueRegistry.Get("oauthstore.test.queue"); !ok {
		t.Fatalf("expected command to be mirrored into queue registry")
	}
}

func TestRegisterService_RequiresService(t *testing.T) {
	if _, err := RegisterService(NewRegistryAdapter(nil), nil); err == nil {
		t.Fatalf("expected nil service to be rejected")
	}
	var adapter *RegistryAdapter
	if err := adapter.Register(struct{}{}); err == nil {
		t.Fatalf("expected nil adapter to reject registration")
	}
}
