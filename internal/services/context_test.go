package services_test

import (
	"context"
	"testing"

	"voiceapp/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithConversationID(ctx, 42)
	ctx = services.WithOperation(ctx, "analyze")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.ConversationIDFromContext(ctx); !ok || id != 42 {
		t.Fatalf("unexpected conversation id: %v %v", id, ok)
	}
	if op, ok := services.OperationFromContext(ctx); !ok || op != "analyze" {
		t.Fatalf("unexpected operation: %v %v", op, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithOperation(ctx, "")
	ctx = services.WithRequestID(ctx, "")
	if _, ok := services.OperationFromContext(ctx); ok {
		t.Fatal("expected no operation value")
	}
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id value")
	}
	if _, ok := services.ConversationIDFromContext(ctx); ok {
		t.Fatal("expected no conversation id value")
	}
}
