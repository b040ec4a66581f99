package main

import (
	"context"
	"errors"
	"testing"

	"matchscore-backend/internal/queue"
)

type fakeDeleter struct {
	deleted []string
}

func (f *fakeDeleter) Delete(ctx context.Context, receiptHandle string) error {
	_ = ctx
	f.deleted = append(f.deleted, receiptHandle)
	return nil
}

type fakeProcessor struct {
	err   error
	calls []string
}

func (f *fakeProcessor) Process(ctx context.Context, scanID string) error {
	_ = ctx
	f.calls = append(f.calls, scanID)
	return f.err
}

func TestHandleMessageDeletesAfterSuccess(t *testing.T) {
	proc := &fakeProcessor{}
	del := &fakeDeleter{}

	rec := queue.Received{
		Message:       queue.Message{ScanID: "scan-1", RequestID: "req-1"},
		ReceiptHandle: "receipt-1",
	}
	handleMessage(context.Background(), proc, del, rec)

	if len(proc.calls) != 1 || proc.calls[0] != "scan-1" {
		t.Fatalf("processor calls = %v", proc.calls)
	}
	if len(del.deleted) != 1 || del.deleted[0] != "receipt-1" {
		t.Fatalf("deleted = %v", del.deleted)
	}
}

func TestHandleMessageDeletesAfterFailure(t *testing.T) {
	proc := &fakeProcessor{err: errors.New("llm unavailable")}
	del := &fakeDeleter{}

	rec := queue.Received{
		Message:       queue.Message{ScanID: "scan-2"},
		ReceiptHandle: "receipt-2",
	}
	handleMessage(context.Background(), proc, del, rec)

	if len(del.deleted) != 1 {
		t.Fatalf("expected message deleted after failure, got %v", del.deleted)
	}
}

func TestHandleMessageSkipsProcessingWithoutScanID(t *testing.T) {
	proc := &fakeProcessor{}
	del := &fakeDeleter{}

	rec := queue.Received{
		Message:       queue.Message{RequestID: "req-3"},
		ReceiptHandle: "receipt-3",
	}
	handleMessage(context.Background(), proc, del, rec)

	if len(proc.calls) != 0 {
		t.Fatalf("processor should not run without a scan id, calls = %v", proc.calls)
	}
	if len(del.deleted) != 1 {
		t.Fatalf("expected malformed message deleted, got %v", del.deleted)
	}
}
