package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"agreements-backend/internal/bootstrap"
	"agreements-backend/internal/queue"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{BodyLen: 0, BodySHA: ""}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrMissingS3Path indicates a message with no resolvable document path.
type ErrMissingS3Path struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingS3Path) Error() string { return "missing s3 path" }

// ErrProcess indicates processing failed after successful parsing.
type ErrProcess struct {
	S3Path    string
	RequestID string
	Err       error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process document"
	}
	return "process document: " + e.Err.Error()
}

// s3Notification is the EventBridge shape emitted on bucket uploads. Bucket
// upload events and queue messages share the same consumer.
type s3Notification struct {
	Source string `json:"source"`
	Detail struct {
		Object struct {
			Key string `json:"key"`
		} `json:"object"`
	} `json:"detail"`
}

// ParseMessage validates and decodes the queue payload. Both the native queue
// message and the raw S3 EventBridge notification are accepted.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(msg.S3Path) == "" {
		var note s3Notification
		if err := json.Unmarshal([]byte(body), &note); err == nil && note.Source == "aws.s3" {
			msg.S3Path = note.Detail.Object.Key
		}
	}
	if strings.TrimSpace(msg.S3Path) == "" {
		return msg, meta, ErrMissingS3Path{Meta: meta, RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

type parsedMessageKey struct{}

// WithParsedMessage stores a decoded message in the context for reuse.
func WithParsedMessage(ctx context.Context, msg queue.Message) context.Context {
	return context.WithValue(ctx, parsedMessageKey{}, msg)
}

func parsedMessageFromContext(ctx context.Context) (queue.Message, bool) {
	if ctx == nil {
		return queue.Message{}, false
	}
	msg, ok := ctx.Value(parsedMessageKey{}).(queue.Message)
	return msg, ok
}

// HandleMessage parses, validates, and processes a message payload.
func HandleMessage(ctx context.Context, app *bootstrap.App, body string) error {
	if app == nil || app.AgreementsService == nil {
		return errors.New("agreements service not configured")
	}

	msg, ok := parsedMessageFromContext(ctx)
	if !ok {
		var err error
		msg, _, err = ParseMessage(body)
		if err != nil {
			return err
		}
	}

	if strings.TrimSpace(msg.S3Path) == "" {
		return ErrMissingS3Path{Meta: ComputeMeta(body), RequestID: msg.RequestID}
	}

	if _, err := app.AgreementsService.ProcessDocument(ctx, msg.S3Path); err != nil {
		return ErrProcess{S3Path: msg.S3Path, RequestID: msg.RequestID, Err: err}
	}
	return nil
}
