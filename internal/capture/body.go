// Package capture records raw HTTP error response bodies from SDK calls.
//
// The SDK's deserializers consume the response body when they build an API
// error, and errors the SDK cannot model keep only a code and message. The
// middleware here sits between the transport and the operation deserializer,
// buffers the body of any non-2xx response, and hands an identical body on to
// the deserializer.
package capture

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// MiddlewareID is the identifier of the capture middleware in the deserialize step.
const MiddlewareID = "CaptureErrorBody"

// Body holds the last captured error response of a single call.
type Body struct {
	mu         sync.Mutex
	data       []byte
	statusCode int
}

// Bytes returns the captured body, or nil if no error response was seen.
func (b *Body) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data
}

// StatusCode returns the HTTP status of the captured response, or 0.
func (b *Body) StatusCode() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.statusCode
}

func (b *Body) set(statusCode int, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statusCode = statusCode
	b.data = data
}

// WithErrorBody returns a per-call option that records error response bodies into b.
// Retried attempts overwrite earlier captures, so b holds the final attempt.
func WithErrorBody(b *Body) func(*s3.Options) {
	return func(o *s3.Options) {
		o.APIOptions = append(o.APIOptions, func(stack *middleware.Stack) error {
			return stack.Deserialize.Add(&errorBodyMiddleware{body: b}, middleware.After)
		})
	}
}

type errorBodyMiddleware struct {
	body *Body
}

func (*errorBodyMiddleware) ID() string {
	return MiddlewareID
}

func (m *errorBodyMiddleware) HandleDeserialize(
	ctx context.Context,
	in middleware.DeserializeInput,
	next middleware.DeserializeHandler,
) (middleware.DeserializeOutput, middleware.Metadata, error) {
	out, metadata, err := next.HandleDeserialize(ctx, in)
	if err != nil {
		return out, metadata, err
	}

	resp, ok := out.RawResponse.(*smithyhttp.Response)
	if !ok || resp == nil || resp.Response == nil || resp.Body == nil {
		return out, metadata, nil
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return out, metadata, nil
	}

	// A failed read keeps what arrived; the deserializer reports the error response either way.
	data, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	m.body.set(resp.StatusCode, data)
	resp.Body = io.NopCloser(bytes.NewReader(data))

	return out, metadata, nil
}
