package lambda

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"serverless-adapter-kit/pkg/normalize"
)

func normalizeRequest(t *testing.T, req *http.Request) *normalize.Request {
	t.Helper()
	n, err := normalize.Normalize(req)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	return n
}

func TestToEventNullVersusEmpty(t *testing.T) {
	t.Run("no query string yields nil maps", func(t *testing.T) {
		n := normalizeRequest(t, httptest.NewRequest("GET", "http://example.com/users/42", nil))
		event := ToEvent(n, nil)

		if event.QueryStringParameters != nil {
			t.Errorf("QueryStringParameters = %v, want nil", event.QueryStringParameters)
		}
		if event.MultiValueQueryStringParameters != nil {
			t.Errorf("MultiValueQueryStringParameters = %v, want nil", event.MultiValueQueryStringParameters)
		}
		if event.PathParameters != nil {
			t.Errorf("PathParameters = %v, want nil for unmatched route", event.PathParameters)
		}
	})

	t.Run("query present yields non-nil maps", func(t *testing.T) {
		n := normalizeRequest(t, httptest.NewRequest("GET", "http://example.com/items?a=1", nil))
		event := ToEvent(n, nil)

		if got := event.QueryStringParameters["a"]; got != "1" {
			t.Errorf("QueryStringParameters[a] = %q, want %q", got, "1")
		}
	})

	t.Run("matched route with zero params yields empty non-nil map", func(t *testing.T) {
		n := normalizeRequest(t, httptest.NewRequest("GET", "http://example.com/health", nil))
		event := ToEvent(n, map[string]string{})

		if event.PathParameters == nil {
			t.Error("PathParameters should be non-nil for a matched route")
		}
		if len(event.PathParameters) != 0 {
			t.Errorf("PathParameters = %v, want empty", event.PathParameters)
		}
	})
}

func TestToEventMultiValueQuery(t *testing.T) {
	n := normalizeRequest(t, httptest.NewRequest("GET", "http://example.com/items?tag=a&tag=b", nil))
	event := ToEvent(n, nil)

	if got := event.QueryStringParameters["tag"]; got != "a" {
		t.Errorf("single-value map took %q, want first occurrence %q", got, "a")
	}
	if got := event.MultiValueQueryStringParameters["tag"]; !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("multi-value map = %v, want [a b]", got)
	}
}

func TestToEventBody(t *testing.T) {
	t.Run("text body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "http://example.com/x", bytes.NewBufferString(`{"a":1}`))
		req.Header.Set("Content-Type", "application/json")
		event := ToEvent(normalizeRequest(t, req), nil)

		if event.IsBase64Encoded {
			t.Error("JSON body should not be base64-encoded")
		}
		if event.Body != `{"a":1}` {
			t.Errorf("Body = %q", event.Body)
		}
	})

	t.Run("binary body", func(t *testing.T) {
		payload := []byte{0x89, 0x50, 0x4E, 0x47, 0x00, 0xFF}
		req := httptest.NewRequest("POST", "http://example.com/x", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "image/png")
		event := ToEvent(normalizeRequest(t, req), nil)

		if !event.IsBase64Encoded {
			t.Fatal("binary body should be base64-encoded")
		}
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			t.Fatalf("decoding event body: %v", err)
		}
		if !bytes.Equal(decoded, payload) {
			t.Errorf("decoded body = %v, want %v", decoded, payload)
		}
	})
}

func TestInvocationContextRemainingTime(t *testing.T) {
	ic := NewInvocationContext(100 * time.Millisecond)

	if ic.RequestID == "" {
		t.Error("expected a generated request ID")
	}

	first := ic.RemainingTime()
	if first <= 0 || first > 100*time.Millisecond {
		t.Errorf("initial remaining time = %v", first)
	}

	time.Sleep(10 * time.Millisecond)
	second := ic.RemainingTime()
	if second >= first {
		t.Errorf("remaining time did not decrease: %v then %v", first, second)
	}
}

func TestInvocationContextAttach(t *testing.T) {
	ic := NewInvocationContext(time.Second)
	ctx, cancel := ic.Attach(context.Background())
	defer cancel()

	lc, ok := lambdacontext.FromContext(ctx)
	if !ok {
		t.Fatal("lambda context missing")
	}
	if lc.AwsRequestID != ic.RequestID {
		t.Errorf("AwsRequestID = %q, want %q", lc.AwsRequestID, ic.RequestID)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("deadline missing")
	}
	want := ic.Start.Add(ic.Budget)
	if !deadline.Equal(want) {
		t.Errorf("deadline = %v, want %v", deadline, want)
	}
}

func TestWriteResponse(t *testing.T) {
	t.Run("headers and cookies preserved", func(t *testing.T) {
		rec := httptest.NewRecorder()
		err := WriteResponse(rec, events.APIGatewayProxyResponse{
			StatusCode: 201,
			Headers:    map[string]string{"X-Single": "one"},
			MultiValueHeaders: map[string][]string{
				"Set-Cookie": {"a=1; Path=/", "b=2; Path=/"},
			},
			Body: "created",
		})
		if err != nil {
			t.Fatalf("WriteResponse: %v", err)
		}

		if rec.Code != 201 {
			t.Errorf("status = %d", rec.Code)
		}
		if got := rec.Header().Get("X-Single"); got != "one" {
			t.Errorf("X-Single = %q", got)
		}
		cookies := rec.Header().Values("Set-Cookie")
		if !reflect.DeepEqual(cookies, []string{"a=1; Path=/", "b=2; Path=/"}) {
			t.Errorf("Set-Cookie = %v", cookies)
		}
		if rec.Body.String() != "created" {
			t.Errorf("body = %q", rec.Body.String())
		}
	})

	t.Run("zero status defaults to 200", func(t *testing.T) {
		rec := httptest.NewRecorder()
		if err := WriteResponse(rec, events.APIGatewayProxyResponse{Body: "ok"}); err != nil {
			t.Fatalf("WriteResponse: %v", err)
		}
		if rec.Code != 200 {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("base64 body decoded", func(t *testing.T) {
		payload := []byte{0x00, 0x01, 0xFF}
		rec := httptest.NewRecorder()
		err := WriteResponse(rec, events.APIGatewayProxyResponse{
			StatusCode:      200,
			Body:            base64.StdEncoding.EncodeToString(payload),
			IsBase64Encoded: true,
		})
		if err != nil {
			t.Fatalf("WriteResponse: %v", err)
		}
		if !bytes.Equal(rec.Body.Bytes(), payload) {
			t.Errorf("body = %v, want %v", rec.Body.Bytes(), payload)
		}
	})

	t.Run("malformed base64 fails before writing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		err := WriteResponse(rec, events.APIGatewayProxyResponse{
			Body:            "not base64 !!!",
			IsBase64Encoded: true,
		})
		if err == nil {
			t.Fatal("expected decode error")
		}
		if rec.Body.Len() != 0 {
			t.Errorf("partial body written: %q", rec.Body.String())
		}
	})
}

func TestAdapterRoundTrip(t *testing.T) {
	echo := func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		body, err := json.Marshal(event)
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}
		return events.APIGatewayProxyResponse{
			StatusCode: 200,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       string(body),
		}, nil
	}

	a, err := New(echo, WithRoutes("/users/:id"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	req := httptest.NewRequest("POST", "http://example.com/users/42?verbose=1", bytes.NewBufferString("hello"))
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Trace", "t-1")
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var event events.APIGatewayProxyRequest
	if err := json.Unmarshal(rec.Body.Bytes(), &event); err != nil {
		t.Fatalf("unmarshaling echoed event: %v", err)
	}
	if event.HTTPMethod != "POST" || event.Path != "/users/42" {
		t.Errorf("method/path = %s %s", event.HTTPMethod, event.Path)
	}
	if event.Headers["x-trace"] != "t-1" {
		t.Errorf("headers = %v", event.Headers)
	}
	if event.PathParameters["id"] != "42" {
		t.Errorf("PathParameters = %v", event.PathParameters)
	}
	if event.QueryStringParameters["verbose"] != "1" {
		t.Errorf("QueryStringParameters = %v", event.QueryStringParameters)
	}
	if event.Body != "hello" || event.IsBase64Encoded {
		t.Errorf("body = %q, base64 = %v", event.Body, event.IsBase64Encoded)
	}
}

func TestAdapterBinaryFidelity(t *testing.T) {
	// Echo the inbound payload back through the base64 pair.
	echo := func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return events.APIGatewayProxyResponse{
			StatusCode:      200,
			Headers:         map[string]string{"Content-Type": "image/png"},
			Body:            event.Body,
			IsBase64Encoded: event.IsBase64Encoded,
		}, nil
	}

	a, err := New(echo)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	payload := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0xDE, 0xAD, 0xBE, 0xEF}
	req := httptest.NewRequest("POST", "http://example.com/img", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "image/png")
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !bytes.Equal(rec.Body.Bytes(), payload) {
		t.Errorf("round-tripped bytes differ: %v != %v", rec.Body.Bytes(), payload)
	}
}

func TestAdapterHandlerError(t *testing.T) {
	boom := func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return events.APIGatewayProxyResponse{}, errors.New("boom")
	}

	a, err := New(boom)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, httptest.NewRequest("GET", "http://example.com/", nil))

	if rec.Code != 500 {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var envelope map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshaling envelope: %v", err)
	}
	if envelope["error"] != "Internal Server Error" || envelope["message"] != "boom" {
		t.Errorf("envelope = %v", envelope)
	}
}

func TestAdapterHandlerPanic(t *testing.T) {
	panicky := func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		panic("unexpected state")
	}

	a, err := New(panicky)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, httptest.NewRequest("GET", "http://example.com/", nil))

	if rec.Code != 500 {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var envelope map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshaling envelope: %v", err)
	}
	if envelope["message"] != "unexpected state" {
		t.Errorf("envelope = %v", envelope)
	}
}

func TestNewRejectsBadRoute(t *testing.T) {
	if _, err := New(nil, WithRoutes("/x/:a/:a")); err == nil {
		t.Error("expected compile error for duplicate parameter names")
	}
}
