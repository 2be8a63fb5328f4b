package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"time"

	"github.com/devantler-tech/apidelta/pkg/structural"
	"github.com/sirupsen/logrus"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 32 << 20

// Send performs one request and classifies its outcome. For GET and DELETE
// the payload is encoded into query parameters; for POST, PUT and PATCH it
// becomes the JSON body. A nil payload sends neither. A nil client means
// the shared Default client.
//
// Send always returns exactly one Result. It does not retry, and a panic
// anywhere in the pipeline, observers included, is reported as an unknown
// error.
//
//nolint:nonamedreturns // Named return simplifies panic recovery logic.
func Send[R any](ctx context.Context, client *Client, spec RequestSpec, payload any) (result Result[R]) {
	if client == nil {
		client = Default()
	}

	spec = spec.Clone()
	spec.URL = client.resolveURL(spec.URL)

	log := client.log.WithFields(logrus.Fields{"method": spec.Method, "url": spec.URL})

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("request panicked")

			result = &Error{Message: fmt.Sprintf("%s: panic: %v", UnknownFailure, r), Kind: UnknownFailure}
		}
	}()

	if client.requestObserver != nil {
		if stopped := client.requestObserver(spec.Clone()); stopped != nil {
			log.WithField("reason", stopped.Message).Debug("request stopped by observer")

			return stopped
		}
	}

	req, failure := client.newRequest(ctx, spec, payload)
	if failure != nil {
		log.WithField("reason", failure.Message).Debug("request not built")

		return failure
	}

	start := time.Now()

	resp, err := client.httpClient.Do(req)
	if err != nil {
		failure = classifyTransportError(ctx, err)
		log.WithError(err).WithField("kind", failure.Kind).Debug("request failed")

		return failure
	}

	defer func() { _ = resp.Body.Close() }()

	log = log.WithFields(logrus.Fields{"status": resp.StatusCode, "elapsed": time.Since(start)})
	log.Debug("received response")

	if client.responseObserver != nil {
		if stopped := client.responseObserver(resp); stopped != nil {
			log.WithField("reason", stopped.Message).Debug("response stopped by observer")

			return stopped
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return classifyTransportError(ctx, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(resp.StatusCode, body)
	}

	return decodeResult[R](body)
}

func (c *Client) newRequest(ctx context.Context, spec RequestSpec, payload any) (*http.Request, *Error) {
	target, err := url.Parse(spec.URL)
	if err != nil {
		return nil, wrapError(UnknownFailure, fmt.Errorf("parse url: %w", err))
	}

	if (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, wrapError(UnknownFailure, fmt.Errorf("%w: %q", ErrInvalidURL, spec.URL))
	}

	var body io.Reader

	if !isNil(payload) {
		switch {
		case spec.Method.UsesQuery():
			encoded, encodeErr := structural.Encode(payload)
			if encodeErr != nil {
				return nil, wrapError(ParseFailure, fmt.Errorf("encode query payload: %w", encodeErr))
			}

			query := target.Query()

			for key, values := range QueryParams(encoded) {
				for _, value := range values {
					query.Add(key, value)
				}
			}

			target.RawQuery = query.Encode()
		case spec.Method.HasBody():
			encoded, encodeErr := encodeBody(payload)
			if encodeErr != nil {
				return nil, wrapError(ParseFailure, fmt.Errorf("encode body payload: %w", encodeErr))
			}

			body = bytes.NewReader(encoded)
		}
	}

	req, err := http.NewRequestWithContext(ctx, string(spec.Method), target.String(), body)
	if err != nil {
		return nil, wrapError(UnknownFailure, fmt.Errorf("build request: %w", err))
	}

	setHeader(req.Header, "Accept", contentTypeJSON)

	if spec.Method.HasBody() {
		setHeader(req.Header, "Content-Type", contentTypeJSON)
	}

	if c.requestID != nil {
		setHeader(req.Header, RequestIDHeader, c.requestID())
	}

	applyHeaders(req.Header, c.headers)
	applyHeaders(req.Header, spec.Headers)

	return req, nil
}

func encodeBody(payload any) ([]byte, error) {
	switch typed := payload.(type) {
	case []byte:
		return typed, nil
	case json.RawMessage:
		return typed, nil
	case structural.Value:
		return structural.Marshal(typed)
	default:
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}

		return encoded, nil
	}
}

func isNil(payload any) bool {
	if payload == nil {
		return true
	}

	value := reflect.ValueOf(payload)

	switch value.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return value.IsNil()
	default:
		return false
	}
}
